package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// Format names an output file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Sink persists one run's records
type Sink interface {
	Write(ctx context.Context, records []draw.DrawRecord) error
	Location() string
}

// SinkError reports a failure to persist records.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// NewFileSink returns the sink writing path in the given format.
func NewFileSink(path string, format Format) (Sink, error) {
	switch format {
	case FormatCSV, "":
		return NewCSVSink(path), nil
	case FormatXLSX:
		return NewXLSXSink(path), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteAll writes records to every sink and joins their errors.
func WriteAll(ctx context.Context, sinks []Sink, records []draw.DrawRecord) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Write(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExpandPath expands a leading ~/ to the home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// prepare expands path and creates its parent directory.
func prepare(path string) (string, error) {
	full, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return full, nil
}
