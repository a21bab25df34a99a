package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// CSVSink writes records as comma separated UTF-8 text with a header row.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink for path
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Location returns the output path
func (s *CSVSink) Location() string {
	return s.path
}

// Write replaces the file with records. The file is written next to its target and
// renamed into place, so a failed run leaves the previous file intact.
func (s *CSVSink) Write(ctx context.Context, records []draw.DrawRecord) error {
	if err := ctx.Err(); err != nil {
		return &SinkError{Path: s.path, Err: err}
	}
	if err := s.write(records); err != nil {
		return &SinkError{Path: s.path, Err: err}
	}
	return nil
}

func (s *CSVSink) write(records []draw.DrawRecord) error {
	full, err := prepare(s.path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(draw.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := w.Write(r.Strings()); err != nil {
			tmp.Close()
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}
	return nil
}
