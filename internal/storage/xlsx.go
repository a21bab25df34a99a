package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// SheetName is the worksheet holding the draws.
const SheetName = "Draws"

// XLSXSink writes records to a single-sheet workbook.
type XLSXSink struct {
	path string
}

// NewXLSXSink creates a sink for path
func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

// Location returns the output path
func (s *XLSXSink) Location() string {
	return s.path
}

// Write replaces the workbook with records. Numbers are stored as numeric cells,
// absent slots as blank cells.
func (s *XLSXSink) Write(ctx context.Context, records []draw.DrawRecord) error {
	if err := ctx.Err(); err != nil {
		return &SinkError{Path: s.path, Err: err}
	}
	if err := s.write(records); err != nil {
		return &SinkError{Path: s.path, Err: err}
	}
	return nil
}

func (s *XLSXSink) write(records []draw.DrawRecord) error {
	full, err := prepare(s.path)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	header := make([]interface{}, len(draw.Header))
	for i, h := range draw.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	return replaceFile(full, f)
}

// replaceFile writes the workbook next to full and renames it into place, so a
// failed save keeps the previous file.
func replaceFile(full string, f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("saving workbook: %w", err)
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

func xlsxRow(r draw.DrawRecord) []interface{} {
	row := make([]interface{}, 0, len(draw.Header))
	row = append(row, r.DrawDate)
	for _, n := range r.Numbers {
		if n.Valid {
			row = append(row, n.Value)
		} else {
			row = append(row, nil)
		}
	}
	return row
}
