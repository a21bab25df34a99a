package draw

import "strings"

// CleanStats counts what Clean removed from a table.
type CleanStats struct {
	Input      int `json:"input"`
	Decorative int `json:"decorative"`
	Invalid    int `json:"invalid"`
	Kept       int `json:"kept"`
}

// Clean removes month divider rows and, when the table has a draw number column,
// every row whose draw number is null or lacks the "/" between year and sequence.
// The input table is not modified.
func Clean(t RawTable) (RawTable, CleanStats) {
	stats := CleanStats{Input: len(t.Rows)}
	idCol := t.ColumnIndex(ColDrawNumber)

	rows := make([]RawRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if Classify(row) == RowDecorative {
			stats.Decorative++
			continue
		}
		if idCol >= 0 && !validDrawNumber(row.Cell(idCol)) {
			stats.Invalid++
			continue
		}
		rows = append(rows, row)
	}
	stats.Kept = len(rows)

	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)
	return RawTable{Columns: columns, Rows: rows}, stats
}

// validDrawNumber accepts identifiers such as "25/001".
func validDrawNumber(c Cell) bool {
	return c.Valid && strings.Contains(c.Value, "/")
}
