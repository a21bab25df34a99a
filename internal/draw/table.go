package draw

// Column names used by the results page.
const (
	ColDrawNumber = "Draw Number"
	ColDrawDate   = "Draw Date"
	ColBallsDrawn = "Balls Drawn"
	ColDetails    = "Details"
)

// Cell is a single table cell. Valid is false for a null cell.
type Cell struct {
	Value string
	Valid bool
}

// Str returns a non-null cell holding s.
func Str(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null is the absent cell.
var Null = Cell{}

// RawRow is one table row, positionally aligned with RawTable.Columns.
type RawRow []Cell

// RawTable is an untyped table as read from the source page
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// IsEmpty reports whether the table has no rows or no columns.
func (t *RawTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Columns) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at column i of the row, or Null when the row is too short.
func (r RawRow) Cell(i int) Cell {
	if i < 0 || i >= len(r) {
		return Null
	}
	return r[i]
}
