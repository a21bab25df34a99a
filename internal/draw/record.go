package draw

import (
	"fmt"
	"strconv"
)

// Slots is the number of positional number columns in a DrawRecord.
const Slots = 7

// Number is one drawn number. Valid is false when the source had no value for the slot.
type Number struct {
	Value int
	Valid bool
}

// String returns the decimal value, or "" for an absent slot.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Value)
}

// DrawRecord is one normalized draw
type DrawRecord struct {
	DrawDate string // as published, "" when the source cell was null
	Numbers  [Slots]Number
}

// Header lists the output columns in their fixed order.
var Header = []string{ColDrawDate, "num1", "num2", "num3", "num4", "num5", "num6", "num7"}

// NumColumn returns the column name of slot i (0-based).
func NumColumn(i int) string {
	return fmt.Sprintf("num%d", i+1)
}

// Strings returns the record as one value per Header column.
func (r DrawRecord) Strings() []string {
	out := make([]string, 0, len(Header))
	out = append(out, r.DrawDate)
	for _, n := range r.Numbers {
		out = append(out, n.String())
	}
	return out
}

// ToTable lays records out as a raw table with the Header columns.
func ToTable(records []DrawRecord) RawTable {
	columns := make([]string, len(Header))
	copy(columns, Header)

	rows := make([]RawRow, 0, len(records))
	for _, r := range records {
		row := make(RawRow, 0, len(Header))
		if r.DrawDate == "" {
			row = append(row, Null)
		} else {
			row = append(row, Str(r.DrawDate))
		}
		for _, n := range r.Numbers {
			if n.Valid {
				row = append(row, Str(n.String()))
			} else {
				row = append(row, Null)
			}
		}
		rows = append(rows, row)
	}
	return RawTable{Columns: columns, Rows: rows}
}
