package draw

import "strings"

// RowKind is the classification of a raw row
type RowKind int

const (
	RowData RowKind = iota
	RowDecorative
)

func (k RowKind) String() string {
	if k == RowDecorative {
		return "decorative"
	}
	return "data"
}

// Months holds the labels the results page repeats across a row to mark a new month.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Classify reports whether row is a month divider. A divider has at least one
// non-null cell, every non-null cell carries the same text, and that text contains
// a month name. Rows without any value are left to the structural check in Clean.
func Classify(row RawRow) RowKind {
	var label string
	seen := false
	for _, c := range row {
		if !c.Valid {
			continue
		}
		if !seen {
			label = c.Value
			seen = true
			continue
		}
		if c.Value != label {
			return RowData
		}
	}
	if !seen || !containsMonth(label) {
		return RowData
	}
	return RowDecorative
}

func containsMonth(s string) bool {
	for _, m := range Months {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
