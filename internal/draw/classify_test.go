package draw

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
		want RowKind
	}{
		{"repeated month label", RawRow{Str("March"), Str("March"), Str("March"), Str("March")}, RowDecorative},
		{"single month cell", RawRow{Str("March")}, RowDecorative},
		{"month with nulls", RawRow{Str("June 2024"), Null, Str("June 2024"), Null}, RowDecorative},
		{"different months", RawRow{Str("March"), Str("April")}, RowData},
		{"all null", RawRow{Null, Null, Null}, RowData},
		{"empty row", RawRow{}, RowData},
		{"repeated non-month", RawRow{Str("TBD"), Str("TBD")}, RowData},
		{"lowercase month", RawRow{Str("march"), Str("march")}, RowData},
		{"draw row", RawRow{Str("25/001"), Str("02/01/2025"), Str("1 2 3 4 5 6 7"), Str("Details")}, RowData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.row); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonths(t *testing.T) {
	for _, m := range Months {
		if Classify(RawRow{Str(m), Str(m)}) != RowDecorative {
			t.Errorf("row of %q not classified as decorative", m)
		}
	}
}
