package draw

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{"02/01/2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2/1/2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"02 Jan 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{" 31/12/1993 ", time.Date(1993, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ParseDate(tt.text); !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	records := []DrawRecord{
		{DrawDate: "05/03/2020"},
		{DrawDate: ""},
		{DrawDate: "01/02/1994"},
		{DrawDate: "garbage"},
		{DrawDate: "30/12/2024"},
	}

	first, last, ok := DateRange(records)
	if !ok {
		t.Fatal("DateRange() ok = false")
	}
	if !first.Equal(time.Date(1994, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first = %v", first)
	}
	if !last.Equal(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last = %v", last)
	}

	if _, _, ok := DateRange([]DrawRecord{{DrawDate: ""}}); ok {
		t.Error("DateRange() ok = true with no parseable dates")
	}
}
