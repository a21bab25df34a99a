package draw

import (
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Day-first comes before month-first
// since the results page is published in Hong Kong.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon 02/01/2006",
}

// ParseDate attempts to parse a published draw date.
// Returns time.Time{} (zero value) if no layout matches.
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Date returns the parsed draw date and whether it could be parsed.
func (r DrawRecord) Date() (time.Time, bool) {
	t := ParseDate(r.DrawDate)
	return t, !t.IsZero()
}

// DateRange returns the earliest and latest parseable draw dates among records.
// ok is false when no record has a parseable date.
func DateRange(records []DrawRecord) (first, last time.Time, ok bool) {
	for _, r := range records {
		t, valid := r.Date()
		if !valid {
			continue
		}
		if !ok || t.Before(first) {
			first = t
		}
		if !ok || t.After(last) {
			last = t
		}
		ok = true
	}
	return first, last, ok
}
