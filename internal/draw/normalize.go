package draw

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality counts anomalies Normalize tolerated. None of them drops a record.
type Quality struct {
	Padded    int `json:"padded"`     // rows with fewer than 7 numbers
	Truncated int `json:"truncated"`  // rows with more than 7 numbers
	BadTokens int `json:"bad_tokens"` // tokens that are not non-negative integers
}

// Add accumulates q2 into q.
func (q *Quality) Add(q2 Quality) {
	q.Padded += q2.Padded
	q.Truncated += q2.Truncated
	q.BadTokens += q2.BadTokens
}

// Clean reports whether no anomaly was counted.
func (q Quality) Clean() bool {
	return q == Quality{}
}

// NormalizationError reports a table that cannot be mapped onto DrawRecord at all.
type NormalizationError struct {
	Columns []string
	Reason  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalizing table: %s (columns %q)", e.Reason, e.Columns)
}

// Normalize maps each row of a cleaned table to a DrawRecord.
//
// The "Balls Drawn" field is split into seven slots: commas are removed, the rest is
// split on whitespace, missing slots stay absent and tokens past the seventh are
// dropped. Tables that already carry num1..num7 columns are read slot by slot, so
// Normalize(ToTable(r)) returns r. Draw number and details columns are ignored.
func Normalize(t RawTable) ([]DrawRecord, Quality, error) {
	var q Quality

	dateCol := t.ColumnIndex(ColDrawDate)
	ballsCol := t.ColumnIndex(ColBallsDrawn)
	var numCols [Slots]int
	hasNumCols := false
	for i := range numCols {
		numCols[i] = t.ColumnIndex(NumColumn(i))
		if numCols[i] >= 0 {
			hasNumCols = true
		}
	}

	if dateCol < 0 && ballsCol < 0 && !hasNumCols {
		return nil, q, &NormalizationError{Columns: t.Columns, Reason: "no draw date or number columns"}
	}

	records := make([]DrawRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		var rec DrawRecord
		if c := row.Cell(dateCol); c.Valid {
			rec.DrawDate = strings.TrimSpace(c.Value)
		}

		switch {
		case ballsCol >= 0:
			if c := row.Cell(ballsCol); c.Valid {
				tokens := SplitBalls(c.Value)
				switch {
				case len(tokens) < Slots:
					q.Padded++
				case len(tokens) > Slots:
					q.Truncated++
					tokens = tokens[:Slots]
				}
				for i, tok := range tokens {
					rec.Numbers[i] = parseNumber(tok, &q)
				}
			}
		case hasNumCols:
			for i, col := range numCols {
				if c := row.Cell(col); c.Valid {
					rec.Numbers[i] = parseNumber(c.Value, &q)
				}
			}
		}

		records = append(records, rec)
	}
	return records, q, nil
}

// SplitBalls returns the number tokens of a "Balls Drawn" value in order.
func SplitBalls(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, ",", ""))
}

func parseNumber(tok string, q *Quality) Number {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || n < 0 {
		q.BadTokens++
		return Number{}
	}
	return Number{Value: n, Valid: true}
}
