package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/marksix-history/internal/draw"
	"github.com/pfrederiksen/marksix-history/internal/harvest"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// PeriodFailure names a year that could not be collected.
type PeriodFailure struct {
	Year  int    `json:"year"`
	Error string `json:"error"`
}

// Summary describes one finished run
type Summary struct {
	RunID       string          `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Elapsed     string          `json:"elapsed"`
	Requested   int             `json:"requested"`
	Succeeded   []int           `json:"succeeded"`
	Empty       []int           `json:"empty,omitempty"`
	Failed      []PeriodFailure `json:"failed,omitempty"`
	Pending     []int           `json:"pending,omitempty"`
	Records     int             `json:"records"`
	Columns     []string        `json:"columns"`
	FirstDraw   string          `json:"first_draw,omitempty"`
	LastDraw    string          `json:"last_draw,omitempty"`
	Quality     draw.Quality    `json:"quality"`
	Outputs     []string        `json:"outputs,omitempty"`
	Interrupted bool            `json:"interrupted,omitempty"`
}

// NewSummary builds the summary of a run over years.
func NewSummary(runID string, years []int, result *harvest.Result, started, completed time.Time) *Summary {
	s := &Summary{
		RunID:       runID,
		StartedAt:   started,
		CompletedAt: completed,
		Elapsed:     completed.Sub(started).Round(time.Millisecond).String(),
		Requested:   len(years),
		Succeeded:   result.Succeeded,
		Empty:       result.Empty,
		Pending:     result.Pending,
		Records:     len(result.Records),
		Columns:     append([]string(nil), draw.Header...),
		Quality:     result.Quality,
	}
	if s.Succeeded == nil {
		s.Succeeded = []int{}
	}
	for _, b := range result.Batches {
		if b.Status == harvest.StatusFailed {
			s.Failed = append(s.Failed, PeriodFailure{Year: b.Period, Error: b.Err.Error()})
		}
	}
	if first, last, ok := draw.DateRange(result.Records); ok {
		s.FirstDraw = first.Format("2006-01-02")
		s.LastDraw = last.Format("2006-01-02")
	}
	return s
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		return writeText(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, s *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *Summary) error {
	if s.Records == 0 {
		fmt.Fprintf(w, "No draws collected from %d years.\n", s.Requested)
		writeProblems(w, s)
		return nil
	}

	fmt.Fprintf(w, "Collected %d draws from %d of %d years\n", s.Records, len(s.Succeeded), s.Requested)
	if s.FirstDraw != "" {
		fmt.Fprintf(w, "Date range: %s to %s\n", s.FirstDraw, s.LastDraw)
	}
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(s.Columns, ", "))
	writeProblems(w, s)
	if !s.Quality.Clean() {
		fmt.Fprintf(w, "Irregular rows: %d padded, %d truncated, %d bad numbers\n",
			s.Quality.Padded, s.Quality.Truncated, s.Quality.BadTokens)
	}
	for _, out := range s.Outputs {
		fmt.Fprintf(w, "Saved: %s\n", out)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", s.Elapsed)
	return nil
}

func writeProblems(w io.Writer, s *Summary) {
	if len(s.Empty) > 0 {
		fmt.Fprintf(w, "Empty years: %s\n", joinYears(s.Empty))
	}
	for _, f := range s.Failed {
		fmt.Fprintf(w, "  FAILED %d: %s\n", f.Year, f.Error)
	}
	if len(s.Pending) > 0 {
		fmt.Fprintf(w, "Not attempted (interrupted): %s\n", joinYears(s.Pending))
	}
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
