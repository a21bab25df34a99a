package harvest

import (
	"errors"
	"time"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// Status is the outcome of one period
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// PeriodBatch holds the normalized records of one period and how they were obtained.
type PeriodBatch struct {
	Period   int
	Status   Status
	Records  []draw.DrawRecord
	Err      error // set when Status is StatusFailed
	Clean    draw.CleanStats
	Quality  draw.Quality
	Duration time.Duration
}

// FetchFailed reports whether the batch failed before processing started.
func (b PeriodBatch) FetchFailed() bool {
	var ferr *FetchError
	return b.Status == StatusFailed && errors.As(b.Err, &ferr)
}

// Result is the combined outcome of an aggregation run.
type Result struct {
	Records   []draw.DrawRecord
	Succeeded []int
	Failed    []int
	Empty     []int
	Pending   []int // periods never attempted because the run was cancelled
	Batches   []PeriodBatch
	Quality   draw.Quality
}

// HasData reports whether at least one period contributed records.
func (r *Result) HasData() bool {
	return len(r.Succeeded) > 0
}

func (r *Result) add(b PeriodBatch) {
	r.Batches = append(r.Batches, b)
	switch b.Status {
	case StatusOK:
		if len(b.Records) == 0 {
			r.Empty = append(r.Empty, b.Period)
			return
		}
		r.Records = append(r.Records, b.Records...)
		r.Succeeded = append(r.Succeeded, b.Period)
		r.Quality.Add(b.Quality)
	case StatusEmpty:
		r.Empty = append(r.Empty, b.Period)
	default:
		r.Failed = append(r.Failed, b.Period)
	}
}
