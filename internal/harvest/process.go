package harvest

import (
	"fmt"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// Process cleans and normalizes one period's raw table. It never panics: a nil or
// empty table yields StatusEmpty, and any error while normalizing becomes StatusFailed
// with the error kept on the batch.
func Process(period int, table *draw.RawTable) (batch PeriodBatch) {
	batch.Period = period

	defer func() {
		if r := recover(); r != nil {
			batch = PeriodBatch{
				Period: period,
				Status: StatusFailed,
				Err:    &ProcessError{Period: period, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	if table.IsEmpty() {
		batch.Status = StatusEmpty
		return batch
	}

	cleaned, stats := draw.Clean(*table)
	batch.Clean = stats
	if len(cleaned.Rows) == 0 {
		batch.Status = StatusEmpty
		return batch
	}

	records, quality, err := draw.Normalize(cleaned)
	if err != nil {
		batch.Status = StatusFailed
		batch.Err = &ProcessError{Period: period, Err: err}
		return batch
	}

	batch.Status = StatusOK
	batch.Records = records
	batch.Quality = quality
	return batch
}
