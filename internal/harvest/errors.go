package harvest

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a run finished without any successful period.
var ErrNoData = errors.New("no data collected")

// FetchError wraps a source failure for one period.
type FetchError struct {
	Period int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %d: %v", e.Period, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ProcessError wraps a cleaning or normalization failure for one period.
type ProcessError struct {
	Period int
	Err    error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("processing %d: %v", e.Period, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ErrNoTables is the fetch failure for a page without any table.
var ErrNoTables = errors.New("no tables found on page")
