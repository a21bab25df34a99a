package harvest

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/marksix-history/internal/draw"
	"github.com/pfrederiksen/marksix-history/internal/logger"
)

// MaxWorkers bounds the number of periods fetched at once.
const MaxWorkers = 8

// Source returns the raw tables published for one period.
type Source interface {
	FetchTables(ctx context.Context, period int) ([]draw.RawTable, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, period int) ([]draw.RawTable, error)

// FetchTables calls f.
func (f SourceFunc) FetchTables(ctx context.Context, period int) ([]draw.RawTable, error) {
	return f(ctx, period)
}

// Aggregator drives Process over a range of periods.
type Aggregator struct {
	source  Source
	workers int
	log     *logger.Logger
	onBatch func(PeriodBatch)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWorkers sets how many periods are fetched concurrently. Values below 1 mean
// sequential, values above MaxWorkers are capped.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		switch {
		case n < 1:
			n = 1
		case n > MaxWorkers:
			n = MaxWorkers
		}
		a.workers = n
	}
}

// WithLogger sets the logger that receives per-period progress.
func WithLogger(l *logger.Logger) Option {
	return func(a *Aggregator) {
		a.log = l
	}
}

// WithBatchHook registers fn to be called once per finished period. In concurrent
// mode fn may be called from several goroutines.
func WithBatchHook(fn func(PeriodBatch)) Option {
	return func(a *Aggregator) {
		a.onBatch = fn
	}
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:  source,
		workers: 1,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run fetches and processes every period in order and merges the successful batches.
//
// A failure in one period never affects the others. When ctx is cancelled no new
// period is started; batches already finished are merged, the rest are reported in
// Result.Pending, and ctx.Err() is returned alongside the partial result.
func (a *Aggregator) Run(ctx context.Context, periods []int) (*Result, error) {
	var batches []*PeriodBatch
	if a.workers > 1 {
		batches = a.runConcurrent(ctx, periods)
	} else {
		batches = a.runSequential(ctx, periods)
	}

	result := &Result{}
	for i, b := range batches {
		if b == nil {
			result.Pending = append(result.Pending, periods[i])
			continue
		}
		result.add(*b)
	}

	a.log.Info("Aggregation finished", logger.Fields{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
		"empty":     len(result.Empty),
		"pending":   len(result.Pending),
		"records":   len(result.Records),
	})

	return result, ctx.Err()
}

func (a *Aggregator) runSequential(ctx context.Context, periods []int) []*PeriodBatch {
	batches := make([]*PeriodBatch, len(periods))
	for i, period := range periods {
		if ctx.Err() != nil {
			break
		}
		batches[i] = a.runPeriod(ctx, period, i+1, len(periods))
	}
	return batches
}

// runConcurrent gives every period its own slot so that merging afterwards keeps
// period order whatever order the workers finish in.
func (a *Aggregator) runConcurrent(ctx context.Context, periods []int) []*PeriodBatch {
	batches := make([]*PeriodBatch, len(periods))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, period := range periods {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			batches[i] = a.runPeriod(ctx, period, i+1, len(periods))
			return nil
		})
	}
	g.Wait() // workers never return errors

	return batches
}

// runPeriod returns nil when the fetch was interrupted by cancellation, so the
// period is reported as pending rather than failed.
func (a *Aggregator) runPeriod(ctx context.Context, period, n, total int) *PeriodBatch {
	start := time.Now()
	a.log.Info("Fetching period", logger.Fields{"year": period, "index": n, "total": total})

	tables, err := a.source.FetchTables(ctx, period)
	if err != nil && ctx.Err() != nil {
		return nil
	}

	var batch PeriodBatch
	switch {
	case err != nil:
		batch = PeriodBatch{Period: period, Status: StatusFailed, Err: &FetchError{Period: period, Err: err}}
	case len(tables) == 0:
		batch = PeriodBatch{Period: period, Status: StatusFailed, Err: &FetchError{Period: period, Err: ErrNoTables}}
	default:
		batch = Process(period, &tables[0])
	}
	batch.Duration = time.Since(start)

	a.report(batch)
	if a.onBatch != nil {
		a.onBatch(batch)
	}
	return &batch
}

func (a *Aggregator) report(b PeriodBatch) {
	fields := logger.Fields{
		"year":        b.Period,
		"status":      string(b.Status),
		"records":     len(b.Records),
		"rows":        b.Clean.Input,
		"decorative":  b.Clean.Decorative,
		"invalid":     b.Clean.Invalid,
		"duration_ms": b.Duration.Milliseconds(),
	}

	switch b.Status {
	case StatusOK:
		a.log.Info("Period processed", fields)
		if !b.Quality.Clean() {
			a.log.Warn("Period has irregular number lists", logger.Fields{
				"year":       b.Period,
				"padded":     b.Quality.Padded,
				"truncated":  b.Quality.Truncated,
				"bad_tokens": b.Quality.BadTokens,
			})
		}
	case StatusEmpty:
		a.log.Warn("Period has no usable rows", fields)
	default:
		a.log.Error("Period failed", fields, b.Err)
	}
}
