// Package metrics tracks per-run counters for marksix acquisition runs.
//
// A Recorder owns its own Prometheus registry, so tests and repeated runs never share
// state. At the end of a run the registry can be written in the text exposition
// format for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pfrederiksen/marksix-history/internal/harvest"
)

const namespace = "marksix"

// Recorder collects run metrics
type Recorder struct {
	registry      *prometheus.Registry
	periods       *prometheus.CounterVec
	records       prometheus.Counter
	rowsRemoved   *prometheus.CounterVec
	anomalies     *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		periods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "periods_total",
			Help:      "Periods processed, by outcome.",
		}, []string{"status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Draw records collected from successful periods.",
		}),
		rowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_removed_total",
			Help:      "Raw rows dropped while cleaning, by reason.",
		}, []string{"reason"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "number_anomalies_total",
			Help:      "Irregular number lists tolerated while normalizing, by kind.",
		}, []string{"kind"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "period_duration_seconds",
			Help:      "Time to fetch and process one period.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	r.registry.MustRegister(r.periods, r.records, r.rowsRemoved, r.anomalies, r.fetchDuration)
	return r
}

// Observe records one finished period. Safe for concurrent use.
func (r *Recorder) Observe(b harvest.PeriodBatch) {
	status := string(b.Status)
	if b.FetchFailed() {
		status = "fetch_failed"
	}
	r.periods.WithLabelValues(status).Inc()
	if b.Status == harvest.StatusOK {
		r.records.Add(float64(len(b.Records)))
	}
	r.rowsRemoved.WithLabelValues("decorative").Add(float64(b.Clean.Decorative))
	r.rowsRemoved.WithLabelValues("invalid").Add(float64(b.Clean.Invalid))
	r.anomalies.WithLabelValues("padded").Add(float64(b.Quality.Padded))
	r.anomalies.WithLabelValues("truncated").Add(float64(b.Quality.Truncated))
	r.anomalies.WithLabelValues("bad_token").Add(float64(b.Quality.BadTokens))
	r.fetchDuration.Observe(b.Duration.Seconds())
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
