package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/marksix-history/internal/draw"
	"github.com/pfrederiksen/marksix-history/internal/harvest"
)

func TestRecorder_Observe(t *testing.T) {
	r := New()

	r.Observe(harvest.PeriodBatch{
		Period:   2020,
		Status:   harvest.StatusOK,
		Records:  make([]draw.DrawRecord, 3),
		Clean:    draw.CleanStats{Input: 6, Decorative: 2, Invalid: 1, Kept: 3},
		Quality:  draw.Quality{Padded: 1},
		Duration: 250 * time.Millisecond,
	})
	r.Observe(harvest.PeriodBatch{
		Period: 2021,
		Status: harvest.StatusFailed,
		Err:    &harvest.FetchError{Period: 2021, Err: errors.New("timeout")},
	})
	r.Observe(harvest.PeriodBatch{Period: 2022, Status: harvest.StatusEmpty})

	families, err := r.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetValue() + "}"
			}
			if c := m.GetCounter(); c != nil {
				values[key] = c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				values[key] = float64(h.GetSampleCount())
			}
		}
	}

	want := map[string]float64{
		"marksix_periods_total{ok}":              1,
		"marksix_periods_total{fetch_failed}":    1,
		"marksix_periods_total{empty}":           1,
		"marksix_records_total":                  3,
		"marksix_rows_removed_total{decorative}": 2,
		"marksix_rows_removed_total{invalid}":    1,
		"marksix_number_anomalies_total{padded}": 1,
		"marksix_period_duration_seconds":        3,
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %v, want %v", k, values[k], v)
		}
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Observe(harvest.PeriodBatch{Period: 2020, Status: harvest.StatusOK, Records: make([]draw.DrawRecord, 1)})

	path := filepath.Join(t.TempDir(), "marksix.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `marksix_periods_total{status="ok"} 1`) {
		t.Errorf("textfile missing period counter:\n%s", data)
	}
}
