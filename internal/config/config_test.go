package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marksix.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if !reflect.DeepEqual(*cfg, want) {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
	if cfg.StartYear != 1993 || cfg.Output != "all.csv" || cfg.RequestDelay != time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := writeFile(t, `
start_year: 2000
end_year: 2010
workers: 2
request_delay: 500ms
format: XLSX
output: draws.xlsx
`)
	t.Setenv("MARKSIX_WORKERS", "4")
	t.Setenv("MARKSIX_INSECURE_TLS", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.StartYear != 2000 || cfg.EndYear != 2010 {
		t.Errorf("years = %d..%d, want 2000..2010 from file", cfg.StartYear, cfg.EndYear)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, env should win over file", cfg.Workers)
	}
	if !cfg.InsecureTLS {
		t.Error("InsecureTLS not read from env")
	}
	if cfg.RequestDelay != 500*time.Millisecond {
		t.Errorf("RequestDelay = %v, want 500ms", cfg.RequestDelay)
	}
	if cfg.Format != "xlsx" {
		t.Errorf("Format = %q, want lowercased xlsx", cfg.Format)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, default should survive", cfg.Timeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "year before first draw",
			file:    "start_year: 1980\n",
			wantErr: "StartYear",
		},
		{
			name:    "unknown format",
			env:     map[string]string{"MARKSIX_FORMAT": "parquet"},
			wantErr: "Format",
		},
		{
			name:    "too many workers",
			env:     map[string]string{"MARKSIX_WORKERS": "64"},
			wantErr: "Workers",
		},
		{
			name:    "end before start",
			file:    "start_year: 2010\nend_year: 2000\n",
			wantErr: "end year 2000 before start year 2010",
		},
		{
			name:    "unknown key",
			file:    "start_yaer: 2010\n",
			wantErr: "start_yaer",
		},
		{
			name:    "bad env value",
			env:     map[string]string{"MARKSIX_RETRIES": "many"},
			wantErr: "RETRIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with missing file expected error")
	}
}

func TestYears(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cfg := Default()
	years, err := cfg.Years(now)
	if err != nil {
		t.Fatalf("Years() error: %v", err)
	}
	if len(years) != 33 || years[0] != 1993 || years[len(years)-1] != 2025 {
		t.Errorf("Years() = %v..%v (%d), want 1993..2025", years[0], years[len(years)-1], len(years))
	}

	cfg.StartYear, cfg.EndYear = 2020, 2021
	years, _ = cfg.Years(now)
	if !reflect.DeepEqual(years, []int{2020, 2021}) {
		t.Errorf("Years() = %v, want [2020 2021]", years)
	}

	cfg.StartYear, cfg.EndYear = 2030, 0
	if _, err := cfg.Years(now); err == nil {
		t.Error("Years() with start after current year expected error")
	}
}

func TestYears_RejectsFutureEnd(t *testing.T) {
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, end := range []int{2022, 2030, 1000000000} {
		cfg := Default()
		cfg.StartYear, cfg.EndYear = 2020, end
		years, err := cfg.Years(now)
		if err == nil {
			t.Errorf("Years() with end %d expected error, got %d years", end, len(years))
		}
	}
}
