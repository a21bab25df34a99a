// Package config loads marksix run settings.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// MARKSIX_* environment variables. The CLI applies its flags last. Load validates
// the result, so callers never see an out-of-range year or an unknown format.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "MARKSIX"

// FirstYear is the earliest year the results site publishes.
const FirstYear = 1993

// Config holds every setting of a run
type Config struct {
	// Source
	BaseURL      string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	UserAgent    string        `yaml:"user_agent" envconfig:"USER_AGENT" validate:"required"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RequestDelay time.Duration `yaml:"request_delay" envconfig:"REQUEST_DELAY" validate:"gte=0"`
	Retries      int           `yaml:"retries" envconfig:"RETRIES" validate:"gte=0,lte=10"`
	InsecureTLS  bool          `yaml:"insecure_tls" envconfig:"INSECURE_TLS"`

	// Range
	StartYear int `yaml:"start_year" envconfig:"START_YEAR" validate:"gte=1993"`
	EndYear   int `yaml:"end_year" envconfig:"END_YEAR" validate:"omitempty,gte=1993"` // 0 means the current year
	Workers   int `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=8"`

	// Output
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"required"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	LogLevel    string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		BaseURL:      "https://lottery.hk/en/mark-six/results",
		UserAgent:    "marksix-history/1.0 (github.com/pfrederiksen/marksix-history)",
		Timeout:      30 * time.Second,
		RequestDelay: time.Second,
		StartYear:    FirstYear,
		Workers:      1,
		Output:       "all.csv",
		Format:       "csv",
		LogLevel:     "info",
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// No default tags: envconfig then only touches variables that are set.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from env: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Normalize lowercases the enumerated settings.
func (c *Config) Normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and the year range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Field(), tagWithParam(fe), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.EndYear != 0 && c.EndYear < c.StartYear {
		return fmt.Errorf("invalid config: end year %d before start year %d", c.EndYear, c.StartYear)
	}
	return nil
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Years returns the inclusive range StartYear..EndYear, with EndYear 0 replaced by
// the year of now. Years after now are rejected.
func (c *Config) Years(now time.Time) ([]int, error) {
	end := c.EndYear
	if end == 0 {
		end = now.Year()
	}
	if end > now.Year() {
		return nil, fmt.Errorf("end year %d is after the current year %d", end, now.Year())
	}
	if end < c.StartYear {
		return nil, fmt.Errorf("end year %d before start year %d", end, c.StartYear)
	}
	years := make([]int, 0, end-c.StartYear+1)
	for y := c.StartYear; y <= end; y++ {
		years = append(years, y)
	}
	return years, nil
}
