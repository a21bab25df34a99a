package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pfrederiksen/marksix-history/internal/config"
	"github.com/pfrederiksen/marksix-history/internal/harvest"
	"github.com/pfrederiksen/marksix-history/internal/logger"
	"github.com/pfrederiksen/marksix-history/internal/metrics"
	"github.com/pfrederiksen/marksix-history/internal/scraper"
	"github.com/pfrederiksen/marksix-history/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNoData  = 2
)

// rootOptions holds flag values for one command tree.
type rootOptions struct {
	configFile    string
	output        string
	format        string
	sqlitePath    string
	metricsFile   string
	baseURL       string
	workers       int
	retries       int
	delay         time.Duration
	timeout       time.Duration
	insecure      bool
	verbose       bool
	summaryFormat string

	startYear int
	endYear   int
	year      int

	now func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{now: time.Now})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marksix",
		Short: "Collect historical Mark Six draw results",
		Long: `A CLI tool that scrapes the yearly Mark Six results tables, removes month
dividers and malformed rows, splits the drawn numbers into seven columns and
saves every year into one dataset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML config file")
	pf.StringVar(&opts.output, "output", "", "Output file (default all.csv)")
	pf.StringVar(&opts.format, "format", "", "Output format: csv or xlsx")
	pf.StringVar(&opts.sqlitePath, "sqlite", "", "Also store the draws in this SQLite database")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	pf.StringVar(&opts.baseURL, "base-url", "", "Results page base URL")
	pf.IntVar(&opts.workers, "workers", 0, "Years fetched concurrently (1-8)")
	pf.IntVar(&opts.retries, "retries", 0, "Retries per year on transport errors")
	pf.DurationVar(&opts.delay, "delay", 0, "Minimum delay between requests")
	pf.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout per request")
	pf.BoolVar(&opts.insecure, "insecure", false, "Skip TLS certificate verification for the results site")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	pf.StringVar(&opts.summaryFormat, "summary-format", "text", "Summary format: text or json")

	cmd.AddCommand(newHistoryCmd(opts), newCurrentCmd(opts))
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Scrape every year from the first draw to the current year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			years, err := cfg.Years(opts.now())
			if err != nil {
				return err
			}
			return runScrape(cmd, opts, cfg, years)
		},
	}

	cmd.Flags().IntVar(&opts.startYear, "start", 0, "First year (default 1993)")
	cmd.Flags().IntVar(&opts.endYear, "end", 0, "Last year (default current year)")
	return cmd
}

func newCurrentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Scrape a single year, the current one by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			year := opts.year
			if year == 0 {
				year = opts.now().Year()
			}
			if year < config.FirstYear || year > opts.now().Year() {
				return fmt.Errorf("--year must be between %d and %d", config.FirstYear, opts.now().Year())
			}
			if !cmd.Flags().Changed("output") && cfg.Output == defaultOutput(cfg.Format) {
				cfg.Output = fmt.Sprintf("lottery_results_%d_final.%s", year, cfg.Format)
			}
			return runScrape(cmd, opts, cfg, []int{year})
		},
	}

	cmd.Flags().IntVar(&opts.year, "year", 0, "Year to scrape (default current year)")
	return cmd
}

// loadConfig layers changed flags over the file and environment configuration.
func (o *rootOptions) loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}

	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = o.sqlitePath
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("retries") {
		cfg.Retries = o.retries
	}
	if flags.Changed("delay") {
		cfg.RequestDelay = o.delay
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("insecure") {
		cfg.InsecureTLS = o.insecure
	}
	if flags.Changed("start") {
		cfg.StartYear = o.startYear
	}
	if flags.Changed("end") {
		cfg.EndYear = o.endYear
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}

	cfg.Normalize()
	if cfg.Output == config.Default().Output {
		cfg.Output = defaultOutput(cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultOutput keeps the default file name in step with the chosen format.
func defaultOutput(format string) string {
	return strings.TrimSuffix(config.Default().Output, ".csv") + "." + format
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, years []int) error {
	format := OutputFormat(opts.summaryFormat)
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid summary format: %s (must be 'text' or 'json')", opts.summaryFormat)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	log := logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{"run_id": runID})

	log.Info("Starting run", logger.Fields{
		"first_year": years[0],
		"last_year":  years[len(years)-1],
		"years":      len(years),
		"workers":    cfg.Workers,
		"output":     cfg.Output,
	})

	src := scraper.New(scraper.Options{
		BaseURL:            cfg.BaseURL,
		UserAgent:          cfg.UserAgent,
		Timeout:            cfg.Timeout,
		Delay:              cfg.RequestDelay,
		Retries:            cfg.Retries,
		InsecureSkipVerify: cfg.InsecureTLS,
	})
	recorder := metrics.New()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := harvest.NewAggregator(src,
		harvest.WithWorkers(cfg.Workers),
		harvest.WithLogger(log),
		harvest.WithBatchHook(recorder.Observe),
	)

	started := opts.now()
	result, runErr := agg.Run(ctx, years)
	if runErr != nil {
		log.Warn("Run interrupted, keeping collected periods", logger.Fields{
			"pending": len(result.Pending),
			"reason":  runErr.Error(),
		})
	}

	summary := NewSummary(runID, years, result, started, opts.now())
	summary.Interrupted = runErr != nil

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Could not write metrics", logger.Fields{"path": cfg.MetricsFile, "error": err.Error()})
		}
	}

	if !result.HasData() {
		if err := WriteSummary(cmd.OutOrStdout(), summary, format); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		if runErr != nil {
			return errors.Join(harvest.ErrNoData, runErr)
		}
		return harvest.ErrNoData
	}

	sinks, err := buildSinks(cfg, runID)
	if err != nil {
		return err
	}
	// Sinks run on a fresh context so an interrupted run still saves what it has.
	if err := storage.WriteAll(context.WithoutCancel(ctx), sinks, result.Records); err != nil {
		log.Error("Saving failed", nil, err)
		return err
	}
	for _, s := range sinks {
		summary.Outputs = append(summary.Outputs, s.Location())
		log.Info("Saved records", logger.Fields{"path": s.Location(), "records": len(result.Records)})
	}

	if err := WriteSummary(cmd.OutOrStdout(), summary, format); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return runErr
}

func buildSinks(cfg *config.Config, runID string) ([]storage.Sink, error) {
	primary, err := storage.NewFileSink(cfg.Output, storage.Format(cfg.Format))
	if err != nil {
		return nil, err
	}
	sinks := []storage.Sink{primary}
	if cfg.SQLitePath != "" {
		sinks = append(sinks, storage.NewSQLiteSink(cfg.SQLitePath, runID))
	}
	return sinks, nil
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, harvest.ErrNoData):
		return ExitNoData
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, harvest.ErrNoData):
		fmt.Fprintln(os.Stderr, "No data to save!")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
