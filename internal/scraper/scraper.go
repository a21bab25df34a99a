package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

const (
	ResultsURL   = "https://lottery.hk/en/mark-six/results"
	UserAgent    = "marksix-history/1.0 (github.com/pfrederiksen/marksix-history)"
	Timeout      = 30 * time.Second
	RequestDelay = time.Second
)

// ErrNotFound is returned when the site has no page for the requested year.
var ErrNotFound = errors.New("results page not found")

// Options configures a Scraper. Zero values fall back to the package defaults,
// except Delay and Retries where zero means no pacing and a single attempt.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Retries   int

	// InsecureSkipVerify disables certificate checks for this scraper's requests only.
	InsecureSkipVerify bool
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BaseURL:   ResultsURL,
		UserAgent: UserAgent,
		Timeout:   Timeout,
		Delay:     RequestDelay,
	}
}

// Scraper handles fetching and parsing yearly results pages
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	retries   int
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = ResultsURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	client := &http.Client{Timeout: opts.Timeout}
	if opts.InsecureSkipVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in for the results site's certificate chain
		client.Transport = transport
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Scraper{
		client:    client,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		retries:   opts.Retries,
	}
}

// URL returns the results page address for year.
func (s *Scraper) URL(year int) string {
	return fmt.Sprintf("%s/%d", s.baseURL, year)
}

// FetchTables fetches the results page for year and returns every table on it.
func (s *Scraper) FetchTables(ctx context.Context, year int) ([]draw.RawTable, error) {
	var tables []draw.RawTable

	op := func() error {
		var err error
		tables, err = s.fetchOnce(ctx, year)
		if errors.Is(err, ErrNotFound) || errors.Is(err, errParse) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(max(s.retries, 0))),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *Scraper) fetchOnce(ctx context.Context, year int) ([]draw.RawTable, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(year), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.URL(year))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tables, err := ParseTables(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParse, err)
	}
	return tables, nil
}
