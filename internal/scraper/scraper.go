package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	RankedURL   = "https://apexlegendsstatus.com/current-map/battle_royale/ranked"
	AllModesURL = "https://apexlegendsstatus.com/current-map"
	UserAgent   = "Mozilla/5.0 (compatible; ApexRankMapDiscordNotifier/1.0; +https://github.com/)"
	Timeout     = 25 * time.Second

	// maxBodyBytes caps how much of a page is read into memory
	maxBodyBytes = 8 << 20
)

// FetchError is returned when a page could not be fetched. StatusCode is
// zero when the request never produced a response (timeout, DNS, ...).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Scraper fetches rotation pages and probes asset URLs
type Scraper struct {
	client    *http.Client
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the identifying User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPage fetches the raw markup of a page. Any non-2xx status or
// transport failure is returned as a *FetchError.
func (s *Scraper) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return string(body), nil
}

// Check issues a lightweight existence check against url and returns the
// status code and Content-Type. Servers that reject HEAD are retried with GET.
func (s *Scraper) Check(ctx context.Context, url string) (int, string, error) {
	status, contentType, err := s.probe(ctx, http.MethodHead, url)
	if err != nil {
		return 0, "", err
	}
	if status == http.StatusMethodNotAllowed {
		return s.probe(ctx, http.MethodGet, url)
	}
	return status, contentType, nil
}

func (s *Scraper) probe(ctx context.Context, method, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}
