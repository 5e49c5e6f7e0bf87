// Package sheets fetches spreadsheet exports as CSV grids.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"scriptdb/internal/config"
	"scriptdb/internal/grid"
)

const (
	defaultUserAgent   = "scriptdb/1.0"
	defaultHTTPTimeout = 15 * time.Second
	defaultAttempts    = 3
	// maxExportBytes caps one export download. Production scripts are tiny;
	// anything larger is a mislinked sheet.
	maxExportBytes = 32 << 20
)

var (
	// ErrInvalidSheetURL marks inputs that do not look like a spreadsheet link.
	ErrInvalidSheetURL = errors.New("sheets: url is not a spreadsheet link")
	// ErrUnavailable marks exports the endpoint refused to serve, typically
	// deleted sheets or permission walls.
	ErrUnavailable = errors.New("sheets: export not available")
)

var (
	sheetKeyPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	gidPattern      = regexp.MustCompile(`[#?&]gid=([0-9]+)`)
)

// Config describes the sheet export client configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Attempts is the total tries per export before giving up.
	Attempts uint
	// PolitenessDelay is the minimum spacing between requests. Fetches are
	// serialized so a batch run never hammers the export endpoint.
	PolitenessDelay time.Duration
	// BaseURL overrides the export host, used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client downloads CSV exports for spreadsheet URLs.
type Client struct {
	userAgent string
	attempts  uint
	delay     time.Duration
	baseURL   string
	http      *http.Client

	mu        sync.Mutex
	lastFetch time.Time
}

// New creates a Client from the supplied configuration.
func New(cfg Config) *Client {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://docs.google.com"
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		userAgent: userAgent,
		attempts:  attempts,
		delay:     cfg.PolitenessDelay,
		baseURL:   base,
		http:      client,
	}
}

// FromConfig creates a Client using application config defaults.
func FromConfig(cfg *config.Config) *Client {
	return New(Config{
		UserAgent:       cfg.Fetch.UserAgent,
		Timeout:         time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Attempts:        uint(cfg.Fetch.RetryAttempts),
		PolitenessDelay: time.Duration(cfg.Fetch.PolitenessDelaySeconds) * time.Second,
	})
}

// SheetKey extracts the document key and tab gid from a spreadsheet URL.
// The gid defaults to "0" when the URL does not carry one.
func SheetKey(rawURL string) (key, gid string, err error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty url", ErrInvalidSheetURL)
	}
	match := sheetKeyPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSheetURL, trimmed)
	}
	gid = "0"
	if m := gidPattern.FindStringSubmatch(trimmed); m != nil {
		gid = m[1]
	}
	return match[1], gid, nil
}

// ExportURL converts a spreadsheet URL into its CSV export endpoint.
func (c *Client) ExportURL(rawURL string) (string, error) {
	key, gid, err := SheetKey(rawURL)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("format", "csv")
	params.Set("gid", gid)
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s", c.baseURL, key, params.Encode()), nil
}

// FetchGrid downloads the CSV export behind rawURL and parses it into a
// grid. Requests retry on transient failures; a 4xx response fails fast with
// ErrUnavailable. Concurrent callers are serialized through the politeness
// delay.
func (c *Client) FetchGrid(ctx context.Context, rawURL string) (grid.Grid, error) {
	exportURL, err := c.ExportURL(rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.waitPoliteness(ctx); err != nil {
		return nil, err
	}

	var body []byte
	err = retry.Do(
		func() error {
			data, fetchErr := c.fetchOnce(ctx, exportURL)
			if fetchErr != nil {
				return fetchErr
			}
			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	c.lastFetch = time.Now()
	if err != nil {
		return nil, err
	}

	g, err := grid.FromCSV(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("sheets: parse export: %w", err)
	}
	return g, nil
}

func (c *Client) waitPoliteness(ctx context.Context) error {
	if c.delay <= 0 || c.lastFetch.IsZero() {
		return nil
	}
	remaining := c.delay - time.Since(c.lastFetch)
	if remaining <= 0 {
		return nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) fetchOnce(ctx context.Context, exportURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("sheets: build request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("sheets: export failed (%s)", resp.Status)
	case resp.StatusCode >= 400:
		return nil, retry.Unrecoverable(fmt.Errorf("%w (%s)", ErrUnavailable, resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes))
	if err != nil {
		return nil, fmt.Errorf("sheets: read export: %w", err)
	}
	return data, nil
}
