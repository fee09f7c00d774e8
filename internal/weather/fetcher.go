package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultURL is the GeoMet citypageweather collection, with one %s for the
// region code.
const DefaultURL = "https://api.weather.gc.ca/collections/citypageweather-realtime/items/%s?f=json"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

var (
	// ErrFetchInProgress is returned when another fetch on the same Fetcher
	// has not finished. No request is made.
	ErrFetchInProgress = errors.New("weather fetch already in progress")

	// ErrEmptyRegion is returned for a blank region code.
	ErrEmptyRegion = errors.New("region code is required")

	// ErrNoProperties is returned when the body lacks a properties object.
	ErrNoProperties = errors.New("weather response has no properties")

	errUnexpectedStatus = errors.New("unexpected status code")
)

// Snapshot is the opaque properties object of a citypageweather item.
type Snapshot map[string]any

// State is a point-in-time copy of the fetcher's bookkeeping.
type State struct {
	// Fetching is true only while a request is in flight.
	Fetching bool
	// Loading stays true until the first fetch attempt completes.
	Loading bool
	// LastError holds the message of the most recent failed attempt.
	LastError string
	// Snapshot is the result of the most recent attempt, nil when it failed.
	Snapshot Snapshot
}

// Fetcher retrieves current conditions for a region. A Fetcher is safe for
// concurrent use; overlapping calls are rejected rather than queued.
type Fetcher struct {
	client      *http.Client
	urlTemplate string
	userAgent   string

	fetching atomic.Bool

	mu        sync.Mutex
	loading   bool
	lastError string
	snapshot  Snapshot
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per-request timeout on the fetcher's client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			c := *f.client
			c.Timeout = d
			f.client = &c
		}
	}
}

// WithURLTemplate overrides the endpoint. The template must contain one %s.
func WithURLTemplate(tmpl string) Option {
	return func(f *Fetcher) {
		if strings.TrimSpace(tmpl) != "" {
			f.urlTemplate = tmpl
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher returns a Fetcher with a 10 second timeout against DefaultURL.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		urlTemplate: DefaultURL,
		loading:     true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues one GET for regionCode and returns its properties object.
// Failures are recorded in State as well as returned.
func (f *Fetcher) Fetch(ctx context.Context, regionCode string) (Snapshot, error) {
	if !f.fetching.CompareAndSwap(false, true) {
		return nil, ErrFetchInProgress
	}
	defer f.fetching.Store(false)

	snap, err := f.get(ctx, regionCode)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.snapshot = snap
	if err != nil {
		f.lastError = err.Error()
		return nil, err
	}
	return snap, nil
}

// State returns a copy of the current bookkeeping.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Fetching:  f.fetching.Load(),
		Loading:   f.loading,
		LastError: f.lastError,
		Snapshot:  f.snapshot,
	}
}

// URL returns the request URL for regionCode.
func (f *Fetcher) URL(regionCode string) string {
	return fmt.Sprintf(f.urlTemplate, url.PathEscape(regionCode))
}

func (f *Fetcher) get(ctx context.Context, regionCode string) (Snapshot, error) {
	if strings.TrimSpace(regionCode) == "" {
		return nil, ErrEmptyRegion
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(regionCode), nil)
	if err != nil {
		return nil, fmt.Errorf("create weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	var body struct {
		Properties Snapshot `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if body.Properties == nil {
		return nil, ErrNoProperties
	}
	return body.Properties, nil
}
