package planetdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultStatsURL is the API Ninjas planets endpoint.
	DefaultStatsURL = "https://api.api-ninjas.com/v1/planets"

	// DefaultStatsTimeout for HTTP requests.
	DefaultStatsTimeout = 15 * time.Second
)

// Stats is one record from the planets API. Zero values mean the API had
// nothing for that field.
type Stats struct {
	Name          string  `json:"name"`
	Mass          float64 `json:"mass"`
	Radius        float64 `json:"radius"`
	Period        float64 `json:"period"`
	SemiMajorAxis float64 `json:"semi_major_axis"`
	Temperature   float64 `json:"temperature"`
}

// StatsSource looks up descriptive statistics for a planet by name.
// A nil result with a nil error means the source knows nothing about it.
type StatsSource interface {
	Fetch(ctx context.Context, name string) (*Stats, error)
}

// StatsFetcher queries the planets API over HTTP.
type StatsFetcher struct {
	client  *http.Client
	url     string
	apiKey  string
	timeout time.Duration
}

// StatsOption configures a StatsFetcher.
type StatsOption func(*StatsFetcher)

// WithURL sets a custom endpoint.
func WithURL(u string) StatsOption {
	return func(f *StatsFetcher) {
		f.url = u
	}
}

// WithAPIKey sets the X-Api-Key header value.
func WithAPIKey(key string) StatsOption {
	return func(f *StatsFetcher) {
		f.apiKey = key
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) StatsOption {
	return func(f *StatsFetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) StatsOption {
	return func(f *StatsFetcher) {
		f.client = client
	}
}

// NewStatsFetcher creates a planets API client.
func NewStatsFetcher(opts ...StatsOption) *StatsFetcher {
	f := &StatsFetcher{
		url:     DefaultStatsURL,
		timeout: DefaultStatsTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch returns the first record the API has for name.
func (f *StatsFetcher) Fetch(ctx context.Context, name string) (*Stats, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return nil, fmt.Errorf("parse stats URL: %w", err)
	}
	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch stats for %s: unexpected status code: %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var records []Stats
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parse stats for %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// URL returns the configured endpoint.
func (f *StatsFetcher) URL() string {
	return f.url
}

// Merge copies API statistics into the descriptor. Missing fields become
// N/A; temperature is labelled in degrees.
func Merge(p Planet, s *Stats) Planet {
	if s == nil {
		return p
	}
	p.Temperature = TextStat(NotAvailable)
	if s.Temperature != 0 {
		p.Temperature = TextStat(strconv.FormatFloat(s.Temperature, 'f', -1, 64) + "°C")
	}
	p.Mass = statOrNA(s.Mass)
	p.Radius = statOrNA(s.Radius)
	p.Period = statOrNA(s.Period)
	p.SemiMajorAxis = statOrNA(s.SemiMajorAxis)
	return p
}

func statOrNA(v float64) Stat {
	if v == 0 {
		return TextStat(NotAvailable)
	}
	return NumberStat(v)
}
