package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"workorder-api/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// ErrNoResult is returned when the geocoder answered but found nothing.
var ErrNoResult = errors.New("geocoder: no result")

// Client resolves free-text addresses with a Nominatim-compatible search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
}

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RateLimit is the maximum number of requests per second; zero disables throttling.
	RateLimit float64
}

// NewClient creates a geocoder client with a traced HTTP transport.
func NewClient(opts Options) *Client {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   opts.Timeout,
	}
	return NewClientWithHttpClient(opts, httpClient)
}

// NewClientWithHttpClient creates a geocoder client using the given *http.Client.
func NewClientWithHttpClient(opts Options, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return &Client{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		limiter:    limiter,
		httpClient: httpClient,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first match for query. The whole call, including waiting for the
// rate limiter, is bounded by the configured timeout.
func (c *Client) Geocode(ctx context.Context, query string) (models.Point, error) {
	if query == "" {
		return models.Point{}, ErrNoResult
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.Point{}, fmt.Errorf("geocoder: rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocoder: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Point{}, fmt.Errorf("geocoder: received non-OK status code %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Point{}, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return models.Point{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocoder: invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocoder: invalid longitude %q: %w", results[0].Lon, err)
	}

	return models.Point{Lat: lat, Lon: lon}, nil
}
