// Package weather fetches current conditions from weatherstack.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.weatherstack.com"
	maxBodyBytes   = 1 << 20
)

// Client calls the weatherstack current-conditions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

var _ ports.WeatherProvider = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) Current(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather api key", domain.ErrNotConfigured)
	}

	start := time.Now()
	snap, err := c.fetch(ctx, city)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues("weatherstack", outcome).Observe(time.Since(start).Seconds())
	return snap, err
}

func (c *Client) fetch(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("query", city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: weather request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read weather response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: weather status %d", domain.ErrUpstream, resp.StatusCode)
	}
	return parseCurrent(body, c.now())
}

// parseCurrent reads a weatherstack /current body. weatherstack reports
// failures with HTTP 200 and success=false.
func parseCurrent(body []byte, fetchedAt time.Time) (*domain.WeatherSnapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: weather response is not json", domain.ErrUpstream)
	}

	doc := gjson.ParseBytes(body)
	if s := doc.Get("success"); s.Exists() && !s.Bool() {
		return nil, fmt.Errorf("%w: weatherstack error %d: %s",
			domain.ErrUpstream, doc.Get("error.code").Int(), doc.Get("error.info").String())
	}

	current := doc.Get("current")
	if !current.Exists() {
		return nil, fmt.Errorf("%w: weather response has no current conditions", domain.ErrUpstream)
	}

	descriptions := []string{}
	for _, d := range current.Get("weather_descriptions").Array() {
		descriptions = append(descriptions, d.String())
	}

	return &domain.WeatherSnapshot{
		City:         doc.Get("location.name").String(),
		Country:      doc.Get("location.country").String(),
		TemperatureC: current.Get("temperature").Float(),
		FeelsLikeC:   current.Get("feelslike").Float(),
		Humidity:     int(current.Get("humidity").Int()),
		WindSpeedKmh: current.Get("wind_speed").Float(),
		Descriptions: descriptions,
		ObservedAt:   current.Get("observation_time").String(),
		FetchedAt:    fetchedAt.UTC(),
	}, nil
}
