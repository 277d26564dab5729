package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
)

const sampleCurrent = `{
  "request": {"type": "City", "query": "Lagos, Nigeria"},
  "location": {"name": "Lagos", "country": "Nigeria"},
  "current": {
    "observation_time": "12:00 PM",
    "temperature": 31,
    "feelslike": 36,
    "humidity": 70,
    "wind_speed": 13,
    "weather_descriptions": ["Partly cloudy"]
  }
}`

func TestParseCurrent(t *testing.T) {
	fetched := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	snap, err := parseCurrent([]byte(sampleCurrent), fetched)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if snap.City != "Lagos" || snap.Country != "Nigeria" {
		t.Fatalf("location: %+v", snap)
	}
	if snap.TemperatureC != 31 || snap.FeelsLikeC != 36 || snap.Humidity != 70 {
		t.Fatalf("conditions: %+v", snap)
	}
	if len(snap.Descriptions) != 1 || snap.Descriptions[0] != "Partly cloudy" {
		t.Fatalf("descriptions: %v", snap.Descriptions)
	}
	if !snap.FetchedAt.Equal(fetched) {
		t.Fatalf("fetched_at: %v", snap.FetchedAt)
	}
}

func TestParseCurrent_ProviderError(t *testing.T) {
	body := `{"success": false, "error": {"code": 101, "info": "invalid access key"}}`
	_, err := parseCurrent([]byte(body), time.Now())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestParseCurrent_NotJSON(t *testing.T) {
	if _, err := parseCurrent([]byte("<html>"), time.Now()); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_key") != "k" || r.URL.Query().Get("query") != "Lagos" {
			t.Errorf("query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(sampleCurrent))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL, "k").Current(context.Background(), "Lagos")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if snap.City != "Lagos" {
		t.Fatalf("city: %q", snap.City)
	}
}

func TestClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Current(context.Background(), "Lagos")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", "").Current(context.Background(), "Lagos")
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

type mapCache struct {
	data map[string]*domain.WeatherSnapshot
}

func (c *mapCache) Get(_ context.Context, city string) (*domain.WeatherSnapshot, bool, error) {
	s, ok := c.data[city]
	return s, ok, nil
}

func (c *mapCache) Set(_ context.Context, city string, s *domain.WeatherSnapshot) error {
	c.data[city] = s
	return nil
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Current(_ context.Context, city string) (*domain.WeatherSnapshot, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &domain.WeatherSnapshot{City: city}, nil
}

func TestCachedProvider_HitsCacheOnSecondCall(t *testing.T) {
	upstream := &countingProvider{}
	p := NewCachedProvider(upstream, &mapCache{data: map[string]*domain.WeatherSnapshot{}}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := p.Current(context.Background(), "Oslo"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if upstream.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", upstream.calls)
	}
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	upstream := &countingProvider{err: domain.ErrUpstream}
	cache := &mapCache{data: map[string]*domain.WeatherSnapshot{}}
	p := NewCachedProvider(upstream, cache, zerolog.Nop())

	if _, err := p.Current(context.Background(), "Oslo"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if len(cache.data) != 0 {
		t.Fatal("error result was cached")
	}
}
