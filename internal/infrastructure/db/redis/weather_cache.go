package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ms19/journal-system/internal/core/domain"
)

// WeatherCache stores weather snapshots per city.
// Key format: weather:<lowercased city>
type WeatherCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewWeatherCache(client redis.UniversalClient, ttl time.Duration) *WeatherCache {
	return &WeatherCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or ok=false on a miss.
func (c *WeatherCache) Get(ctx context.Context, city string) (*domain.WeatherSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(city)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("weather cache get: %w", err)
	}

	var snap domain.WeatherSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("weather cache decode: %w", err)
	}
	return &snap, true, nil
}

func (c *WeatherCache) Set(ctx context.Context, city string, snap *domain.WeatherSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("weather cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(city), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("weather cache set: %w", err)
	}
	return nil
}

func (c *WeatherCache) key(city string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(city))
}
