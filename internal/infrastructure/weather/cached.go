package weather

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

// Cache stores snapshots per city.
type Cache interface {
	Get(ctx context.Context, city string) (*domain.WeatherSnapshot, bool, error)
	Set(ctx context.Context, city string, snap *domain.WeatherSnapshot) error
}

// CachedProvider serves snapshots from Cache and falls through to the
// upstream provider on a miss. Cache errors are logged and treated as misses.
type CachedProvider struct {
	upstream ports.WeatherProvider
	cache    Cache
	log      zerolog.Logger
}

var _ ports.WeatherProvider = (*CachedProvider)(nil)

func NewCachedProvider(upstream ports.WeatherProvider, cache Cache, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{upstream: upstream, cache: cache, log: log}
}

func (p *CachedProvider) Current(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	snap, ok, err := p.cache.Get(ctx, city)
	if err != nil {
		p.log.Warn().Err(err).Str("city", city).Msg("weather cache read failed")
	}
	if ok {
		metrics.WeatherCacheTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	metrics.WeatherCacheTotal.WithLabelValues("miss").Inc()

	snap, err = p.upstream.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, city, snap); err != nil {
		p.log.Warn().Err(err).Str("city", city).Msg("weather cache write failed")
	}
	return snap, nil
}
