package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// TimingSource names the fallback tier that produced a zone's timings.
type TimingSource string

const (
	SourceLive           TimingSource = "live"
	SourceCacheToday     TimingSource = "cache-today"
	SourceCacheYesterday TimingSource = "cache-yesterday"
)

// CachePolicy picks between a live fetch and cached timings:
// live -> today's cache -> yesterday's cache -> ErrNoTimingsAvailable.
type CachePolicy struct {
	provider TimeProvider
	cache    TimingCache
	log      zerolog.Logger
}

func NewCachePolicy(provider TimeProvider, cache TimingCache, log zerolog.Logger) *CachePolicy {
	return &CachePolicy{provider: provider, cache: cache, log: log}
}

// Timings returns the timings for zone on localToday, a time already in the
// zone's location.
func (p *CachePolicy) Timings(ctx context.Context, zone model.ZoneConfig, localToday time.Time) (model.PrayerTiming, TimingSource, error) {
	today := localToday.Format(DateLayout)
	logger := p.log.With().Int("zone_config_id", zone.ID).Str("zone", zone.ZoneName).Str("date", today).Logger()

	fetched, fetchErr := p.provider.FetchTimings(ctx, TimingsQuery{
		City:    zone.City,
		Country: zone.Country,
		Method:  zone.Method,
		School:  zone.AsrSchool,
		Date:    localToday,
	})
	if fetchErr == nil {
		if err := p.cache.PutTimings(ctx, zone.ID, today, fetched); err != nil {
			logger.Warn().Err(err).Msg("failed to cache prayer times")
		}
		return fetched, SourceLive, nil
	}
	logger.Error().Err(fetchErr).Msg("failed to fetch prayer times")

	if cached := p.lookup(ctx, logger, zone.ID, today); cached != nil {
		logger.Warn().Msg("using today's cached prayer times")
		return *cached, SourceCacheToday, nil
	}

	yesterday := localToday.AddDate(0, 0, -1).Format(DateLayout)
	if cached := p.lookup(ctx, logger, zone.ID, yesterday); cached != nil {
		logger.Warn().Str("cached_date", yesterday).Msg("using yesterday's cached prayer times, data is stale")
		return *cached, SourceCacheYesterday, nil
	}

	logger.Error().Msg("no cached prayer times available, skipping zone")
	return model.PrayerTiming{}, "", fmt.Errorf("%w for zone %d on %s: %v", ErrNoTimingsAvailable, zone.ID, today, fetchErr)
}

func (p *CachePolicy) lookup(ctx context.Context, logger zerolog.Logger, id int, date string) *model.PrayerTiming {
	cached, err := p.cache.GetTimings(ctx, id, date)
	if err != nil {
		logger.Warn().Err(err).Str("cached_date", date).Msg("prayer time cache read failed")
		return nil
	}
	return cached
}
