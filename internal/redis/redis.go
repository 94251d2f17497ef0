package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

var Rdb *redis.Client

// TimingsTTL keeps a day's entry long enough to serve as yesterday's fallback.
const TimingsTTL = 72 * time.Hour

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func TimingsKey(zoneConfigID int, date string) string {
	return fmt.Sprintf("prayertimes:timings:%d:%s", zoneConfigID, date)
}

// TimingCache stores daily prayer timings as JSON strings with a TTL.
type TimingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTimingCache uses client, or the package-level Rdb when client is nil.
func NewTimingCache(client *redis.Client) *TimingCache {
	if client == nil {
		client = Rdb
	}
	return &TimingCache{client: client, ttl: TimingsTTL}
}

func (c *TimingCache) GetTimings(ctx context.Context, zoneConfigID int, date string) (*model.PrayerTiming, error) {
	raw, err := c.client.Get(ctx, TimingsKey(zoneConfigID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t model.PrayerTiming
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode cached timings %s: %w", TimingsKey(zoneConfigID, date), err)
	}
	return &t, nil
}

func (c *TimingCache) PutTimings(ctx context.Context, zoneConfigID int, date string, timing model.PrayerTiming) error {
	raw, err := json.Marshal(timing)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, TimingsKey(zoneConfigID, date), raw, c.ttl).Err(); err != nil {
		log.Error().Err(err).Int("zone_config_id", zoneConfigID).Str("date", date).Msg("failed to cache prayer times in redis")
		return err
	}
	return nil
}

func (c *TimingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
