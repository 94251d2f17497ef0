package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

func newPolicy(t *testing.T) (*CachePolicy, *fakeProvider, *memCache, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	provider := newFakeProvider()
	cache := newMemCache()
	return NewCachePolicy(provider, cache, zerolog.New(&buf)), provider, cache, &buf
}

func TestCachePolicyLiveFetchUpsertsToday(t *testing.T) {
	policy, provider, cache, _ := newPolicy(t)
	zone := testZone(1)
	provider.timings[zone.City] = dubaiTimings()
	cache.entries[cacheKey(1, "2026-03-10")] = model.PrayerTiming{Dhuhr: "11:11"}
	today := march10.In(mustLoad(t, "Asia/Dubai"))

	got, source, err := policy.Timings(context.Background(), zone, today)
	require.NoError(t, err)
	assert.Equal(t, SourceLive, source)
	assert.Equal(t, "12:30", got.Dhuhr)
	assert.Equal(t, "12:30", cache.entries[cacheKey(1, "2026-03-10")].Dhuhr, "latest fetch wins")

	require.Len(t, provider.queries, 1)
	q := provider.queries[0]
	assert.Equal(t, zone.City, q.City)
	assert.Equal(t, 4, q.Method)
	assert.Equal(t, "2026-03-10", q.Date.Format(DateLayout))
}

func TestCachePolicyTodayCache(t *testing.T) {
	policy, provider, cache, buf := newPolicy(t)
	zone := testZone(1)
	provider.fail[zone.City] = errors.New("aladhan down")
	cache.entries[cacheKey(1, "2026-03-10")] = model.PrayerTiming{Dhuhr: "12:31"}
	cache.entries[cacheKey(1, "2026-03-09")] = model.PrayerTiming{Dhuhr: "12:29"}

	got, source, err := policy.Timings(context.Background(), zone, march10.In(mustLoad(t, "Asia/Dubai")))
	require.NoError(t, err)
	assert.Equal(t, SourceCacheToday, source)
	assert.Equal(t, "12:31", got.Dhuhr)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestCachePolicyYesterdayCache(t *testing.T) {
	policy, provider, cache, buf := newPolicy(t)
	zone := testZone(1)
	provider.fail[zone.City] = errors.New("aladhan down")
	cache.entries[cacheKey(1, "2026-03-09")] = model.PrayerTiming{Dhuhr: "12:29"}

	got, source, err := policy.Timings(context.Background(), zone, march10.In(mustLoad(t, "Asia/Dubai")))
	require.NoError(t, err)
	assert.Equal(t, SourceCacheYesterday, source)
	assert.Equal(t, "12:29", got.Dhuhr)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "stale")
}

func TestCachePolicyNothingAvailable(t *testing.T) {
	policy, provider, _, _ := newPolicy(t)
	zone := testZone(1)
	provider.fail[zone.City] = errors.New("aladhan down")

	_, _, err := policy.Timings(context.Background(), zone, march10.In(mustLoad(t, "Asia/Dubai")))
	assert.ErrorIs(t, err, ErrNoTimingsAvailable)
}

func TestCachePolicyReadErrorIsAMiss(t *testing.T) {
	policy, provider, cache, _ := newPolicy(t)
	zone := testZone(1)
	provider.fail[zone.City] = errors.New("aladhan down")
	cache.getErr = errors.New("connection refused")

	_, _, err := policy.Timings(context.Background(), zone, march10.In(mustLoad(t, "Asia/Dubai")))
	assert.ErrorIs(t, err, ErrNoTimingsAvailable)
}

func TestCachePolicyWriteFailureKeepsLiveTimings(t *testing.T) {
	policy, provider, cache, buf := newPolicy(t)
	zone := testZone(1)
	provider.timings[zone.City] = dubaiTimings()
	cache.putErr = errors.New("disk full")

	got, source, err := policy.Timings(context.Background(), zone, march10.In(mustLoad(t, "Asia/Dubai")))
	require.NoError(t, err)
	assert.Equal(t, SourceLive, source)
	assert.Equal(t, "19:40", got.Isha)
	assert.Contains(t, buf.String(), "failed to cache prayer times")
}
