package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

type fakeZones struct {
	mu    sync.Mutex
	zones map[int]model.ZoneConfig
	err   error
}

func newFakeZones(zs ...model.ZoneConfig) *fakeZones {
	f := &fakeZones{zones: map[int]model.ZoneConfig{}}
	for _, z := range zs {
		f.zones[z.ID] = z
	}
	return f
}

func (f *fakeZones) put(z model.ZoneConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zones[z.ID] = z
}

func (f *fakeZones) ListEnabledZones(ctx context.Context) ([]model.ZoneConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ZoneConfig
	for id := 1; id <= 100; id++ {
		if z, ok := f.zones[id]; ok && z.Enabled {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeZones) GetEnabledZone(ctx context.Context, id int) (*model.ZoneConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	z, ok := f.zones[id]
	if !ok || !z.Enabled {
		return nil, model.ErrNotFound
	}
	return &z, nil
}

type fakeProvider struct {
	mu      sync.Mutex
	timings map[string]model.PrayerTiming // keyed by city
	fail    map[string]error
	month   []model.DayTiming
	queries []TimingsQuery
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{timings: map[string]model.PrayerTiming{}, fail: map[string]error{}}
}

func (f *fakeProvider) FetchTimings(ctx context.Context, q TimingsQuery) (model.PrayerTiming, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if err, ok := f.fail[q.City]; ok {
		return model.PrayerTiming{}, err
	}
	t, ok := f.timings[q.City]
	if !ok {
		return model.PrayerTiming{}, fmt.Errorf("no timings for %s", q.City)
	}
	return t, nil
}

func (f *fakeProvider) FetchMonth(ctx context.Context, q TimingsQuery, year int, month time.Month) ([]model.DayTiming, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[q.City]; ok {
		return nil, err
	}
	return f.month, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]model.PrayerTiming
	putErr  error
	getErr  error
}

func newMemCache() *memCache { return &memCache{entries: map[string]model.PrayerTiming{}} }

func cacheKey(id int, date string) string { return fmt.Sprintf("%d/%s", id, date) }

func (c *memCache) GetTimings(ctx context.Context, id int, date string) (*model.PrayerTiming, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	t, ok := c.entries[cacheKey(id, date)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (c *memCache) PutTimings(ctx context.Context, id int, date string, t model.PrayerTiming) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[cacheKey(id, date)] = t
	return nil
}

type memActions struct {
	mu      sync.Mutex
	records []model.ActionRecord
	err     error
}

func (m *memActions) AppendAction(ctx context.Context, rec model.ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memActions) all() []model.ActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ActionRecord(nil), m.records...)
}

var errControl = errors.New("soundtrack unavailable")

type fakeControl struct {
	mu       sync.Mutex
	calls    []model.PlaybackCommand
	failZone map[string]bool
	failKind map[model.CommandKind]bool
	failN    int // fail the first N calls
}

func newFakeControl() *fakeControl {
	return &fakeControl{failZone: map[string]bool{}, failKind: map[model.CommandKind]bool{}}
}

func (f *fakeControl) Execute(ctx context.Context, cmd model.PlaybackCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if f.failN > 0 {
		f.failN--
		return errControl
	}
	if f.failZone[cmd.ZoneID] || f.failKind[cmd.Kind] {
		return errControl
	}
	return nil
}

func (f *fakeControl) commands() []model.PlaybackCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PlaybackCommand(nil), f.calls...)
}

type fakeTrigger struct {
	fn      func()
	stopped bool
}

func (t *fakeTrigger) Start(fn func()) error { t.fn = fn; return nil }
func (t *fakeTrigger) Stop()                 { t.stopped = true }

func strPtr(s string) *string { return &s }

func testZone(id int) model.ZoneConfig {
	return model.ZoneConfig{
		ID:                 id,
		ZoneID:             fmt.Sprintf("zone-%d", id),
		ZoneName:           fmt.Sprintf("Zone %d", id),
		City:               fmt.Sprintf("city-%d", id),
		Country:            "UAE",
		Timezone:           "Asia/Dubai",
		Method:             4,
		Prayers:            "Fajr,Dhuhr,Asr,Maghrib,Isha",
		PauseOffsetMinutes: 5,
		PauseDurations:     model.Durations{},
		Mode:               model.ModeYearRound,
		Enabled:            true,
	}
}
