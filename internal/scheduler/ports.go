package scheduler

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// ZoneRepository loads zone configuration snapshots.
type ZoneRepository interface {
	ListEnabledZones(ctx context.Context) ([]model.ZoneConfig, error)
	// GetEnabledZone returns model.ErrNotFound when the zone is absent or disabled.
	GetEnabledZone(ctx context.Context, id int) (*model.ZoneConfig, error)
}

// TimingsQuery selects a provider lookup. Date is read in its own location, so
// callers pass a time already converted to the zone. A zero Date means today.
type TimingsQuery struct {
	City    string
	Country string
	Method  int
	School  int
	Date    time.Time
}

// TimeProvider fetches prayer timings from the third-party source. Implementations
// retry internally and enforce their own request timeout.
type TimeProvider interface {
	FetchTimings(ctx context.Context, q TimingsQuery) (model.PrayerTiming, error)
	FetchMonth(ctx context.Context, q TimingsQuery, year int, month time.Month) ([]model.DayTiming, error)
}

// TimingCache stores fetched timings keyed by zone config id and local date
// (YYYY-MM-DD). Get returns nil, nil on a miss.
type TimingCache interface {
	GetTimings(ctx context.Context, zoneConfigID int, date string) (*model.PrayerTiming, error)
	PutTimings(ctx context.Context, zoneConfigID int, date string, timing model.PrayerTiming) error
}

// ActionLog is the append-only outcome store.
type ActionLog interface {
	AppendAction(ctx context.Context, rec model.ActionRecord) error
}

// PlaybackControl issues one command against the playback service.
type PlaybackControl interface {
	Execute(ctx context.Context, cmd model.PlaybackCommand) error
}

// Trigger invokes fn on its own schedule until stopped.
type Trigger interface {
	Start(fn func()) error
	Stop()
}
