// exposes a Store interface backing the scheduler's zone, cache and action log ports
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

type Store interface {
	// zone config functions
	ListEnabledZones(ctx context.Context) ([]model.ZoneConfig, error)
	GetEnabledZone(ctx context.Context, id int) (*model.ZoneConfig, error)
	GetZone(ctx context.Context, id int) (*model.ZoneConfig, error)

	// prayer times cache functions
	GetTimings(ctx context.Context, zoneConfigID int, date string) (*model.PrayerTiming, error)
	PutTimings(ctx context.Context, zoneConfigID int, date string, timing model.PrayerTiming) error

	// action log functions
	AppendAction(ctx context.Context, rec model.ActionRecord) error
	ListActions(ctx context.Context, limit int) ([]model.ActionLogEntry, error)

	Ping(ctx context.Context) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time checks that pgStore implements Store and the scheduler ports
var (
	_ Store                    = (*pgStore)(nil)
	_ scheduler.ZoneRepository = (*pgStore)(nil)
	_ scheduler.TimingCache    = (*pgStore)(nil)
	_ scheduler.ActionLog      = (*pgStore)(nil)
)

// NewStore wraps conn, falling back to the package-level DB opened by Init.
func NewStore(conn *sqlx.DB) Store {
	if conn == nil {
		conn = DB
	}
	return &pgStore{db: conn}
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
