package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// GetTimings returns the cached timings of one zone and date, or nil on a miss.
func (s *pgStore) GetTimings(ctx context.Context, zoneConfigID int, date string) (*model.PrayerTiming, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `
	SELECT timings
	  FROM prayer_times_cache
	 WHERE zone_config_id = $1 AND date = $2;`, zoneConfigID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Int("zone_config_id", zoneConfigID).Str("date", date).Msg("GetTimings failed")
		return nil, err
	}
	var t model.PrayerTiming
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode cached timings for zone %d on %s: %w", zoneConfigID, date, err)
	}
	return &t, nil
}

// PutTimings upserts the timings of one zone and date.
func (s *pgStore) PutTimings(ctx context.Context, zoneConfigID int, date string, timing model.PrayerTiming) error {
	raw, err := json.Marshal(timing)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO prayer_times_cache (zone_config_id, date, timings, fetched_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (zone_config_id, date)
	DO UPDATE SET timings = EXCLUDED.timings, fetched_at = now();`, zoneConfigID, date, raw)
	if err != nil {
		log.Error().Err(err).Int("zone_config_id", zoneConfigID).Str("date", date).Msg("PutTimings failed")
	}
	return err
}
