package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

const zoneColumns = `
	id, account_id, account_name, zone_id, zone_name, city, country, timezone,
	method, asr_school, prayers, pause_offset_minutes, pause_durations, mode,
	enabled, adhan_enabled, adhan_source_id, adhan_lead_minutes, default_source_id,
	created_at, updated_at`

func (s *pgStore) ListEnabledZones(ctx context.Context) ([]model.ZoneConfig, error) {
	var out []model.ZoneConfig
	q := `SELECT` + zoneColumns + `
	  FROM zone_configs
	 WHERE enabled = true
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("ListEnabledZones failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetEnabledZone(ctx context.Context, id int) (*model.ZoneConfig, error) {
	var z model.ZoneConfig
	q := `SELECT` + zoneColumns + `
	  FROM zone_configs
	 WHERE id = $1 AND enabled = true;`
	if err := s.db.GetContext(ctx, &z, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		log.Error().Err(err).Int("zone_config_id", id).Msg("GetEnabledZone failed")
		return nil, err
	}
	return &z, nil
}

// GetZone loads a zone regardless of its enabled flag.
func (s *pgStore) GetZone(ctx context.Context, id int) (*model.ZoneConfig, error) {
	var z model.ZoneConfig
	q := `SELECT` + zoneColumns + `
	  FROM zone_configs
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &z, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		log.Error().Err(err).Int("zone_config_id", id).Msg("GetZone failed")
		return nil, err
	}
	return &z, nil
}
