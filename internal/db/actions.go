package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

const (
	DefaultActionLimit = 50
	MaxActionLimit     = 200
)

// ClampActionLimit maps a requested page size onto 1..MaxActionLimit.
func ClampActionLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActionLimit
	case limit > MaxActionLimit:
		return MaxActionLimit
	}
	return limit
}

func (s *pgStore) AppendAction(ctx context.Context, rec model.ActionRecord) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO action_log (zone_config_id, zone_id, action, prayer, scheduled_at, success, error_message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()));`,
		rec.ZoneConfigID, rec.ZoneID, rec.Action, rec.Prayer, rec.ScheduledAt,
		rec.Success, rec.ErrorMessage, nullTime(rec.CreatedAt))
	if err != nil {
		log.Error().Err(err).Int("zone_config_id", rec.ZoneConfigID).Str("action", string(rec.Action)).Msg("AppendAction failed")
	}
	return err
}

// ListActions returns the newest entries first.
func (s *pgStore) ListActions(ctx context.Context, limit int) ([]model.ActionLogEntry, error) {
	out := []model.ActionLogEntry{}
	const q = `
	SELECT a.id, a.zone_config_id, a.zone_id, a.action, a.prayer, a.scheduled_at,
	       a.success, a.error_message, a.created_at,
	       COALESCE(z.zone_name, '') AS zone_name,
	       COALESCE(z.account_name, '') AS account_name
	  FROM action_log a
	  LEFT JOIN zone_configs z ON z.id = a.zone_config_id
	 ORDER BY a.created_at DESC, a.id DESC
	 LIMIT $1;`
	if err := s.db.SelectContext(ctx, &out, q, ClampActionLimit(limit)); err != nil {
		log.Error().Err(err).Msg("ListActions failed")
		return nil, err
	}
	return out, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
