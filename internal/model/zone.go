package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by repositories when a row is absent (or disabled, for
// the enabled-only lookups).
var ErrNotFound = errors.New("not found")

const (
	ModeYearRound   = "year-round"
	ModeRamadanOnly = "ramadan-only"
)

// Durations maps a prayer name to its pause length in minutes. Stored as JSONB.
type Durations map[string]int

func (d Durations) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *Durations) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Durations{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("durations: unsupported type %T", src)
	}
	out := Durations{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("durations: %w", err)
	}
	*d = out
	return nil
}

// ZoneConfig is the scheduling policy of one sound zone. The engine treats a loaded
// value as an immutable snapshot for a single scheduling pass.
type ZoneConfig struct {
	ID                 int       `db:"id"                   json:"id"`
	AccountID          string    `db:"account_id"           json:"account_id"`
	AccountName        string    `db:"account_name"         json:"account_name"`
	ZoneID             string    `db:"zone_id"              json:"zone_id"`
	ZoneName           string    `db:"zone_name"            json:"zone_name"`
	City               string    `db:"city"                 json:"city"`
	Country            string    `db:"country"              json:"country"`
	Timezone           string    `db:"timezone"             json:"timezone"`
	Method             int       `db:"method"               json:"method"`
	AsrSchool          int       `db:"asr_school"           json:"asr_school"`
	Prayers            string    `db:"prayers"              json:"prayers"`
	PauseOffsetMinutes int       `db:"pause_offset_minutes" json:"pause_offset_minutes"`
	PauseDurations     Durations `db:"pause_durations"      json:"pause_durations"`
	Mode               string    `db:"mode"                 json:"mode"`
	Enabled            bool      `db:"enabled"              json:"enabled"`
	AdhanEnabled       bool      `db:"adhan_enabled"        json:"adhan_enabled"`
	AdhanSourceID      *string   `db:"adhan_source_id"      json:"adhan_source_id"`
	AdhanLeadMinutes   int       `db:"adhan_lead_minutes"   json:"adhan_lead_minutes"`
	DefaultSourceID    *string   `db:"default_source_id"    json:"default_source_id"`
	CreatedAt          time.Time `db:"created_at"           json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"           json:"updated_at"`
}

// EnabledPrayers parses the comma separated prayer list. Unknown names and
// duplicates are dropped; configured order is kept.
func (z ZoneConfig) EnabledPrayers() []Prayer {
	var out []Prayer
	seen := map[Prayer]bool{}
	for _, name := range strings.Split(z.Prayers, ",") {
		p, ok := ParsePrayer(strings.TrimSpace(name))
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// DurationFor returns how long music stays paused after p. A stored value of
// zero or less counts as unset and the prayer's default applies, so a pause
// cannot be configured away through pause_durations.
func (z ZoneConfig) DurationFor(p Prayer) time.Duration {
	if m, ok := z.PauseDurations[string(p)]; ok && m > 0 {
		return time.Duration(m) * time.Minute
	}
	return time.Duration(DefaultDurations[p]) * time.Minute
}

// UsesAdhanFlow reports whether the zone plays an adhan source before pausing.
// Both source ids must be set; otherwise the standard pause/resume flow applies.
func (z ZoneConfig) UsesAdhanFlow() bool {
	return z.AdhanEnabled && deref(z.AdhanSourceID) != "" && deref(z.DefaultSourceID) != ""
}

func (z ZoneConfig) AdhanSource() string   { return deref(z.AdhanSourceID) }
func (z ZoneConfig) DefaultSource() string { return deref(z.DefaultSourceID) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
