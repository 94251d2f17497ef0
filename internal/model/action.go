package model

import "time"

// ActionKind tags an ActionRecord.
type ActionKind string

const (
	ActionPause      ActionKind = "pause"
	ActionResume     ActionKind = "resume"
	ActionAdhan      ActionKind = "adhan"
	ActionRestore    ActionKind = "restore"
	ActionTestPause  ActionKind = "test-pause"
	ActionTestResume ActionKind = "test-resume"
)

// TestPrayer is the prayer name recorded for dry-run actions.
const TestPrayer = "test"

// ActionRecord is an append-only log entry for one executed action.
type ActionRecord struct {
	ID           int64      `db:"id"             json:"id"`
	ZoneConfigID int        `db:"zone_config_id" json:"zone_config_id"`
	ZoneID       string     `db:"zone_id"        json:"zone_id"`
	Action       ActionKind `db:"action"         json:"action"`
	Prayer       string     `db:"prayer"         json:"prayer"`
	ScheduledAt  time.Time  `db:"scheduled_at"   json:"scheduled_at"`
	Success      bool       `db:"success"        json:"success"`
	ErrorMessage *string    `db:"error_message"  json:"error_message"`
	CreatedAt    time.Time  `db:"created_at"     json:"created_at"`
}

// ActionLogEntry is an ActionRecord joined with its zone's display names.
type ActionLogEntry struct {
	ActionRecord
	ZoneName    string `db:"zone_name"    json:"zone_name"`
	AccountName string `db:"account_name" json:"account_name"`
}

// CommandKind is a playback control operation.
type CommandKind string

const (
	CommandPause        CommandKind = "pause"
	CommandPlay         CommandKind = "play"
	CommandAssignSource CommandKind = "assign-source"
)

// PlaybackCommand is one call against the playback control service.
type PlaybackCommand struct {
	Kind     CommandKind
	ZoneID   string
	SourceID string // assign-source only
}
