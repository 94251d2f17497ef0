package scheduler

import (
	"errors"
	"fmt"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// ErrNoTimingsAvailable means the live fetch failed and neither today's nor
// yesterday's cache had an entry. The zone is left without timers.
var ErrNoTimingsAvailable = errors.New("no prayer timings available")

// ActionError is returned by the executor once every attempt has failed.
type ActionError struct {
	Action   model.ActionKind
	ZoneID   string
	Attempts int
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s on zone %s failed after %d attempt(s): %v", e.Action, e.ZoneID, e.Attempts, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
