package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/clock"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

const (
	DefaultAttempts = 3
	DefaultBackoff  = 5 * time.Second
)

// ActionRequest is one playback action and the context it is logged under.
type ActionRequest struct {
	ZoneConfigID int
	ZoneID       string
	Action       model.ActionKind
	Prayer       string
	ScheduledAt  time.Time
	SourceID     string // adhan / restore
}

// Executor runs a single action against playback control with fixed-backoff
// retry and writes exactly one ActionRecord per call.
type Executor struct {
	control  PlaybackControl
	actions  ActionLog
	clock    clock.Clock
	log      zerolog.Logger
	attempts int
	wait     time.Duration
}

func NewExecutor(control PlaybackControl, actions ActionLog, c clock.Clock, log zerolog.Logger) *Executor {
	return &Executor{
		control:  control,
		actions:  actions,
		clock:    c,
		log:      log,
		attempts: DefaultAttempts,
		wait:     DefaultBackoff,
	}
}

// WithRetry overrides the attempt count and backoff.
func (e *Executor) WithRetry(attempts int, wait time.Duration) *Executor {
	if attempts > 0 {
		e.attempts = attempts
	}
	e.wait = wait
	return e
}

// retryPolicy allows attempts-1 retries spaced by the fixed wait. Waiting goes
// through the executor's clock so tests can run it on a fake.
func (e *Executor) retryPolicy() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(e.wait), uint64(e.attempts-1))
}

func commandFor(req ActionRequest) (model.PlaybackCommand, error) {
	cmd := model.PlaybackCommand{ZoneID: req.ZoneID}
	switch req.Action {
	case model.ActionPause, model.ActionTestPause:
		cmd.Kind = model.CommandPause
	case model.ActionResume, model.ActionTestResume:
		cmd.Kind = model.CommandPlay
	case model.ActionAdhan, model.ActionRestore:
		if req.SourceID == "" {
			return cmd, fmt.Errorf("%s requires a source id", req.Action)
		}
		cmd.Kind = model.CommandAssignSource
		cmd.SourceID = req.SourceID
	default:
		return cmd, fmt.Errorf("unknown action %q", req.Action)
	}
	return cmd, nil
}

// Execute returns nil on success or an *ActionError once attempts are exhausted.
func (e *Executor) Execute(ctx context.Context, req ActionRequest) error {
	logger := e.log.With().
		Int("zone_config_id", req.ZoneConfigID).
		Str("zone_id", req.ZoneID).
		Str("action", string(req.Action)).
		Str("prayer", req.Prayer).
		Logger()

	cmd, err := commandFor(req)
	attempts := 0
	if err == nil {
		policy := e.retryPolicy()
		for {
			attempts++
			if err = e.control.Execute(ctx, cmd); err == nil {
				break
			}
			logger.Warn().Err(err).Int("attempt", attempts).Msg("playback control call failed")
			wait := policy.NextBackOff()
			if wait == backoff.Stop {
				break
			}
			if serr := e.clock.Sleep(ctx, wait); serr != nil {
				err = fmt.Errorf("%w (retry aborted: %v)", err, serr)
				break
			}
		}
	}

	rec := model.ActionRecord{
		ZoneConfigID: req.ZoneConfigID,
		ZoneID:       req.ZoneID,
		Action:       req.Action,
		Prayer:       req.Prayer,
		ScheduledAt:  req.ScheduledAt,
		Success:      err == nil,
		CreatedAt:    e.clock.Now(),
	}
	if err != nil {
		msg := err.Error()
		rec.ErrorMessage = &msg
	}
	// the outcome is recorded even when the caller's context is already done
	if lerr := e.actions.AppendAction(context.WithoutCancel(ctx), rec); lerr != nil {
		logger.Error().Err(lerr).Msg("failed to write action log")
	}

	if err != nil {
		return &ActionError{Action: req.Action, ZoneID: req.ZoneID, Attempts: attempts, Err: err}
	}
	logger.Info().Int("attempts", attempts).Msg("action executed")
	return nil
}
