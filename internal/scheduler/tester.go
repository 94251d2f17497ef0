package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/clock"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// TestResult is the outcome of a dry-run connectivity test.
type TestResult struct {
	Paused  bool   `json:"paused"`
	Resumed bool   `json:"resumed"`
	Error   string `json:"error,omitempty"`
}

// Tester runs an immediate pause -> wait -> resume sequence, bypassing the timeline.
type Tester struct {
	executor *Executor
	clock    clock.Clock
}

func NewTester(executor *Executor, c clock.Clock) *Tester {
	return &Tester{executor: executor, clock: c}
}

// Run pauses the zone, waits pause, then resumes it. Resume is skipped when the
// pause failed. The resume step ignores cancellation of ctx so a zone is not
// left paused once the pause went through.
func (t *Tester) Run(ctx context.Context, zoneConfigID int, zoneID string, pause time.Duration) TestResult {
	req := ActionRequest{
		ZoneConfigID: zoneConfigID,
		ZoneID:       zoneID,
		Action:       model.ActionTestPause,
		Prayer:       model.TestPrayer,
		ScheduledAt:  t.clock.Now(),
	}
	if err := t.executor.Execute(ctx, req); err != nil {
		return TestResult{Error: "Pause failed: " + cause(err)}
	}

	_ = t.clock.Sleep(ctx, pause)

	req.Action = model.ActionTestResume
	req.ScheduledAt = t.clock.Now()
	if err := t.executor.Execute(context.WithoutCancel(ctx), req); err != nil {
		return TestResult{Paused: true, Error: "Resume failed: " + cause(err)}
	}
	return TestResult{Paused: true, Resumed: true}
}

func cause(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err.Error()
	}
	return err.Error()
}
