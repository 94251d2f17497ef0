package endpoints

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

// Scheduler is the engine surface the control endpoints drive.
type Scheduler interface {
	RefreshAll(ctx context.Context) (scheduler.RefreshReport, error)
	RefreshZone(ctx context.Context, zoneConfigID int) error
	Test(ctx context.Context, zoneConfigID int, zoneID string, pause time.Duration) scheduler.TestResult
	WarmCache(ctx context.Context, zoneConfigID int, year int, month time.Month) (int, error)
	Timeline(zoneConfigID int) []scheduler.Step
	Status() scheduler.RegistryStatus
	Zones() []int
}

var _ Scheduler = (*scheduler.Engine)(nil)
