package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/clock"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// Config wires the engine's collaborators. Clock, Registry and Logger default to
// the real clock, a fresh registry and the global zerolog logger.
type Config struct {
	Zones    ZoneRepository
	Provider TimeProvider
	Cache    TimingCache
	Control  PlaybackControl
	Actions  ActionLog
	Trigger  Trigger

	Clock    clock.Clock
	Registry *Registry
	Logger   *zerolog.Logger

	// Attempts and Backoff override the executor retry policy when set.
	Attempts int
	Backoff  time.Duration
}

// RefreshReport summarises one RefreshAll pass.
type RefreshReport struct {
	PassID    string `json:"pass_id"`
	Zones     int    `json:"zones"`
	Scheduled int    `json:"scheduled"`
	Failed    int    `json:"failed"`
	Timers    int    `json:"timers"`
}

type Engine struct {
	zones    ZoneRepository
	provider TimeProvider
	cache    TimingCache
	policy   *CachePolicy
	executor *Executor
	tester   *Tester
	registry *Registry
	clock    clock.Clock
	trigger  Trigger
	log      zerolog.Logger

	locksMu sync.Mutex
	locks   map[int]*sync.Mutex

	runCtx    context.Context
	runCancel context.CancelFunc
}

func New(cfg Config) *Engine {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}
	reg := cfg.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("component", "scheduler").Logger()

	exec := NewExecutor(cfg.Control, cfg.Actions, c, logger)
	if cfg.Attempts > 0 || cfg.Backoff > 0 {
		backoff := cfg.Backoff
		if backoff <= 0 {
			backoff = DefaultBackoff
		}
		exec.WithRetry(cfg.Attempts, backoff)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	return &Engine{
		zones:     cfg.Zones,
		provider:  cfg.Provider,
		cache:     cfg.Cache,
		policy:    NewCachePolicy(cfg.Provider, cfg.Cache, logger),
		executor:  exec,
		tester:    NewTester(exec, c),
		registry:  reg,
		clock:     c,
		trigger:   cfg.Trigger,
		log:       logger,
		locks:     map[int]*sync.Mutex{},
		runCtx:    runCtx,
		runCancel: cancel,
	}
}

// Start registers the daily refresh with the trigger and runs a first full refresh.
func (e *Engine) Start(ctx context.Context) error {
	if e.trigger != nil {
		if err := e.trigger.Start(func() {
			if _, err := e.RefreshAll(e.runCtx); err != nil {
				e.log.Error().Err(err).Msg("daily schedule refresh failed")
			}
		}); err != nil {
			return fmt.Errorf("start refresh trigger: %w", err)
		}
	}
	if _, err := e.RefreshAll(ctx); err != nil {
		e.log.Error().Err(err).Msg("initial schedule refresh failed")
	}
	e.log.Info().Msg("scheduler started")
	return nil
}

// Stop halts the trigger, aborts in-flight retries and cancels every timer.
func (e *Engine) Stop() {
	e.runCancel()
	if e.trigger != nil {
		e.trigger.Stop()
	}
	e.registry.CancelEverything()
	e.log.Info().Msg("scheduler stopped")
}

// Status reports the zones holding timers and the number still armed.
func (e *Engine) Status() RegistryStatus { return e.registry.Status() }

// Zones lists the zone config ids that currently hold a timer set.
func (e *Engine) Zones() []int { return e.registry.Zones() }

// Timeline lists the pending steps of one zone.
func (e *Engine) Timeline(zoneConfigID int) []Step { return e.registry.Upcoming(zoneConfigID) }

// Test runs an immediate pause, wait, resume cycle outside the timeline.
func (e *Engine) Test(ctx context.Context, zoneConfigID int, zoneID string, pause time.Duration) TestResult {
	return e.tester.Run(ctx, zoneConfigID, zoneID, pause)
}

func (e *Engine) zoneLock(id int) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	mu, ok := e.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[id] = mu
	}
	return mu
}

// RefreshZone reschedules one zone. An absent or disabled zone has its timers
// cancelled and is not an error. Refreshes of the same zone are serialized.
func (e *Engine) RefreshZone(ctx context.Context, zoneConfigID int) error {
	mu := e.zoneLock(zoneConfigID)
	mu.Lock()
	defer mu.Unlock()

	zone, err := e.zones.GetEnabledZone(ctx, zoneConfigID)
	if errors.Is(err, model.ErrNotFound) {
		e.registry.CancelAll(zoneConfigID)
		e.log.Info().Int("zone_config_id", zoneConfigID).Msg("zone absent or disabled, timers cancelled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load zone %d: %w", zoneConfigID, err)
	}
	_, err = e.scheduleZone(ctx, *zone, uuid.NewString())
	return err
}

// RefreshAll reschedules every enabled zone one at a time. A failing zone is
// logged and counted; it never stops the batch. Timer sets of zones that are no
// longer enabled are cancelled.
func (e *Engine) RefreshAll(ctx context.Context) (RefreshReport, error) {
	report := RefreshReport{PassID: uuid.NewString()}
	logger := e.log.With().Str("pass_id", report.PassID).Logger()
	logger.Info().Msg("refreshing all prayer time schedules")

	zones, err := e.zones.ListEnabledZones(ctx)
	if err != nil {
		return report, fmt.Errorf("list enabled zones: %w", err)
	}
	report.Zones = len(zones)

	enabled := make(map[int]bool, len(zones))
	for _, z := range zones {
		enabled[z.ID] = true
	}
	for _, id := range e.registry.Zones() {
		if !enabled[id] {
			mu := e.zoneLock(id)
			mu.Lock()
			e.registry.CancelAll(id)
			mu.Unlock()
			logger.Info().Int("zone_config_id", id).Msg("zone no longer enabled, timers cancelled")
		}
	}

	for _, zone := range zones {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		mu := e.zoneLock(zone.ID)
		mu.Lock()
		n, err := e.scheduleZone(ctx, zone, report.PassID)
		mu.Unlock()
		if err != nil {
			report.Failed++
			logger.Error().Err(err).Int("zone_config_id", zone.ID).Str("zone", zone.ZoneName).Msg("error scheduling zone")
			continue
		}
		report.Scheduled++
		report.Timers += n
	}

	logger.Info().
		Int("zones", report.Zones).
		Int("scheduled", report.Scheduled).
		Int("failed", report.Failed).
		Int("timers", report.Timers).
		Msg("schedule refresh complete")
	return report, nil
}

// scheduleZone must be called with the zone's lock held.
func (e *Engine) scheduleZone(ctx context.Context, zone model.ZoneConfig, passID string) (int, error) {
	logger := e.log.With().
		Str("pass_id", passID).
		Int("zone_config_id", zone.ID).
		Str("zone", zone.ZoneName).
		Logger()

	loc, err := time.LoadLocation(zone.Timezone)
	if err != nil {
		e.registry.CancelAll(zone.ID)
		return 0, fmt.Errorf("zone %d: invalid timezone %q: %w", zone.ID, zone.Timezone, err)
	}
	if zone.Mode == model.ModeRamadanOnly {
		// not gated on the Hijri calendar; operators toggle Enabled by hand
		logger.Debug().Msg("ramadan-only zone scheduled unconditionally")
	}

	timing, source, err := e.policy.Timings(ctx, zone, e.clock.Now().In(loc))
	if err != nil {
		e.registry.CancelAll(zone.ID)
		return 0, err
	}

	now := e.clock.Now()
	steps, skipped := BuildTimeline(zone, timing, loc, now)
	for prayer, perr := range skipped {
		logger.Warn().Err(perr).Str("prayer", string(prayer)).Msg("unparsable prayer time, skipped")
	}

	e.registry.CancelAll(zone.ID)
	snapshot := zone
	timers := make([]*Timer, 0, len(steps))
	for _, s := range steps {
		timers = append(timers, Arm(e.clock, now, s, func(step Step) { e.fire(snapshot, step) }))
	}
	e.registry.Replace(zone.ID, timers)

	logger.Info().
		Int("actions", len(timers)).
		Str("timings_source", string(source)).
		Bool("adhan_flow", zone.UsesAdhanFlow()).
		Msg("zone scheduled")
	return len(timers), nil
}

func (e *Engine) fire(zone model.ZoneConfig, step Step) {
	e.log.Info().
		Int("zone_config_id", zone.ID).
		Str("zone", zone.ZoneName).
		Str("action", string(step.Action)).
		Str("prayer", string(step.Prayer)).
		Msg("running scheduled action")

	err := e.executor.Execute(e.runCtx, ActionRequest{
		ZoneConfigID: zone.ID,
		ZoneID:       zone.ZoneID,
		Action:       step.Action,
		Prayer:       string(step.Prayer),
		ScheduledAt:  step.At,
		SourceID:     step.SourceID,
	})
	if err != nil {
		e.log.Error().Err(err).
			Int("zone_config_id", zone.ID).
			Str("zone", zone.ZoneName).
			Msg("scheduled action failed")
	}
}

// WarmCache stores a whole provider month for the zone so the cache fallback
// has entries beyond yesterday. It returns the number of days written.
func (e *Engine) WarmCache(ctx context.Context, zoneConfigID int, year int, month time.Month) (int, error) {
	zone, err := e.zones.GetEnabledZone(ctx, zoneConfigID)
	if err != nil {
		return 0, fmt.Errorf("load zone %d: %w", zoneConfigID, err)
	}
	days, err := e.provider.FetchMonth(ctx, TimingsQuery{
		City:    zone.City,
		Country: zone.Country,
		Method:  zone.Method,
		School:  zone.AsrSchool,
	}, year, month)
	if err != nil {
		return 0, fmt.Errorf("fetch calendar for zone %d: %w", zoneConfigID, err)
	}
	written := 0
	for _, d := range days {
		if err := e.cache.PutTimings(ctx, zone.ID, d.Date, d.Timings); err != nil {
			return written, fmt.Errorf("cache %s for zone %d: %w", d.Date, zoneConfigID, err)
		}
		written++
	}
	e.log.Info().Int("zone_config_id", zone.ID).Int("days", written).Msg("prayer time cache warmed")
	return written, nil
}
