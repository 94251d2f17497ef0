package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/clock"
)

const (
	timerPending int32 = iota
	timerFired
	timerCancelled
)

// Timer is one armed timeline step.
type Timer struct {
	Step   Step
	handle clock.Timer
	state  atomic.Int32
}

// Arm schedules fn at step.At. The callback only runs if the timer was not
// cancelled first, so a cancelled step never executes even when the underlying
// clock already started delivering it.
func Arm(c clock.Clock, now time.Time, step Step, fn func(Step)) *Timer {
	t := &Timer{Step: step}
	t.handle = c.AfterFunc(step.At.Sub(now), func() {
		if t.state.CompareAndSwap(timerPending, timerFired) {
			fn(step)
		}
	})
	return t
}

func (t *Timer) cancel() {
	if t.state.CompareAndSwap(timerPending, timerCancelled) {
		t.handle.Stop()
	}
}

// Pending reports whether the timer has neither fired nor been cancelled.
func (t *Timer) Pending() bool { return t.state.Load() == timerPending }

// RegistryStatus is the health view of armed timers.
type RegistryStatus struct {
	ActiveZones  int `json:"active_zones"`
	ActiveTimers int `json:"active_timers"`
}

// Registry owns the live timer set of every zone, keyed by zone config id.
type Registry struct {
	mu     sync.Mutex
	timers map[int][]*Timer
}

func NewRegistry() *Registry {
	return &Registry{timers: map[int][]*Timer{}}
}

// Replace cancels the zone's previous set, if any, and stores timers.
func (r *Registry) Replace(zoneConfigID int, timers []*Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.timers[zoneConfigID] {
		t.cancel()
	}
	r.timers[zoneConfigID] = timers
}

// CancelAll cancels and forgets the zone's timers. No-op for unknown zones.
func (r *Registry) CancelAll(zoneConfigID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.timers[zoneConfigID] {
		t.cancel()
	}
	delete(r.timers, zoneConfigID)
}

// CancelEverything tears down all zones.
func (r *Registry) CancelEverything() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, set := range r.timers {
		for _, t := range set {
			t.cancel()
		}
		delete(r.timers, id)
	}
}

// Zones returns the ids that currently hold a timer set.
func (r *Registry) Zones() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Status counts zones holding a timer set and the timers still pending.
func (r *Registry) Status() RegistryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := RegistryStatus{ActiveZones: len(r.timers)}
	for _, set := range r.timers {
		for _, t := range set {
			if t.Pending() {
				st.ActiveTimers++
			}
		}
	}
	return st
}

// Upcoming lists the zone's pending steps in instant order.
func (r *Registry) Upcoming(zoneConfigID int) []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Step
	for _, t := range r.timers[zoneConfigID] {
		if t.Pending() {
			out = append(out, t.Step)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
