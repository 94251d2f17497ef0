package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/clock"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

func armAt(c *clock.Fake, d time.Duration, fired *[]string, name string) *Timer {
	now := c.Now()
	return Arm(c, now, Step{At: now.Add(d), Action: model.ActionPause}, func(Step) {
		*fired = append(*fired, name)
	})
}

func TestRegistryReplaceCancelsPreviousSet(t *testing.T) {
	c := clock.NewFake(march10)
	reg := NewRegistry()
	var fired []string

	reg.Replace(1, []*Timer{armAt(c, time.Minute, &fired, "old-a"), armAt(c, 2*time.Minute, &fired, "old-b")})
	reg.Replace(1, []*Timer{armAt(c, 3*time.Minute, &fired, "new")})
	assert.Equal(t, RegistryStatus{ActiveZones: 1, ActiveTimers: 1}, reg.Status())

	c.Advance(time.Hour)
	assert.Equal(t, []string{"new"}, fired)
	assert.Equal(t, RegistryStatus{ActiveZones: 1, ActiveTimers: 0}, reg.Status())
}

func TestRegistryZonesAreIndependent(t *testing.T) {
	c := clock.NewFake(march10)
	reg := NewRegistry()
	var fired []string

	reg.Replace(1, []*Timer{armAt(c, time.Minute, &fired, "one")})
	reg.Replace(2, []*Timer{armAt(c, time.Minute, &fired, "two")})
	reg.CancelAll(1)
	reg.CancelAll(99)

	assert.Equal(t, []int{2}, reg.Zones())
	c.Advance(time.Hour)
	assert.Equal(t, []string{"two"}, fired)
}

func TestRegistryCancelEverything(t *testing.T) {
	c := clock.NewFake(march10)
	reg := NewRegistry()
	var fired []string
	reg.Replace(1, []*Timer{armAt(c, time.Minute, &fired, "one")})
	reg.Replace(2, []*Timer{armAt(c, time.Minute, &fired, "two")})

	reg.CancelEverything()

	assert.Equal(t, RegistryStatus{}, reg.Status())
	assert.Zero(t, c.Pending())
	c.Advance(time.Hour)
	assert.Empty(t, fired)
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	c := clock.NewFake(march10)
	reg := NewRegistry()
	var fired []string
	reg.Replace(1, []*Timer{armAt(c, time.Minute, &fired, "one")})
	c.Advance(time.Minute)

	reg.CancelAll(1)
	assert.Equal(t, []string{"one"}, fired)
}

func TestRegistryUpcomingSorted(t *testing.T) {
	c := clock.NewFake(march10)
	reg := NewRegistry()
	var fired []string
	late := armAt(c, 2*time.Hour, &fired, "late")
	early := armAt(c, time.Hour, &fired, "early")
	reg.Replace(1, []*Timer{late, early})

	up := reg.Upcoming(1)
	assert.Len(t, up, 2)
	assert.True(t, up[0].At.Before(up[1].At))
}
