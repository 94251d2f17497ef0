package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DailyAtMidnightUTC refreshes once a day at 00:00 UTC. Each pass only arms
// instants still ahead on the zone's current local day, so zones far east of
// UTC miss prayers that fall before local refresh time (Fajr in Jakarta), and
// zones west of UTC refresh on their previous local evening and lose Fajr
// through Maghrib. Set REFRESH_CRON near local midnight when all zones share a
// region.
const DailyAtMidnightUTC = "0 0 * * *"

// CronTrigger fires on a cron spec in a fixed location.
type CronTrigger struct {
	mu   sync.Mutex
	spec string
	loc  *time.Location
	c    *cron.Cron
}

func NewCronTrigger(spec string, loc *time.Location) *CronTrigger {
	if spec == "" {
		spec = DailyAtMidnightUTC
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CronTrigger{spec: spec, loc: loc}
}

func (t *CronTrigger) Start(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c != nil {
		return nil
	}
	c := cron.New(cron.WithLocation(t.loc))
	if _, err := c.AddFunc(t.spec, fn); err != nil {
		return fmt.Errorf("invalid refresh spec %q: %w", t.spec, err)
	}
	c.Start()
	t.c = c
	return nil
}

func (t *CronTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c == nil {
		return
	}
	<-t.c.Stop().Done()
	t.c = nil
}

// Next reports the next fire time, or zero when stopped.
func (t *CronTrigger) Next() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c == nil {
		return time.Time{}
	}
	entries := t.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
