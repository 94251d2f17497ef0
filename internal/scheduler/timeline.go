package scheduler

import (
	"sort"
	"time"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
)

// Step is one entry of a zone's same-day timeline.
type Step struct {
	At       time.Time        `json:"at"`
	Action   model.ActionKind `json:"action"`
	Prayer   model.Prayer     `json:"prayer"`
	SourceID string           `json:"source_id,omitempty"`
}

// BuildTimeline derives the ordered future steps for zone from timing.
//
// Standard flow: pause at T-offset, resume at T+duration.
// Adhan flow: assign the adhan source at T-lead, pause at T, assign the
// default source back at T+duration. The standalone pause offset is ignored.
//
// Steps at or before now are dropped. Prayers with an empty or unparsable time
// are skipped; the returned map holds the reason per skipped prayer.
func BuildTimeline(zone model.ZoneConfig, timing model.PrayerTiming, loc *time.Location, now time.Time) ([]Step, map[model.Prayer]error) {
	var steps []Step
	skipped := map[model.Prayer]error{}
	adhan := zone.UsesAdhanFlow()

	for _, prayer := range zone.EnabledPrayers() {
		raw := timing.For(prayer)
		if raw == "" {
			continue
		}
		at, err := ResolveInstant(CleanTime(raw), loc, now)
		if err != nil {
			skipped[prayer] = err
			continue
		}
		duration := zone.DurationFor(prayer)

		var candidates []Step
		if adhan {
			lead := time.Duration(zone.AdhanLeadMinutes) * time.Minute
			candidates = []Step{
				{At: at.Add(-lead), Action: model.ActionAdhan, Prayer: prayer, SourceID: zone.AdhanSource()},
				{At: at, Action: model.ActionPause, Prayer: prayer},
				{At: at.Add(duration), Action: model.ActionRestore, Prayer: prayer, SourceID: zone.DefaultSource()},
			}
		} else {
			offset := time.Duration(zone.PauseOffsetMinutes) * time.Minute
			candidates = []Step{
				{At: at.Add(-offset), Action: model.ActionPause, Prayer: prayer},
				{At: at.Add(duration), Action: model.ActionResume, Prayer: prayer},
			}
		}
		for _, s := range candidates {
			if s.At.After(now) {
				steps = append(steps, s)
			}
		}
	}

	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At.Before(steps[j].At) })
	return steps, skipped
}
