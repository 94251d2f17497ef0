// Package scheduler is the zone scheduling engine. For every enabled zone it
// resolves today's prayer instants, derives a same-day timeline of playback
// actions (pause/resume, or adhan/pause/restore), arms cancellable timers for
// the instants still in the future and executes each action with bounded retry
// when its timer fires.
//
// All state is in memory and rebuilt from configuration on every refresh. A
// restart loses armed timers; the next refresh re-arms only future instants, so
// nothing earlier than "now" is ever replayed.
package scheduler
