package stream

import "time"

// cooldown pauses a poller after an upstream rate-limit response.
//
// It is a two-state machine, idle or cooling until a deadline. Disengagement
// is time-triggered rather than tick-triggered: Active compares against the
// deadline, so a poller whose interval is shorter than the pause simply no-ops
// on every tick until the window elapses. Each poller holds its own instance.
type cooldown struct {
	until time.Time
}

// Engage starts a cooling window of duration d from now.
func (cd *cooldown) Engage(now time.Time, d time.Duration) {
	cd.until = now.Add(d)
}

// Active reports whether the cooling window is still open.
func (cd *cooldown) Active(now time.Time) bool {
	return now.Before(cd.until)
}
