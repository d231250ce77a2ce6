package scrobble

import (
	"time"

	"github.com/llehouerou/mediascrobbler/internal/session"
)

// Listen accumulates playback time toward one scrobble of one track.
type Listen struct {
	Identity  session.Identity
	StartedAt time.Time
	Threshold time.Duration
}

func newListen(id session.Identity, startedAt time.Time, threshold time.Duration) *Listen {
	return &Listen{Identity: id, StartedAt: startedAt, Threshold: threshold}
}

// Elapsed returns the playback time accumulated at now, in whole seconds.
func (l *Listen) Elapsed(now time.Time) time.Duration {
	return now.Sub(l.StartedAt).Truncate(time.Second)
}

// Reached returns true if the listen qualifies for a scrobble at now.
func (l *Listen) Reached(now time.Time) bool {
	return l.Elapsed(now) >= l.Threshold
}

// Restart resets the accumulated time so the same track can scrobble again.
func (l *Listen) Restart(now time.Time) {
	l.StartedAt = now
}
