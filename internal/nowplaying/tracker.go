package nowplaying

import "github.com/llehouerou/mediascrobbler/internal/session"

// ShouldReport returns true if current is worth reporting and differs from
// lastReported.
func ShouldReport(current, lastReported session.Identity) bool {
	if current.IsEmpty() {
		return false
	}
	if current.IsUnknown() && current.Title == "" {
		return false
	}
	return current != lastReported
}

// Tracker remembers the last identity that was successfully reported.
type Tracker struct {
	last session.Identity
}

// ShouldReport compares current against the last reported identity.
func (t *Tracker) ShouldReport(current session.Identity) bool {
	return ShouldReport(current, t.last)
}

// Reported records id as reported. Call it only after the remote accepted it.
func (t *Tracker) Reported(id session.Identity) {
	t.last = id
}

// Last returns the last reported identity.
func (t *Tracker) Last() session.Identity {
	return t.last
}
