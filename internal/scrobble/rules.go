package scrobble

import "time"

const (
	// DefaultDuration is assumed when the remote cannot report a track length.
	DefaultDuration = 60 * time.Second

	// MinimumDuration is the floor applied to reported track lengths, so short
	// or metadata-less tracks still need a sane listen.
	MinimumDuration = 60 * time.Second
)

// EffectiveDuration applies the floor to a reported track length.
func EffectiveDuration(reported, floor time.Duration) time.Duration {
	return max(reported, floor)
}

// Threshold returns how long a track has to play before it scrobbles:
// half its whole-second length, plus one second.
func Threshold(duration time.Duration) time.Duration {
	secs := int64(duration / time.Second)
	return time.Duration(secs/2+1) * time.Second
}
