package scrobble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/mediascrobbler/internal/session"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     time.Duration
	}{
		{60 * time.Second, 31 * time.Second},
		{61 * time.Second, 31 * time.Second},
		{118 * time.Second, 60 * time.Second},
		{119 * time.Second, 60 * time.Second},
		{120 * time.Second, 61 * time.Second},
		{300 * time.Second, 151 * time.Second},
		{245500 * time.Millisecond, 123 * time.Second},
		{0, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Threshold(tt.duration), "Threshold(%v)", tt.duration)
	}
}

func TestEffectiveDuration(t *testing.T) {
	assert.Equal(t, MinimumDuration, EffectiveDuration(0, MinimumDuration))
	assert.Equal(t, MinimumDuration, EffectiveDuration(30*time.Second, MinimumDuration))
	assert.Equal(t, 200*time.Second, EffectiveDuration(200*time.Second, MinimumDuration))
}

func TestThreshold_ShortTracksShareTheFloor(t *testing.T) {
	floor := Threshold(EffectiveDuration(0, MinimumDuration))
	for secs := 0; secs <= 60; secs++ {
		d := time.Duration(secs) * time.Second
		assert.Equal(t, floor, Threshold(EffectiveDuration(d, MinimumDuration)), "duration %v", d)
	}
	assert.Equal(t, 31*time.Second, floor)
}

// Below 61s the floor wins; above it the threshold follows the reported
// length, so 61s..118s land between 31s and 60s.
func TestThreshold_ReportedDurations(t *testing.T) {
	tests := []struct {
		reported time.Duration
		want     time.Duration
	}{
		{30 * time.Second, 31 * time.Second},
		{60 * time.Second, 31 * time.Second},
		{61 * time.Second, 31 * time.Second},
		{62 * time.Second, 32 * time.Second},
		{100 * time.Second, 51 * time.Second},
		{118 * time.Second, 60 * time.Second},
		{119 * time.Second, 60 * time.Second},
		{200 * time.Second, 101 * time.Second},
	}
	for _, tt := range tests {
		got := Threshold(EffectiveDuration(tt.reported, MinimumDuration))
		assert.Equal(t, tt.want, got, "reported %v", tt.reported)
	}
}

func TestListen(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := newListen(session.Identity{Title: "Song", Artist: "Artist"}, start, 31*time.Second)

	assert.Equal(t, 30*time.Second, l.Elapsed(start.Add(30900*time.Millisecond)))
	assert.False(t, l.Reached(start.Add(30*time.Second)))
	assert.True(t, l.Reached(start.Add(31*time.Second)))

	l.Restart(start.Add(31 * time.Second))
	assert.Zero(t, l.Elapsed(start.Add(31*time.Second)))
	assert.False(t, l.Reached(start.Add(40*time.Second)))
}
