// Package playback infers whether the target application is actually
// playing by watching its session position move.
package playback

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/mediascrobbler/internal/session"
)

// DefaultWindow is the interval between the two position samples.
const DefaultWindow = 2 * time.Second

// Detector samples the session position twice and reports whether it moved.
// Each call blocks its caller for the whole window.
type Detector struct {
	manager session.Manager
	marker  string
	window  time.Duration
	log     zerolog.Logger
}

// NewDetector creates a Detector that only accepts sessions whose owner id
// contains marker. A non-positive window uses DefaultWindow.
func NewDetector(manager session.Manager, marker string, window time.Duration, log zerolog.Logger) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		manager: manager,
		marker:  marker,
		window:  window,
		log:     log.With().Str("component", "detector").Logger(),
	}
}

// IsPlaying returns true if the target's track advanced during the window.
func (d *Detector) IsPlaying(ctx context.Context) bool {
	return d.Detect(ctx).IsPlaying()
}

// Detect runs one detection pass. Both position reads happen before the
// owner id is checked.
func (d *Detector) Detect(ctx context.Context) State {
	sess, err := d.manager.CurrentSession(ctx)
	if err != nil || sess == nil {
		d.log.Info().Err(err).Msg("no app is playing music")
		return StateNoSession
	}

	props, err := sess.MediaProperties(ctx)
	if err != nil {
		d.log.Debug().Err(err).Msg("media properties unavailable")
		props = nil
	}

	initial, initialErr := sess.Position(ctx)

	select {
	case <-ctx.Done():
		return StatePaused
	case <-time.After(d.window):
	}

	current, currentErr := sess.Position(ctx)

	if !strings.Contains(sess.OwnerAppID(), d.marker) {
		d.log.Info().Str("app", sess.OwnerAppID()).Msg("session is not owned by the target app")
		return StateOtherApp
	}
	if props == nil || initialErr != nil || currentErr != nil || initial == current {
		d.log.Info().Msg("player is paused")
		return StatePaused
	}

	d.log.Debug().Dur("position", current).Msg("player is playing")
	return StatePlaying
}
