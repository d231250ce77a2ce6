// Package nowplaying keeps the remote "now playing" status in sync with the
// media session.
package nowplaying

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/mediascrobbler/internal/session"
)

// DefaultInterval is the time between two notifier ticks.
const DefaultInterval = 10 * time.Second

// Remote receives now-playing updates.
type Remote interface {
	UpdateNowPlaying(ctx context.Context, artist, title string) error
}

// Prober reads the identity of the current track.
type Prober interface {
	Identity(ctx context.Context) session.Identity
}

// Detector reports whether the target is playing.
type Detector interface {
	IsPlaying(ctx context.Context) bool
}

// Notifier pushes the current track to the remote on a fixed cadence,
// skipping empty and repeated identities.
type Notifier struct {
	probe    Prober
	detector Detector
	remote   Remote
	interval time.Duration
	tracker  Tracker
	log      zerolog.Logger
}

// New creates a Notifier. A non-positive interval uses DefaultInterval.
func New(probe Prober, detector Detector, remote Remote, interval time.Duration, log zerolog.Logger) *Notifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Notifier{
		probe:    probe,
		detector: detector,
		remote:   remote,
		interval: interval,
		log:      log.With().Str("component", "nowplaying").Logger(),
	}
}

// Run ticks until ctx is canceled.
func (n *Notifier) Run(ctx context.Context) error {
	n.log.Debug().Dur("interval", n.interval).Msg("now playing notifier started")
	for {
		n.Tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.interval):
		}
	}
}

// Tick runs one update pass.
func (n *Notifier) Tick(ctx context.Context) {
	current := n.probe.Identity(ctx)
	if !n.detector.IsPlaying(ctx) {
		return
	}
	if !n.tracker.ShouldReport(current) {
		return
	}

	if err := n.remote.UpdateNowPlaying(ctx, current.Artist, current.Title); err != nil {
		n.log.Error().Err(err).Stringer("track", current).Msg("now playing update failed")
		return
	}
	n.tracker.Reported(current)
	n.log.Info().Str("artist", current.Artist).Str("title", current.Title).Msg("updated now playing")
}

// LastReported returns the identity most recently accepted by the remote.
func (n *Notifier) LastReported() session.Identity {
	return n.tracker.Last()
}
