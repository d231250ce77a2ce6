// Package scrobble decides when a listen of the current track counts as a
// scrobble and submits it.
package scrobble

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/mediascrobbler/internal/session"
)

// Remote submits scrobbles and looks up track lengths.
type Remote interface {
	Scrobble(ctx context.Context, artist, title string, at time.Time) error
	TrackDuration(ctx context.Context, artist, title string) (time.Duration, error)
}

// AppChecker reports whether the target application is running.
type AppChecker interface {
	Name() string
	IsRunning(ctx context.Context) bool
}

// Prober reads the identity of the current track.
type Prober interface {
	Identity(ctx context.Context) session.Identity
}

// Detector reports whether the target is playing.
type Detector interface {
	IsPlaying(ctx context.Context) bool
}

// Options tunes the scheduler timings. Zero values use the defaults.
type Options struct {
	// IdlePoll is the wait between two outer checks (default 5s).
	IdlePoll time.Duration
	// Tick is the wait between two accumulation steps (default 1s).
	Tick time.Duration
	// DefaultDuration is used when the duration lookup fails.
	DefaultDuration time.Duration
	// MinDuration floors reported track lengths.
	MinDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdlePoll <= 0 {
		o.IdlePoll = 5 * time.Second
	}
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = DefaultDuration
	}
	if o.MinDuration <= 0 {
		o.MinDuration = MinimumDuration
	}
	return o
}

// Scheduler is the main loop: it waits for the target to play a track,
// accumulates listen time and scrobbles each qualifying listen once.
type Scheduler struct {
	app      AppChecker
	probe    Prober
	detector Detector
	remote   Remote
	opts     Options
	log      zerolog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(
	app AppChecker,
	probe Prober,
	detector Detector,
	remote Remote,
	opts Options,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		app:      app,
		probe:    probe,
		detector: detector,
		remote:   remote,
		opts:     opts.withDefaults(),
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Run loops until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.step(ctx)
		if !s.wait(ctx, s.opts.IdlePoll) {
			return ctx.Err()
		}
	}
}

// step runs one outer iteration.
func (s *Scheduler) step(ctx context.Context) {
	if !s.app.IsRunning(ctx) {
		s.log.Info().Str("process", s.app.Name()).Msg("target app not running")
		return
	}

	current := s.probe.Identity(ctx)
	if !s.detector.IsPlaying(ctx) {
		s.log.Info().Msg("player is paused")
		return
	}
	if !eligible(current) {
		s.log.Info().Stringer("track", current).Msg("track not eligible for scrobbling")
		return
	}

	s.listen(ctx, current)
}

// listen accumulates time for the playing track until playback stops or
// the track disappears.
func (s *Scheduler) listen(ctx context.Context, id session.Identity) {
	l := s.begin(ctx, id)

	for {
		if !s.wait(ctx, s.opts.Tick) {
			return
		}

		current := s.probe.Identity(ctx)
		if !eligible(current) {
			s.log.Info().Msg("track cleared, stopping listen")
			return
		}
		if current != l.Identity {
			s.log.Info().
				Stringer("from", l.Identity).
				Stringer("to", current).
				Msg("track changed")
			l = s.begin(ctx, current)
			continue
		}

		if !s.detector.IsPlaying(ctx) {
			s.log.Info().Stringer("track", l.Identity).Msg("playback stopped, stopping listen")
			return
		}

		now := time.Now()
		s.log.Debug().
			Dur("elapsed", l.Elapsed(now)).
			Dur("threshold", l.Threshold).
			Msg("listening")
		if !l.Reached(now) {
			continue
		}

		s.submit(ctx, l, now)
		l.Restart(time.Now())
	}
}

// begin starts a listen, looking up the track length for its threshold.
func (s *Scheduler) begin(ctx context.Context, id session.Identity) *Listen {
	startedAt := time.Now()

	duration, err := s.remote.TrackDuration(ctx, id.Artist, id.Title)
	if err != nil {
		s.log.Warn().
			Err(err).
			Stringer("track", id).
			Dur("default", s.opts.DefaultDuration).
			Msg("duration lookup failed, using default")
		duration = s.opts.DefaultDuration
	} else {
		duration = EffectiveDuration(duration, s.opts.MinDuration)
	}

	l := newListen(id, startedAt, Threshold(duration))
	s.log.Info().
		Str("artist", id.Artist).
		Str("title", id.Title).
		Dur("duration", duration).
		Dur("threshold", l.Threshold).
		Msg("listening to track")
	return l
}

// submit scrobbles the listen if the track is still playing.
func (s *Scheduler) submit(ctx context.Context, l *Listen, reachedAt time.Time) {
	if !s.detector.IsPlaying(ctx) {
		s.log.Info().Stringer("track", l.Identity).Msg("paused before scrobble, skipping")
		return
	}

	at := time.Now()
	if err := s.remote.Scrobble(ctx, l.Identity.Artist, l.Identity.Title, at); err != nil {
		s.log.Error().Err(err).Stringer("track", l.Identity).Msg("scrobble failed")
		return
	}
	s.log.Info().
		Str("artist", l.Identity.Artist).
		Str("title", l.Identity.Title).
		Int64("timestamp", at.Unix()).
		Str("listened", strings.TrimSpace(humanize.RelTime(l.StartedAt, reachedAt, "", ""))).
		Msg("scrobbled")
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// eligible returns true for tracks that can start or continue a listen.
func eligible(id session.Identity) bool {
	return !id.IsEmpty() && !id.IsUnknown()
}
