package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Probe samples the current session once per call.
type Probe struct {
	manager Manager
	log     zerolog.Logger
}

// NewProbe creates a Probe reading from the given manager.
func NewProbe(manager Manager, log zerolog.Logger) *Probe {
	return &Probe{
		manager: manager,
		log:     log.With().Str("component", "probe").Logger(),
	}
}

// Sample reads the current session. The boolean is false when there is no
// session at all; that is a normal state and only gets logged.
func (p *Probe) Sample(ctx context.Context) (Sample, bool) {
	sess, err := p.manager.CurrentSession(ctx)
	if err != nil {
		p.log.Info().Err(err).Msg("no current session")
		return Sample{}, false
	}
	if sess == nil {
		p.log.Info().Msg("no current session")
		return Sample{}, false
	}

	sample := Sample{
		OwnerAppID: sess.OwnerAppID(),
		Timestamp:  time.Now(),
	}

	props, err := sess.MediaProperties(ctx)
	switch {
	case err != nil:
		p.log.Info().Err(err).Msg("no media properties")
	case props == nil:
		p.log.Info().Msg("no media properties")
	default:
		sample.HasProperties = true
		sample.Identity = Identity{
			Title:  props.Title,
			Artist: ResolveArtist(props.AlbumArtist),
		}
	}

	pos, err := sess.Position(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("position unavailable")
	}
	sample.Position = pos

	return sample, true
}

// Identity returns the identity of the current track, empty when nothing
// is available.
func (p *Probe) Identity(ctx context.Context) Identity {
	sample, ok := p.Sample(ctx)
	if !ok {
		return Identity{}
	}
	return sample.Identity
}
