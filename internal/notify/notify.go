// Package notify shows a desktop notification for each scrobble.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are unavailable.
	Notify(ctx context.Context, n Notification) (uint32, error)
}

// Scrobbler is the remote the announcer decorates.
type Scrobbler interface {
	Scrobble(ctx context.Context, artist, title string, at time.Time) error
	TrackDuration(ctx context.Context, artist, title string) (time.Duration, error)
}

// Announcer forwards to a Scrobbler and shows a notification after every
// successful scrobble. Each notification replaces the previous one.
type Announcer struct {
	Scrobbler
	notifier Notifier
	log      zerolog.Logger

	mu     sync.Mutex
	lastID uint32
}

// NewAnnouncer wraps remote.
func NewAnnouncer(remote Scrobbler, notifier Notifier, log zerolog.Logger) *Announcer {
	return &Announcer{
		Scrobbler: remote,
		notifier:  notifier,
		log:       log.With().Str("component", "notify").Logger(),
	}
}

// Scrobble implements Scrobbler. Notification failures are logged only.
func (a *Announcer) Scrobble(ctx context.Context, artist, title string, at time.Time) error {
	if err := a.Scrobbler.Scrobble(ctx, artist, title, at); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	id, err := a.notifier.Notify(ctx, Notification{
		Title:      "Scrobbled",
		Body:       artist + " - " + title,
		Timeout:    5000,
		ReplacesID: a.lastID,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		a.log.Debug().Err(err).Msg("desktop notification failed")
		return nil
	}
	a.lastID = id
	return nil
}
