package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrgencyValues(t *testing.T) {
	// freedesktop urgency bytes
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

type fakeScrobbler struct {
	err       error
	scrobbles int
}

func (f *fakeScrobbler) Scrobble(_ context.Context, _, _ string, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.scrobbles++
	return nil
}

func (f *fakeScrobbler) TrackDuration(_ context.Context, _, _ string) (time.Duration, error) {
	return 3 * time.Minute, nil
}

type fakeNotifier struct {
	sent   []Notification
	nextID uint32
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, n Notification) (uint32, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	f.nextID++
	return f.nextID, nil
}

func TestAnnouncer_NotifiesAfterScrobble(t *testing.T) {
	remote := &fakeScrobbler{}
	notifier := &fakeNotifier{}
	a := NewAnnouncer(remote, notifier, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, a.Scrobble(ctx, "Artist", "One", time.Now()))
	require.NoError(t, a.Scrobble(ctx, "Artist", "Two", time.Now()))

	assert.Equal(t, 2, remote.scrobbles)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Artist - One", notifier.sent[0].Body)
	assert.Zero(t, notifier.sent[0].ReplacesID)
	assert.Equal(t, uint32(1), notifier.sent[1].ReplacesID)
}

func TestAnnouncer_ScrobbleErrorSkipsNotification(t *testing.T) {
	cause := errors.New("network error")
	notifier := &fakeNotifier{}
	a := NewAnnouncer(&fakeScrobbler{err: cause}, notifier, zerolog.Nop())

	err := a.Scrobble(context.Background(), "Artist", "Song", time.Now())

	require.ErrorIs(t, err, cause)
	assert.Empty(t, notifier.sent)
}

func TestAnnouncer_NotificationErrorIgnored(t *testing.T) {
	a := NewAnnouncer(&fakeScrobbler{}, &fakeNotifier{err: errors.New("no service")}, zerolog.Nop())

	assert.NoError(t, a.Scrobble(context.Background(), "Artist", "Song", time.Now()))
}

func TestAnnouncer_ForwardsDuration(t *testing.T) {
	a := NewAnnouncer(&fakeScrobbler{}, &fakeNotifier{}, zerolog.Nop())

	d, err := a.TrackDuration(context.Background(), "Artist", "Song")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, d)
}
