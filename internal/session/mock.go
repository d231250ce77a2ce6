package session

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Manager. Its single session advances its
// position with the clock while playing.
type Mock struct {
	mu       sync.Mutex
	open     bool
	appID    string
	props    *MediaProperties
	err      error
	position time.Duration
	playing  bool
	since    time.Time
}

// NewMock creates a mock with no session.
func NewMock() *Mock {
	return &Mock{}
}

// CurrentSession implements Manager.
func (m *Mock) CurrentSession(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if !m.open {
		return nil, nil //nolint:nilnil // no session
	}
	return &mockSession{m: m, appID: m.appID}, nil
}

// Test helpers

// Open creates a session owned by appID.
func (m *Mock) Open(appID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.appID = appID
}

// Close removes the session.
func (m *Mock) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
}

// SetTrack sets the media properties and rewinds the position.
func (m *Mock) SetTrack(title, albumArtist string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props = &MediaProperties{Title: title, AlbumArtist: albumArtist}
	m.position = 0
	m.since = time.Now()
}

// ClearProperties makes the session report no media properties.
func (m *Mock) ClearProperties() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props = nil
}

// SetError makes CurrentSession fail.
func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Play starts advancing the position.
func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		return
	}
	m.playing = true
	m.since = time.Now()
}

// Pause freezes the position.
func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		return
	}
	m.position = m.positionLocked()
	m.playing = false
}

func (m *Mock) positionLocked() time.Duration {
	if !m.playing {
		return m.position
	}
	return m.position + time.Since(m.since)
}

type mockSession struct {
	m     *Mock
	appID string
}

func (s *mockSession) OwnerAppID() string {
	return s.appID
}

func (s *mockSession) MediaProperties(_ context.Context) (*MediaProperties, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.props == nil {
		return nil, nil //nolint:nilnil // no properties
	}
	props := *s.m.props
	return &props, nil
}

func (s *mockSession) Position(_ context.Context) (time.Duration, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.positionLocked(), nil
}

// Verify Mock implements Manager at compile time.
var _ Manager = (*Mock)(nil)
