// Package session reads the desktop media session that currently owns the
// system transport controls.
package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// UnknownArtist is reported when the session exposes no album artist.
const UnknownArtist = "Unknown Artist"

// artistSeparator splits "Artist — Album" style album-artist strings.
// Only the first segment is kept, even for artists whose name contains it.
const artistSeparator = " — "

// ErrUnsupportedPlatform is returned by NewManager on platforms without a
// media-session provider.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Identity identifies a track by title and artist.
type Identity struct {
	Title  string
	Artist string
}

// IsEmpty returns true if neither title nor artist is set.
func (i Identity) IsEmpty() bool {
	return i.Title == "" && i.Artist == ""
}

// IsUnknown returns true if the artist fell back to UnknownArtist.
func (i Identity) IsUnknown() bool {
	return i.Artist == UnknownArtist
}

func (i Identity) String() string {
	return i.Artist + " - " + i.Title
}

// ResolveArtist turns a raw album-artist field into the reported artist.
func ResolveArtist(albumArtist string) string {
	if albumArtist == "" {
		return UnknownArtist
	}
	artist, _, _ := strings.Cut(albumArtist, artistSeparator)
	return artist
}

// Sample is a point-in-time reading of the current session.
type Sample struct {
	Identity Identity
	Position time.Duration
	// OwnerAppID identifies the application owning the session.
	OwnerAppID string
	// HasProperties is false when the session exposed no media properties.
	HasProperties bool
	Timestamp     time.Time
}

// MediaProperties holds the raw track fields exposed by a session.
type MediaProperties struct {
	Title       string
	AlbumArtist string
}

// Session is a handle on the media session of one application.
type Session interface {
	// OwnerAppID returns the identifier of the application owning the session.
	OwnerAppID() string
	// MediaProperties returns nil with a nil error when the session has no
	// retrievable properties.
	MediaProperties(ctx context.Context) (*MediaProperties, error)
	// Position returns the playback position on the session timeline.
	Position(ctx context.Context) (time.Duration, error)
}

// Manager gives access to the system's current media session.
type Manager interface {
	// CurrentSession returns nil with a nil error when no session exists.
	CurrentSession(ctx context.Context) (Session, error)
}
