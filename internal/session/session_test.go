package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestResolveArtist(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain artist", input: "Radiohead", want: "Radiohead"},
		{name: "artist and album", input: "Radiohead — OK Computer", want: "Radiohead"},
		{name: "keeps only first segment", input: "A — B — C", want: "A"},
		{name: "hyphen is not a separator", input: "Jay-Z - Hits", want: "Jay-Z - Hits"},
		{name: "em dash without spaces", input: "A—B", want: "A—B"},
		{name: "empty falls back", input: "", want: UnknownArtist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveArtist(tt.input))
		})
	}
}

func TestIdentity(t *testing.T) {
	assert.True(t, Identity{}.IsEmpty())
	assert.False(t, Identity{Title: "Song"}.IsEmpty())
	assert.False(t, Identity{Artist: "Artist"}.IsEmpty())

	assert.True(t, Identity{Title: "Song", Artist: UnknownArtist}.IsUnknown())
	assert.False(t, Identity{Title: "Song", Artist: "Artist"}.IsUnknown())

	assert.Equal(t, Identity{Title: "a", Artist: "b"}, Identity{Title: "a", Artist: "b"})
	assert.NotEqual(t, Identity{Title: "a", Artist: "b"}, Identity{Title: "a", Artist: "c"})
	assert.Equal(t, "b - a", Identity{Title: "a", Artist: "b"}.String())
}

func TestProbe_NoSession(t *testing.T) {
	p := NewProbe(NewMock(), zerolog.Nop())

	_, ok := p.Sample(context.Background())
	assert.False(t, ok)
	assert.True(t, p.Identity(context.Background()).IsEmpty())
}

func TestProbe_SessionError(t *testing.T) {
	m := NewMock()
	m.Open("AppleMusic")
	m.SetError(errors.New("bus gone"))
	p := NewProbe(m, zerolog.Nop())

	_, ok := p.Sample(context.Background())
	assert.False(t, ok)
}

func TestProbe_NoProperties(t *testing.T) {
	m := NewMock()
	m.Open("AppleMusic")
	p := NewProbe(m, zerolog.Nop())

	sample, ok := p.Sample(context.Background())
	assert.True(t, ok)
	assert.False(t, sample.HasProperties)
	assert.True(t, sample.Identity.IsEmpty())
	assert.Equal(t, "AppleMusic", sample.OwnerAppID)
}

func TestProbe_ResolvesIdentity(t *testing.T) {
	m := NewMock()
	m.Open("AppleInc.AppleMusicWin_nzyj5cx40ttqa!App")
	m.SetTrack("Paranoid Android", "Radiohead — OK Computer")
	p := NewProbe(m, zerolog.Nop())

	sample, ok := p.Sample(context.Background())
	assert.True(t, ok)
	assert.True(t, sample.HasProperties)
	assert.Equal(t, Identity{Title: "Paranoid Android", Artist: "Radiohead"}, sample.Identity)
}

func TestProbe_MissingAlbumArtist(t *testing.T) {
	m := NewMock()
	m.Open("AppleMusic")
	m.SetTrack("Untitled", "")
	p := NewProbe(m, zerolog.Nop())

	id := p.Identity(context.Background())
	assert.Equal(t, Identity{Title: "Untitled", Artist: UnknownArtist}, id)
	assert.True(t, id.IsUnknown())
}
