package process

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	names []string
	err   error
}

func (f fakeLister) Names(_ context.Context) ([]string, error) {
	return f.names, f.err
}

func TestChecker_IsRunning(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  bool
	}{
		{"present", []string{"init", "AppleMusic.exe", "bash"}, true},
		{"absent", []string{"init", "bash"}, false},
		{"empty list", nil, false},
		{"exact match only", []string{"AppleMusic.exe.bak", "appleMusic.exe"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(fakeLister{names: tt.names}, "AppleMusic.exe", zerolog.Nop())
			assert.Equal(t, tt.want, c.IsRunning(context.Background()))
		})
	}
}

func TestChecker_Name(t *testing.T) {
	c := NewChecker(fakeLister{}, "AppleMusic.exe", zerolog.Nop())
	assert.Equal(t, "AppleMusic.exe", c.Name())
}

func TestChecker_ListError(t *testing.T) {
	var buf bytes.Buffer
	c := NewChecker(fakeLister{err: errors.New("permission denied")}, "AppleMusic.exe", zerolog.New(&buf))

	assert.False(t, c.IsRunning(context.Background()))
	assert.Contains(t, buf.String(), "cannot list processes")
	assert.Contains(t, buf.String(), "permission denied")
}

func TestSystemLister_Names(t *testing.T) {
	names, err := SystemLister{}.Names(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, names, "the test binary itself is running")
}
