//go:build !linux

package session

import (
	"fmt"
	"runtime"
)

// NewManager fails on platforms without a media-session provider.
func NewManager() (Manager, error) {
	return nil, fmt.Errorf("media session on %s: %w", runtime.GOOS, ErrUnsupportedPlatform)
}
