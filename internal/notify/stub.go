//go:build !linux

package notify

import "context"

// stubNotifier is a no-op notifier for non-Linux platforms.
type stubNotifier struct{}

// New returns a no-op notifier on non-Linux platforms.
func New() Notifier {
	return stubNotifier{}
}

func (stubNotifier) Notify(_ context.Context, _ Notification) (uint32, error) {
	return 0, nil
}
