// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Last.fm operations
	OpLastfmAuth       Op = "authenticate with Last.fm"
	OpLastfmNowPlaying Op = "update now playing"
	OpLastfmScrobble   Op = "scrobble track"
	OpLastfmTrackInfo  Op = "look up track info"

	// Local system
	OpSessionQuery Op = "query media session"
	OpProcessList  Op = "list processes"

	// Startup
	OpConfigLoad      Op = "load config"
	OpCredentialsLoad Op = "load credentials"
	OpInitialize      Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
