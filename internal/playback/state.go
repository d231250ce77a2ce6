package playback

// State is the verdict of one detection pass.
type State int

const (
	// StateNoSession means no application owns a media session.
	StateNoSession State = iota
	// StateOtherApp means the session belongs to an application other than the target.
	StateOtherApp
	// StatePaused means the target owns the session but the position did not move.
	StatePaused
	// StatePlaying means the target's position advanced over the sample window.
	StatePlaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoSession:
		return "NoSession"
	case StateOtherApp:
		return "OtherApp"
	case StatePaused:
		return "Paused"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsPlaying returns true if the track is advancing.
func (s State) IsPlaying() bool {
	return s == StatePlaying
}
