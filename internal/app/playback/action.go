package playback

// Action is a state-mutating request produced by a button or the remote link.
type Action int

const (
	ActionNext       Action = iota // Select the next track
	ActionPrevious                 // Select the previous track
	ActionTogglePlay               // Flip play/pause
	ActionShuffle                  // Select a pseudo-random track
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionTogglePlay:
		return "toggle_play"
	case ActionShuffle:
		return "shuffle"
	default:
		return "unknown"
	}
}
