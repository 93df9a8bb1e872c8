package input

import "github.com/osa030/wavbox/internal/app/playback"

// Button identifies one of the four physical push buttons.
type Button int

const (
	ButtonPrevious Button = iota // Select previous track
	ButtonNext                   // Select next track
	ButtonShuffle                // Select a pseudo-random track
	ButtonPlay                   // Toggle play/pause
)

// Buttons lists every button in board order.
var Buttons = []Button{ButtonPrevious, ButtonNext, ButtonShuffle, ButtonPlay}

// Action returns the action a release of this button triggers.
func (b Button) Action() playback.Action {
	switch b {
	case ButtonPrevious:
		return playback.ActionPrevious
	case ButtonNext:
		return playback.ActionNext
	case ButtonShuffle:
		return playback.ActionShuffle
	default:
		return playback.ActionTogglePlay
	}
}

// String returns the string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrevious:
		return "previous"
	case ButtonNext:
		return "next"
	case ButtonShuffle:
		return "shuffle"
	case ButtonPlay:
		return "play"
	default:
		return "unknown"
	}
}
