// Package remote implements the serial control-pad protocol: 4-byte command
// frames in, "now playing" notices out.
package remote

import (
	"github.com/osa030/wavbox/internal/app/playback"
	"github.com/osa030/wavbox/internal/domain/track"
)

// Frame layout: '!' 'B' <cmd> <edge>.
const (
	FrameStart   byte = '!'
	FrameButton  byte = 'B'
	EdgeReleased byte = '0'
	FrameLength       = 4
)

// NowPlayingPrefix starts every outbound notice.
const NowPlayingPrefix = "Current Song: "

// Command is a decoded remote command.
type Command int

const (
	CommandUnknown    Command = iota // Unrecognised command byte
	CommandTogglePlay                // '1'
	CommandNext                      // '2'
	CommandPrevious                  // '3'
	CommandShuffle                   // '4'
)

// String returns the string representation of the command.
func (c Command) String() string {
	switch c {
	case CommandTogglePlay:
		return "toggle_play"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandShuffle:
		return "shuffle"
	default:
		return "unknown"
	}
}

// Action returns the playback action for the command.
// It returns false for CommandUnknown.
func (c Command) Action() (playback.Action, bool) {
	switch c {
	case CommandTogglePlay:
		return playback.ActionTogglePlay, true
	case CommandNext:
		return playback.ActionNext, true
	case CommandPrevious:
		return playback.ActionPrevious, true
	case CommandShuffle:
		return playback.ActionShuffle, true
	default:
		return 0, false
	}
}

// decodeCommand maps a command byte to a Command.
func decodeCommand(b byte) Command {
	switch b {
	case '1':
		return CommandTogglePlay
	case '2':
		return CommandNext
	case '3':
		return CommandPrevious
	case '4':
		return CommandShuffle
	default:
		return CommandUnknown
	}
}

type parserState int

const (
	expectStart parserState = iota
	expectButton
	expectCommand
	expectEdge
)

// Parser decodes frames one byte at a time. The zero value is ready to use.
//
// A mismatch on either prefix byte abandons the frame and scanning restarts
// with the following byte; the mismatched byte itself is not reconsidered as
// a frame start. Once "!B" has matched, the next two bytes are always taken
// as the command and edge.
type Parser struct {
	state parserState
	cmd   byte
}

// Feed consumes one byte. It returns a command and true when the byte
// completes a frame whose edge is a release. Press edges and incomplete
// frames return false.
func (p *Parser) Feed(b byte) (Command, bool) {
	switch p.state {
	case expectStart:
		if b == FrameStart {
			p.state = expectButton
		}
	case expectButton:
		if b == FrameButton {
			p.state = expectCommand
		} else {
			p.state = expectStart
		}
	case expectCommand:
		p.cmd = b
		p.state = expectEdge
	case expectEdge:
		p.state = expectStart
		if b == EdgeReleased {
			return decodeCommand(p.cmd), true
		}
	}
	return CommandUnknown, false
}

// Reset abandons any partially received frame.
func (p *Parser) Reset() {
	p.state = expectStart
	p.cmd = 0
}

// ParseFrames feeds every byte of data to a fresh parser and returns the
// release commands found, including CommandUnknown for unrecognised command bytes.
func ParseFrames(data []byte) []Command {
	var p Parser
	var cmds []Command
	for _, b := range data {
		if cmd, ok := p.Feed(b); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// FormatNowPlaying builds the outbound notice for a track file name.
func FormatNowPlaying(name string) []byte {
	display := track.DisplayName(name)
	msg := make([]byte, 0, len(NowPlayingPrefix)+len(display)+1)
	msg = append(msg, NowPlayingPrefix...)
	msg = append(msg, display...)
	msg = append(msg, '\n')
	return msg
}
