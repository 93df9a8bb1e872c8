package remote

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/playback"
)

// maxReadPerCycle bounds how many bytes one poll consumes.
const maxReadPerCycle = 64

// Transport is a non-blocking byte link to the remote control.
type Transport interface {
	Readable() bool
	ReadByte() (byte, error)
	Writable() bool
	WriteByte(b byte) error
}

// Dispatcher accepts decoded actions.
type Dispatcher interface {
	Submit(a playback.Action) bool
}

// Config holds link configuration.
type Config struct {
	PollInterval time.Duration
}

// Link pushes "now playing" notices and turns received frames into actions.
type Link struct {
	state      *playback.State
	transport  Transport
	dispatcher Dispatcher
	config     Config

	parser   Parser
	lastSent int
}

// NewLink creates a remote link. The first track is treated as already
// announced, so nothing is sent until the selection changes.
func NewLink(state *playback.State, transport Transport, dispatcher Dispatcher, config Config) *Link {
	if config.PollInterval <= 0 {
		config.PollInterval = 50 * time.Millisecond
	}
	return &Link{
		state:      state,
		transport:  transport,
		dispatcher: dispatcher,
		config:     config,
	}
}

// Poll runs a single link cycle: announce a changed selection, then decode
// whatever bytes are waiting.
func (l *Link) Poll() {
	l.announce()
	l.receive()
}

func (l *Link) announce() {
	if !l.transport.Writable() {
		return
	}
	idx := l.state.CurrentIndex()
	if idx == l.lastSent {
		return
	}

	msg := FormatNowPlaying(l.state.Track(idx).Name)
	for _, b := range msg {
		if err := l.transport.WriteByte(b); err != nil {
			zlog.Debug().Err(err).Msg("remote: now playing notice aborted")
			return
		}
	}
	l.lastSent = idx
	zlog.Debug().Msgf("remote: sent now playing: index=%d", idx)
}

func (l *Link) receive() {
	for i := 0; i < maxReadPerCycle && l.transport.Readable(); i++ {
		b, err := l.transport.ReadByte()
		if err != nil {
			zlog.Debug().Err(err).Msg("remote: read failed")
			l.parser.Reset()
			return
		}
		cmd, ok := l.parser.Feed(b)
		if !ok {
			continue
		}
		action, ok := cmd.Action()
		if !ok {
			zlog.Debug().Msg("remote: ignoring unknown command")
			continue
		}
		zlog.Debug().Msgf("remote: received %s", cmd)
		l.dispatcher.Submit(action)
	}
}

// Run polls the link until ctx is cancelled.
func (l *Link) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.config.PollInterval)
	defer ticker.Stop()

	for {
		l.Poll()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
