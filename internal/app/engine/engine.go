// Package engine runs the playback loop: select a track, open it, stream it
// to completion, then go idle and select again.
package engine

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/playback"
	"github.com/osa030/wavbox/internal/domain/track"
)

// OpenErrorText is shown on the display when the selected track cannot be opened.
const OpenErrorText = "file open error!"

// Phase is the engine's lifecycle state.
type Phase int32

const (
	PhaseIdle      Phase = iota // Between tracks
	PhaseStreaming              // A track is open and being played
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Opener opens a track for reading.
type Opener interface {
	Open(t track.Track) (io.ReadCloser, error)
}

// Control is polled by the waveform service while it streams.
type Control interface {
	// Paused reports whether output should be held.
	Paused() bool
	// Stopped reports whether the current stream should end now.
	Stopped() bool
}

// Waveform plays an open audio stream. Play blocks until the stream is
// exhausted, ctrl reports Stopped, or ctx is cancelled.
type Waveform interface {
	Play(ctx context.Context, r io.Reader, ctrl Control) error
}

// Notifier shows a short diagnostic to the user.
type Notifier interface {
	ShowError(msg string)
}

// Config holds engine configuration.
type Config struct {
	RetryDelay  time.Duration // Wait after a failed open before trying again
	SettleDelay time.Duration // Wait between opening a file and starting playback
}

// Engine is the top-level playback task. It is the only task that blocks for
// an unbounded time, inside Waveform.Play.
type Engine struct {
	state    *playback.State
	opener   Opener
	waveform Waveform
	notifier Notifier
	config   Config

	phase atomic.Int32
}

// New creates a new playback engine. notifier may be nil.
func New(state *playback.State, opener Opener, waveform Waveform, notifier Notifier, config Config) *Engine {
	return &Engine{
		state:    state,
		opener:   opener,
		waveform: waveform,
		notifier: notifier,
		config:   config,
	}
}

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase {
	return Phase(e.phase.Load())
}

// Run repeats Step until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	zlog.Info().Msgf("engine: started: tracks=%d", e.state.TrackCount())
	for {
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one Idle -> Streaming -> Idle cycle for the currently selected
// track. Open and playback failures are contained; the only error returned
// is the context's.
func (e *Engine) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx := e.state.CurrentIndex()
	t := e.state.Track(idx)

	f, err := e.opener.Open(t)
	if err != nil {
		zlog.Warn().Err(err).Msgf("engine: failed to open track: index=%d path=%s", idx, t.Path)
		if e.notifier != nil {
			e.notifier.ShowError(OpenErrorText)
		}
		return sleep(ctx, e.config.RetryDelay)
	}
	defer func() {
		if err := f.Close(); err != nil {
			zlog.Debug().Err(err).Msgf("engine: close failed: path=%s", t.Path)
		}
	}()

	if err := sleep(ctx, e.config.SettleDelay); err != nil {
		return err
	}

	playID := uuid.New().String()
	zlog.Info().Str("play_id", playID).Msgf("engine: streaming: index=%d track=%s", idx, t.Name)

	e.phase.Store(int32(PhaseStreaming))
	started := time.Now()
	err = e.waveform.Play(ctx, f, &trackControl{state: e.state, index: idx})
	e.phase.Store(int32(PhaseIdle))

	// Whatever ended the stream, the next track must be started explicitly.
	e.state.SetPlaying(false)

	if err != nil && ctx.Err() == nil {
		zlog.Error().Err(err).Str("play_id", playID).Msgf("engine: playback failed: track=%s", t.Name)
	} else {
		zlog.Debug().Str("play_id", playID).Msgf("engine: stream ended: track=%s elapsed=%v", t.Name, time.Since(started))
	}

	return ctx.Err()
}

// trackControl ties a stream's pause and stop decisions to the shared state.
type trackControl struct {
	state *playback.State
	index int
}

func (c *trackControl) Paused() bool {
	return !c.state.IsPlaying()
}

// Stopped ends the stream once another track is selected, so the next cycle
// picks the new selection up.
func (c *trackControl) Stopped() bool {
	return c.state.CurrentIndex() != c.index
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
