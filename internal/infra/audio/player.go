// Package audio plays wav streams through the sound device.
package audio

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/engine"
)

// ErrUnsupportedFormat is returned when a stream is not a decodable wav file.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// restLevel is the level reported while nothing is playing.
const restLevel = 0.25

// output is the sound device the player mixes into.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// Config holds player configuration.
type Config struct {
	SampleRate  int
	ControlPoll time.Duration
}

// Player streams wav data and reports the current output level.
type Player struct {
	out      output
	rate     beep.SampleRate
	poll     time.Duration
	initOnce sync.Once
	initErr  error
	level    atomic.Uint64
}

// NewPlayer creates a player for the default sound device.
func NewPlayer(config Config) *Player {
	return newPlayer(defaultOutput(), config)
}

func newPlayer(out output, config Config) *Player {
	if config.SampleRate <= 0 {
		config.SampleRate = 44100
	}
	if config.ControlPoll <= 0 {
		config.ControlPoll = 25 * time.Millisecond
	}
	p := &Player{
		out:  out,
		rate: beep.SampleRate(config.SampleRate),
		poll: config.ControlPoll,
	}
	p.setLevel(restLevel)
	return p
}

func (p *Player) init() error {
	p.initOnce.Do(func() {
		bufferSize := p.rate.N(time.Second / 10)
		if err := p.out.Init(p.rate, bufferSize); err != nil {
			zlog.Warn().Msgf("audio: sound device unavailable, output discarded: %v", err)
			p.out = NewNullOutput()
			p.initErr = p.out.Init(p.rate, bufferSize)
			return
		}
		zlog.Info().Msgf("audio: sound device initialized: rate=%d", p.rate)
	})
	return p.initErr
}

// Level returns the most recent output level in [0, 1].
func (p *Player) Level() float64 {
	return math.Float64frombits(p.level.Load())
}

func (p *Player) setLevel(v float64) {
	p.level.Store(math.Float64bits(v))
}

// Play decodes r and streams it until the data ends, ctrl reports Stopped,
// or ctx is cancelled. Pause is applied from ctrl while streaming.
func (p *Player) Play(ctx context.Context, r io.Reader, ctrl engine.Control) error {
	if err := p.init(); err != nil {
		return errors.Wrap(err, "failed to initialize sound device")
	}

	streamer, format, err := wav.Decode(r)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedFormat, "%v", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.rate {
		zlog.Debug().Msgf("audio: resampling %d -> %d", format.SampleRate, p.rate)
		s = beep.Resample(4, format.SampleRate, p.rate, s)
	}

	ctl := &beep.Ctrl{Streamer: &levelTap{s: s, set: p.setLevel}, Paused: ctrl.Paused()}
	done := make(chan struct{})
	p.out.Play(beep.Seq(ctl, beep.Callback(func() { close(done) })))
	defer p.setLevel(restLevel)

	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			p.detach(ctl)
			return ctx.Err()
		case <-ticker.C:
			if ctrl.Stopped() {
				p.detach(ctl)
				return nil
			}
			paused := ctrl.Paused()
			p.out.Lock()
			ctl.Paused = paused
			p.out.Unlock()
		}
	}
}

// detach ends the stream so the device stops pulling from it.
func (p *Player) detach(ctl *beep.Ctrl) {
	p.out.Lock()
	ctl.Streamer = nil
	p.out.Unlock()
}

// levelTap reports the peak mono amplitude of each chunk it passes through.
type levelTap struct {
	s   beep.Streamer
	set func(float64)
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	if n > 0 {
		t.set(chunkLevel(samples[:n]))
	}
	return n, ok
}

func (t *levelTap) Err() error {
	return t.s.Err()
}

// chunkLevel maps the peak amplitude of samples onto [restLevel, 1].
func chunkLevel(samples [][2]float64) float64 {
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs((s[0]+s[1])/2))
	}
	peak = math.Min(peak, 1)
	return restLevel + peak*(1-restLevel)
}
