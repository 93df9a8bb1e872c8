// Package input maps button releases and remote commands onto playback actions.
package input

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/playback"
)

// shuffleScale moves the sensor noise in the 5th decimal place into the integer part.
const shuffleScale = 100000

// ErrInvalidReading is returned when the motion sensor yields a non-finite value.
var ErrInvalidReading = errors.New("invalid motion sensor reading")

// MotionSensor reads the three gravity axes of an accelerometer.
type MotionSensor interface {
	ReadXYZGravity() (x, y, z float64, err error)
}

// Indicators is a bank of four on/off outputs.
type Indicators interface {
	Set(i int, on bool)
}

// Config holds controller configuration.
type Config struct {
	QueueSize      int  // Capacity of the action queue
	DiagnosticLEDs bool // Flip indicator n whenever action n runs
}

// Controller owns every write to the track index and the play/pause flag
// except the engine's end-of-track reset.
//
// Actions arrive through Submit and are applied one at a time by Run, so
// button callbacks and the remote link never mutate the state themselves.
type Controller struct {
	state      *playback.State
	sensor     MotionSensor
	indicators Indicators
	config     Config

	actions chan playback.Action
	diag    [4]bool // only touched by the Run goroutine
}

// NewController creates a new input controller.
func NewController(state *playback.State, sensor MotionSensor, indicators Indicators, config Config) *Controller {
	if config.QueueSize <= 0 {
		config.QueueSize = 16
	}
	return &Controller{
		state:      state,
		sensor:     sensor,
		indicators: indicators,
		config:     config,
		actions:    make(chan playback.Action, config.QueueSize),
	}
}

// Advance selects the next track, wrapping to the first after the last.
func (c *Controller) Advance() int {
	next, _ := c.state.UpdateIndex(func(cur, n int) int {
		return (cur + 1) % n
	})
	return next
}

// Retreat selects the previous track, wrapping to the last before the first.
func (c *Controller) Retreat() int {
	prev, _ := c.state.UpdateIndex(func(cur, n int) int {
		return (cur - 1 + n) % n
	})
	return prev
}

// TogglePlay flips the play/pause flag and returns the new value.
func (c *Controller) TogglePlay() bool {
	return c.state.TogglePlaying()
}

// Shuffle selects a track derived from accelerometer noise.
//
// This is best-effort randomness only: the result depends on the low-order
// digits of three gravity readings and is neither uniform nor unpredictable.
// When the sensor fails the selection is left unchanged.
func (c *Controller) Shuffle() (int, error) {
	x, y, z, err := c.sensor.ReadXYZGravity()
	if err != nil {
		return c.state.CurrentIndex(), errors.Wrap(err, "failed to read motion sensor")
	}
	sum := x + y + z
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return c.state.CurrentIndex(), errors.Wrapf(ErrInvalidReading, "x=%v y=%v z=%v", x, y, z)
	}
	seed := int64(shuffleScale * sum)

	return c.state.UpdateIndex(func(_, n int) int {
		r := int(seed % int64(n))
		if r < 0 {
			r += n
		}
		return r
	})
}

// Apply runs a single action against the state.
func (c *Controller) Apply(a playback.Action) {
	switch a {
	case playback.ActionNext:
		idx := c.Advance()
		zlog.Debug().Msgf("input: next: index=%d", idx)
	case playback.ActionPrevious:
		idx := c.Retreat()
		zlog.Debug().Msgf("input: previous: index=%d", idx)
	case playback.ActionTogglePlay:
		playing := c.TogglePlay()
		zlog.Debug().Msgf("input: toggle play: playing=%t", playing)
	case playback.ActionShuffle:
		idx, err := c.Shuffle()
		if err != nil {
			zlog.Warn().Err(err).Msg("input: shuffle skipped")
			break
		}
		zlog.Debug().Msgf("input: shuffle: index=%d", idx)
	default:
		zlog.Warn().Msgf("input: ignoring unknown action %d", int(a))
		return
	}

	c.flipDiagnostic(a)
}

// flipDiagnostic toggles the indicator matching the action.
func (c *Controller) flipDiagnostic(a playback.Action) {
	if !c.config.DiagnosticLEDs || c.indicators == nil {
		return
	}
	var led int
	switch a {
	case playback.ActionNext:
		led = 0
	case playback.ActionPrevious:
		led = 1
	case playback.ActionTogglePlay:
		led = 2
	case playback.ActionShuffle:
		led = 3
	}
	c.diag[led] = !c.diag[led]
	c.indicators.Set(led, c.diag[led])
}

// Submit queues an action without blocking.
// It returns false when the queue is full and the action was dropped.
func (c *Controller) Submit(a playback.Action) bool {
	select {
	case c.actions <- a:
		return true
	default:
		zlog.Warn().Msgf("input: action queue full, dropping %s", a)
		return false
	}
}

// ButtonHandler returns the release-edge callback for a button.
func (c *Controller) ButtonHandler(b Button) func() {
	a := b.Action()
	return func() {
		c.Submit(a)
	}
}

// Run applies queued actions until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-c.actions:
			c.Apply(a)
		}
	}
}
