// Package visualizer drives the four level indicators from the audio output level.
package visualizer

import (
	"context"
	"time"

	"github.com/osa030/wavbox/internal/app/playback"
)

// IndicatorCount is the number of level indicators.
const IndicatorCount = 4

// Tier thresholds on the normalised level.
const (
	thresholdTier2 = 0.825
	thresholdTier3 = 1.65
	thresholdTier4 = 2.47
)

// LevelSource reports the instantaneous output level in [0, 1].
type LevelSource interface {
	Level() float64
}

// Indicators is a bank of on/off outputs.
type Indicators interface {
	Set(i int, on bool)
}

// Config holds sampler configuration.
type Config struct {
	PollInterval time.Duration
	Midpoint     float64 // Raw level subtracted before scaling
	Scale        float64 // Multiplier applied after subtracting Midpoint
}

// Sampler lights 1 to 4 indicators according to the output level while a track plays.
type Sampler struct {
	state      *playback.State
	source     LevelSource
	indicators Indicators
	config     Config
}

// NewSampler creates a new sampler.
func NewSampler(state *playback.State, source LevelSource, indicators Indicators, config Config) *Sampler {
	if config.PollInterval <= 0 {
		config.PollInterval = 50 * time.Millisecond
	}
	if config.Scale == 0 {
		config.Midpoint = 0.25
		config.Scale = 3.3
	}
	return &Sampler{
		state:      state,
		source:     source,
		indicators: indicators,
		config:     config,
	}
}

// Tier maps a normalised level to the number of indicators to light, 1 to 4.
func Tier(level float64) int {
	switch {
	case level < thresholdTier2:
		return 1
	case level < thresholdTier3:
		return 2
	case level < thresholdTier4:
		return 3
	default:
		return 4
	}
}

// Normalize converts a raw [0, 1] level to the tier scale.
func (s *Sampler) Normalize(raw float64) float64 {
	return (raw - s.config.Midpoint) * s.config.Scale
}

// Sample reads the level once and updates the indicators. It does nothing
// and returns 0 while playback is paused.
func (s *Sampler) Sample() int {
	if !s.state.IsPlaying() {
		return 0
	}
	tier := Tier(s.Normalize(s.source.Level()))
	s.Show(tier)
	return tier
}

// Show lights the first tier indicators and turns the rest off.
func (s *Sampler) Show(tier int) {
	for i := 0; i < IndicatorCount; i++ {
		s.indicators.Set(i, i < tier)
	}
}

// Run samples until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sample()
		}
	}
}
