// Package sensor simulates the motion sensor used to seed shuffle.
package sensor

import (
	"math/rand/v2"
	"sync"

	"github.com/cockroachdb/errors"
)

// Accelerometer reports gravity readings for a device resting flat,
// with uniform noise of up to Noise g on each axis.
type Accelerometer struct {
	mu    sync.Mutex
	rng   *rand.Rand
	noise float64
}

// NewAccelerometer creates a simulated sensor seeded from seed.
func NewAccelerometer(noise float64, seed uint64) (*Accelerometer, error) {
	if noise < 0 {
		return nil, errors.Newf("noise must not be negative: %v", noise)
	}
	return &Accelerometer{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		noise: noise,
	}, nil
}

// ReadXYZGravity returns one reading in g.
func (a *Accelerometer) ReadXYZGravity() (x, y, z float64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jitter(), a.jitter(), 1 + a.jitter(), nil
}

func (a *Accelerometer) jitter() float64 {
	return (a.rng.Float64()*2 - 1) * a.noise
}
