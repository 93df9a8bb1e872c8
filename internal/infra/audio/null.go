package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// NullOutput consumes samples in real time and discards them. It stands in
// for the speaker when no sound device is available.
type NullOutput struct {
	mu    sync.Mutex
	mixer beep.Mixer
	once  sync.Once
	stop  chan struct{}
}

// NewNullOutput creates a discarding output.
func NewNullOutput() *NullOutput {
	return &NullOutput{stop: make(chan struct{})}
}

// Init starts pulling bufferSize samples per buffer period.
func (o *NullOutput) Init(rate beep.SampleRate, bufferSize int) error {
	o.once.Do(func() {
		go o.drain(rate, bufferSize)
	})
	return nil
}

func (o *NullOutput) drain(rate beep.SampleRate, bufferSize int) {
	ticker := time.NewTicker(rate.D(bufferSize))
	defer ticker.Stop()
	buf := make([][2]float64, bufferSize)
	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			o.mu.Lock()
			o.mixer.Stream(buf)
			o.mu.Unlock()
		}
	}
}

// Play adds s to the mix.
func (o *NullOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s)
	o.mu.Unlock()
}

// Clear removes every stream.
func (o *NullOutput) Clear() {
	o.mu.Lock()
	o.mixer.Clear()
	o.mu.Unlock()
}

// Lock blocks the drain loop.
func (o *NullOutput) Lock() { o.mu.Lock() }

// Unlock releases the drain loop.
func (o *NullOutput) Unlock() { o.mu.Unlock() }

// Close stops draining.
func (o *NullOutput) Close() {
	select {
	case <-o.stop:
	default:
		close(o.stop)
	}
}
