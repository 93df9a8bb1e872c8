//go:build (linux && cgo) || windows || darwin

package audio

import (
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// speakerOutput drives the system sound device.
type speakerOutput struct{}

func defaultOutput() output {
	return speakerOutput{}
}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
