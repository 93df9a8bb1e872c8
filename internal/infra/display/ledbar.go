package display

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

const (
	ledOn    = "[*]"
	ledOff   = "[ ]"
	ledPitch = 4
)

// Writer draws text at a screen position.
type Writer interface {
	WriteAt(col, row int, text string) error
}

// LEDBar renders a bank of on/off indicators on one screen row.
// Only changed cells are redrawn.
type LEDBar struct {
	mu     sync.Mutex
	screen Writer
	row    int
	state  []bool
}

// NewLEDBar creates a bank of count indicators on row, all off.
func NewLEDBar(screen Writer, row, count int) *LEDBar {
	return &LEDBar{
		screen: screen,
		row:    row,
		state:  make([]bool, count),
	}
}

// Draw paints every cell.
func (b *LEDBar) Draw() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, on := range b.state {
		b.drawLocked(i, on)
	}
}

// Set turns indicator i on or off. Out-of-range indices are ignored.
func (b *LEDBar) Set(i int, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.state) || b.state[i] == on {
		return
	}
	b.state[i] = on
	b.drawLocked(i, on)
}

// Get reports whether indicator i is on.
func (b *LEDBar) Get(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.state) {
		return false
	}
	return b.state[i]
}

func (b *LEDBar) drawLocked(i int, on bool) {
	cell := ledOff
	if on {
		cell = ledOn
	}
	if err := b.screen.WriteAt(i*ledPitch, b.row, cell); err != nil {
		zlog.Warn().Msgf("display: failed to draw indicator %d: %v", i, err)
	}
}
