// Package display renders the track menu and playback footer on a character display.
package display

import (
	"context"
	"fmt"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/playback"
)

// Screen layout, in character cells.
const (
	RowHeader     = 0
	RowFirstTrack = 1
	RowNowPlaying = 12
	RowTrackName  = 13
	RowStatus     = 14
	RowIndicators = 15
	ScreenRows    = 16
	ColMarker     = 0
	ColTrackName  = 3

	// MenuRows is how many tracks fit between the header and the footer.
	MenuRows = RowNowPlaying - RowFirstTrack
)

// Fixed display strings.
const (
	HeaderText     = "Song List: "
	NowPlayingText = "NOW PLAYING:"
	StatusPlaying  = "STATUS: PLAYING"
	StatusPaused   = "STATUS: PAUSED "
	Marker         = "->"
	MarkerBlank    = "  "
	minLineWidth   = 16
)

// Screen is a character display addressed by column and row.
type Screen interface {
	WriteAt(col, row int, text string) error
	Clear() error
}

// Config holds renderer configuration.
type Config struct {
	PollInterval time.Duration
	OnInit       func() // Called after Init redraws the screen, for overlays sharing it
}

// Renderer is the only writer of the menu and footer. It polls the state and
// redraws just the lines whose source value changed since the last pass.
type Renderer struct {
	state  *playback.State
	screen Screen
	config Config

	width       int
	lastIndex   int
	lastPlaying bool
}

// NewRenderer creates a new renderer.
func NewRenderer(state *playback.State, screen Screen, config Config) *Renderer {
	if config.PollInterval <= 0 {
		config.PollInterval = 50 * time.Millisecond
	}
	width := minLineWidth
	for i := 0; i < state.TrackCount(); i++ {
		if n := len(state.Track(i).DisplayName()); n > width {
			width = n
		}
	}
	return &Renderer{
		state:  state,
		screen: screen,
		config: config,
		width:  width,
	}
}

// Init clears the screen and draws the track menu and the footer.
func (r *Renderer) Init() {
	if err := r.screen.Clear(); err != nil {
		zlog.Debug().Err(err).Msg("display: clear failed")
	}

	r.write(0, RowHeader, HeaderText)
	for i := 0; i < r.state.TrackCount() && i < MenuRows; i++ {
		r.write(ColTrackName, RowFirstTrack+i, r.state.Track(i).DisplayName())
	}

	idx := r.state.CurrentIndex()
	r.drawSelection(idx)
	r.write(0, RowStatus, StatusPaused)

	r.lastIndex = idx
	r.lastPlaying = false

	if r.config.OnInit != nil {
		r.config.OnInit()
	}
}

// Refresh compares the live state with the last rendered one and redraws
// only what changed. It returns true if anything was written.
func (r *Renderer) Refresh() bool {
	changed := false

	if idx := r.state.CurrentIndex(); idx != r.lastIndex {
		r.markerAt(r.lastIndex, MarkerBlank)
		r.drawSelection(idx)
		r.lastIndex = idx
		changed = true
	}

	if playing := r.state.IsPlaying(); playing != r.lastPlaying {
		if playing {
			r.write(0, RowStatus, StatusPlaying)
		} else {
			r.write(0, RowStatus, StatusPaused)
		}
		r.lastPlaying = playing
		changed = true
	}

	return changed
}

// ShowError replaces the "NOW PLAYING" line with a diagnostic. The line is
// restored the next time the selection changes.
func (r *Renderer) ShowError(msg string) {
	r.write(0, RowNowPlaying, r.pad(msg))
}

// Run draws the initial screen and refreshes it until ctx is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	r.Init()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Refresh()
		}
	}
}

func (r *Renderer) drawSelection(idx int) {
	r.write(0, RowNowPlaying, r.pad(NowPlayingText))
	r.write(0, RowTrackName, r.pad(r.state.Track(idx).DisplayName()))
	r.markerAt(idx, Marker)
}

func (r *Renderer) markerAt(idx int, marker string) {
	if idx < 0 || idx >= MenuRows {
		return
	}
	r.write(ColMarker, RowFirstTrack+idx, marker)
}

func (r *Renderer) pad(s string) string {
	return fmt.Sprintf("%-*s", r.width, s)
}

// write sends one update to the screen. Failures are logged and skipped so a
// flaky display never stalls the refresh loop.
func (r *Renderer) write(col, row int, text string) {
	if err := r.screen.WriteAt(col, row, text); err != nil {
		zlog.Debug().Err(err).Msgf("display: write failed: col=%d row=%d", col, row)
	}
}
