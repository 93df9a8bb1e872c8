// Package playback provides the shared playback state observed and mutated by every player task.
package playback

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/osa030/wavbox/internal/domain/playlist"
	"github.com/osa030/wavbox/internal/domain/track"
)

// ErrIndexOutOfRange is returned when an index outside [0, TrackCount) is stored.
var ErrIndexOutOfRange = errors.New("track index out of range")

// State is the single shared playback record.
//
// Every field is independently atomic: a reader never sees a torn value and
// CurrentIndex is always within [0, TrackCount). Fields are NOT updated
// together. A reader that loads CurrentIndex and then IsPlaying may observe a
// combination that never existed at a single instant, and must tolerate that.
type State struct {
	playlist *playlist.Playlist // immutable after construction

	index   atomic.Int64
	playing atomic.Bool
}

// NewState creates the shared state for a non-empty playlist.
// The current index starts at 0 and playback starts paused.
func NewState(p *playlist.Playlist) *State {
	return &State{playlist: p}
}

// TrackCount returns the number of tracks. It never changes.
func (s *State) TrackCount() int {
	return s.playlist.Len()
}

// TrackNames returns a copy of the ordered track names.
func (s *State) TrackNames() []string {
	return s.playlist.Names()
}

// Track returns the track at index i.
func (s *State) Track(i int) track.Track {
	return s.playlist.At(i)
}

// CurrentIndex returns the selected track index.
func (s *State) CurrentIndex() int {
	return int(s.index.Load())
}

// CurrentTrack returns the selected track.
func (s *State) CurrentTrack() track.Track {
	return s.playlist.At(s.CurrentIndex())
}

// SetIndex stores a new selected index.
func (s *State) SetIndex(i int) error {
	if i < 0 || i >= s.TrackCount() {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, track count %d", i, s.TrackCount())
	}
	s.index.Store(int64(i))
	return nil
}

// UpdateIndex atomically replaces the current index with fn(current, trackCount)
// and returns the stored value. fn may be called more than once under contention
// and must return a value within [0, trackCount).
func (s *State) UpdateIndex(fn func(current, count int) int) (int, error) {
	n := s.TrackCount()
	for {
		cur := s.index.Load()
		next := fn(int(cur), n)
		if next < 0 || next >= n {
			return int(cur), errors.Wrapf(ErrIndexOutOfRange, "index %d, track count %d", next, n)
		}
		if s.index.CompareAndSwap(cur, int64(next)) {
			return next, nil
		}
	}
}

// IsPlaying returns the play/pause flag.
func (s *State) IsPlaying() bool {
	return s.playing.Load()
}

// SetPlaying stores the play/pause flag.
func (s *State) SetPlaying(playing bool) {
	s.playing.Store(playing)
}

// TogglePlaying atomically inverts the play/pause flag and returns the new value.
func (s *State) TogglePlaying() bool {
	for {
		cur := s.playing.Load()
		if s.playing.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Status is a point-in-time view of the state, assembled field by field.
type Status struct {
	Index   int
	Playing bool
	Track   track.Track
}

// Snapshot reads each field once. The result is not a consistent cross-field
// snapshot; see State.
func (s *State) Snapshot() Status {
	i := s.CurrentIndex()
	return Status{
		Index:   i,
		Playing: s.IsPlaying(),
		Track:   s.playlist.At(i),
	}
}
