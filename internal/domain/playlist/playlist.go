// Package playlist provides the ordered track list the player cycles through.
package playlist

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/wavbox/internal/domain/track"
)

// ErrEmptyPlaylist is returned when a playlist would contain no tracks.
// Circular index arithmetic is undefined for zero tracks, so startup must stop here.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Playlist is the immutable, ordered list of tracks found at startup.
type Playlist struct {
	tracks []track.Track
}

// New creates a playlist from the given tracks.
func New(tracks []track.Track) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}
	cp := make([]track.Track, len(tracks))
	copy(cp, tracks)
	return &Playlist{tracks: cp}, nil
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// At returns the track at index i. It panics if i is out of range.
func (p *Playlist) At(i int) track.Track {
	return p.tracks[i]
}

// Names returns the file names of all tracks in order.
func (p *Playlist) Names() []string {
	names := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		names[i] = t.Name
	}
	return names
}

// DisplayNames returns the names of all tracks with the ".wav" suffix stripped.
func (p *Playlist) DisplayNames() []string {
	names := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		names[i] = t.DisplayName()
	}
	return names
}
