// Package track provides the Track domain entity.
package track

import "strings"

// WavSuffix is stripped from file names before they are shown to a user.
const WavSuffix = ".wav"

// Track represents one playable audio file in the music directory.
type Track struct {
	Name string // File name within the music directory (e.g. "song.wav")
	Path string // Resolved path: <root>/<dir>/<name>
}

// DisplayName returns the track name without its ".wav" suffix.
func (t Track) DisplayName() string {
	return DisplayName(t.Name)
}

// DisplayName strips a trailing ".wav" from a file name.
// Names without the suffix are returned unchanged.
func DisplayName(name string) string {
	return strings.TrimSuffix(name, WavSuffix)
}
