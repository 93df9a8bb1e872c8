// Package storage enumerates and opens track files in the music directory.
package storage

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/osa030/wavbox/internal/domain/track"
)

// Config locates the music directory.
type Config struct {
	Root       string   // Mount root, e.g. "/sd"
	Dir        string   // Subdirectory under Root, e.g. "myMusic"
	Extensions []string // Accepted file extensions; empty accepts every regular file
}

// Library is a directory of track files.
type Library struct {
	fs     afero.Fs
	config Config
}

// NewLibrary creates a library backed by fs.
func NewLibrary(fs afero.Fs, config Config) *Library {
	return &Library{fs: fs, config: config}
}

// Dir returns the music directory path.
func (l *Library) Dir() string {
	return filepath.Join(l.config.Root, l.config.Dir)
}

// Path resolves a track name to <root>/<dir>/<name>.
func (l *Library) Path(name string) string {
	return filepath.Join(l.config.Root, l.config.Dir, name)
}

// Scan lists the tracks in the music directory in name order.
// Subdirectories and files with an unaccepted extension are skipped.
func (l *Library) Scan() ([]track.Track, error) {
	dir := l.Dir()
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read music directory %s", dir)
	}

	tracks := make([]track.Track, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !l.accepts(e.Name()) {
			continue
		}
		tracks = append(tracks, track.Track{
			Name: e.Name(),
			Path: l.Path(e.Name()),
		})
	}

	zlog.Info().Msgf("storage: scanned %s: tracks=%d skipped=%d", dir, len(tracks), len(entries)-len(tracks))
	return tracks, nil
}

// Open opens a track for reading.
func (l *Library) Open(t track.Track) (io.ReadCloser, error) {
	path := t.Path
	if path == "" {
		path = l.Path(t.Name)
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open track %s", path)
	}
	return f, nil
}

func (l *Library) accepts(name string) bool {
	if len(l.config.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range l.config.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
