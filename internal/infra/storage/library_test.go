package storage

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wavbox/internal/domain/track"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0644))
	}
	return fs
}

func TestLibrary_Scan(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/sd/myMusic/c.wav":         "c",
		"/sd/myMusic/a.wav":         "a",
		"/sd/myMusic/B.WAV":         "b",
		"/sd/myMusic/notes.txt":     "n",
		"/sd/myMusic/sub/inner.wav": "i",
		"/sd/other/x.wav":           "x",
	})

	tests := []struct {
		name       string
		extensions []string
		want       []string
	}{
		{
			name: "every regular file",
			want: []string{"B.WAV", "a.wav", "c.wav", "notes.txt"},
		},
		{
			name:       "wav only, case insensitive",
			extensions: []string{".wav"},
			want:       []string{"B.WAV", "a.wav", "c.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := NewLibrary(fs, Config{Root: "/sd", Dir: "myMusic", Extensions: tt.extensions})
			tracks, err := lib.Scan()
			require.NoError(t, err)

			names := make([]string, len(tracks))
			for i, tr := range tracks {
				names[i] = tr.Name
				assert.Equal(t, "/sd/myMusic/"+tr.Name, tr.Path)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestLibrary_ScanEmptyDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sd/myMusic", 0755))

	tracks, err := NewLibrary(fs, Config{Root: "/sd", Dir: "myMusic"}).Scan()
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestLibrary_ScanMissingDirectory(t *testing.T) {
	_, err := NewLibrary(afero.NewMemMapFs(), Config{Root: "/sd", Dir: "myMusic"}).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/sd/myMusic")
}

func TestLibrary_Open(t *testing.T) {
	fs := newFs(t, map[string]string{"/sd/myMusic/a.wav": "RIFF"})
	lib := NewLibrary(fs, Config{Root: "/sd", Dir: "myMusic"})

	t.Run("by resolved path", func(t *testing.T) {
		rc, err := lib.Open(track.Track{Name: "a.wav", Path: "/sd/myMusic/a.wav"})
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "RIFF", string(data))
	})

	t.Run("by name only", func(t *testing.T) {
		rc, err := lib.Open(track.Track{Name: "a.wav"})
		require.NoError(t, err)
		assert.NoError(t, rc.Close())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := lib.Open(track.Track{Name: "gone.wav"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone.wav")
	})
}

func TestLibrary_Path(t *testing.T) {
	lib := NewLibrary(afero.NewMemMapFs(), Config{Root: "/sd", Dir: "myMusic"})
	assert.Equal(t, "/sd/myMusic/song.wav", lib.Path("song.wav"))
	assert.Equal(t, "/sd/myMusic", lib.Dir())
}
