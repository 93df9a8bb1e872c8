package playlist

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wavbox/internal/domain/track"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		tracks  []track.Track
		wantErr error
		wantLen int
	}{
		{
			name:    "nil tracks",
			tracks:  nil,
			wantErr: ErrEmptyPlaylist,
		},
		{
			name:    "empty tracks",
			tracks:  []track.Track{},
			wantErr: ErrEmptyPlaylist,
		},
		{
			name:    "single track",
			tracks:  []track.Track{{Name: "a.wav"}},
			wantLen: 1,
		},
		{
			name:    "multiple tracks",
			tracks:  []track.Track{{Name: "a.wav"}, {Name: "b.wav"}, {Name: "c.wav"}},
			wantLen: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.tracks)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, p.Len())
		})
	}
}

func TestPlaylist_Names(t *testing.T) {
	p, err := New([]track.Track{
		{Name: "a.wav"},
		{Name: "b.wav"},
		{Name: "notes.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.wav", "b.wav", "notes.txt"}, p.Names())
	assert.Equal(t, []string{"a", "b", "notes.txt"}, p.DisplayNames())
}

func TestPlaylist_CopiesInput(t *testing.T) {
	tracks := []track.Track{{Name: "a.wav"}, {Name: "b.wav"}}
	p, err := New(tracks)
	require.NoError(t, err)

	tracks[0].Name = "changed.wav"
	assert.Equal(t, "a.wav", p.At(0).Name)
}
