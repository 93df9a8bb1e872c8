package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "wav suffix stripped",
			input:    "song.wav",
			expected: "song",
		},
		{
			name:     "no suffix",
			input:    "song",
			expected: "song",
		},
		{
			name:     "other extension kept",
			input:    "song.mp3",
			expected: "song.mp3",
		},
		{
			name:     "only trailing suffix stripped",
			input:    "a.wav.wav",
			expected: "a.wav",
		},
		{
			name:     "case sensitivity",
			input:    "SONG.WAV",
			expected: "SONG.WAV",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.input))
		})
	}
}

func TestTrack_DisplayName(t *testing.T) {
	tr := Track{Name: "intro.wav", Path: "/sd/myMusic/intro.wav"}
	assert.Equal(t, "intro", tr.DisplayName())
}
