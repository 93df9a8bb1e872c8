package display

import (
	zlog "github.com/rs/zerolog/log"
)

// Log is a headless screen that records every draw in the log.
type Log struct{}

// NewLog creates a log screen.
func NewLog() *Log {
	return &Log{}
}

// WriteAt logs the text and its position.
func (l *Log) WriteAt(col, row int, text string) error {
	zlog.Info().Int("col", col).Int("row", row).Msgf("display: %q", text)
	return nil
}

// Clear logs the clear.
func (l *Log) Clear() error {
	zlog.Info().Msg("display: clear")
	return nil
}

// Close is a no-op.
func (l *Log) Close() error {
	return nil
}
