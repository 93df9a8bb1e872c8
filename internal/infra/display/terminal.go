// Package display provides character screens and indicator banks.
package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

const (
	escClear      = "\x1b[2J\x1b[H"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// Terminal is a character screen drawn with ANSI cursor addressing.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	style lipgloss.Style
	rows  int
}

// NewTerminal creates a screen writing to w. rows is the number of lines
// the screen occupies; Close moves the cursor below them.
func NewTerminal(w io.Writer, rows int) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		w:     w,
		style: r.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0")),
		rows:  rows,
	}
}

// WriteAt draws text at the zero-based column and row.
func (t *Terminal) WriteAt(col, row int, text string) error {
	if col < 0 || row < 0 {
		return errors.Newf("position out of range: col=%d row=%d", col, row)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.w, "\x1b[%d;%dH%s", row+1, col+1, t.style.Render(text)); err != nil {
		return errors.Wrap(err, "failed to write to terminal")
	}
	return nil
}

// Clear blanks the screen and hides the cursor.
func (t *Terminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.w, escClear+escHideCursor); err != nil {
		return errors.Wrap(err, "failed to clear terminal")
	}
	return nil
}

// Close restores the cursor below the drawn area.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.w, "\x1b[%d;1H%s\n", t.rows+1, escShowCursor); err != nil {
		return errors.Wrap(err, "failed to restore terminal")
	}
	return nil
}
