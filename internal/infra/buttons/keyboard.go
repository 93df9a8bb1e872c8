// Package buttons maps keyboard keys onto the four push buttons.
package buttons

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/osa030/wavbox/internal/app/input"
)

// keyInterrupt is Ctrl-C as delivered in raw mode.
const keyInterrupt = 0x03

// KeyMap maps a key byte to a button.
type KeyMap map[byte]input.Button

// ParseKeyMap converts single-character keys and button names into a KeyMap.
func ParseKeyMap(keys map[string]string) (KeyMap, error) {
	m := make(KeyMap, len(keys))
	for key, name := range keys {
		if len(key) != 1 {
			return nil, errors.Newf("key must be a single byte: %q", key)
		}
		b, ok := parseButton(name)
		if !ok {
			return nil, errors.Newf("unknown button %q for key %q", name, key)
		}
		m[key[0]] = b
	}
	return m, nil
}

func parseButton(name string) (input.Button, bool) {
	for _, b := range input.Buttons {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// Keyboard reads key presses and reports them as button releases.
type Keyboard struct {
	in   io.Reader
	keys KeyMap
}

// NewKeyboard creates a keyboard reading from in.
func NewKeyboard(in io.Reader, keys KeyMap) *Keyboard {
	return &Keyboard{in: in, keys: keys}
}

// Listen calls press for every mapped key until ctx is cancelled or the
// input ends. Ctrl-C calls interrupt. A terminal input is switched to raw
// mode for the duration.
func (k *Keyboard) Listen(ctx context.Context, press func(input.Button), interrupt func()) error {
	if f, ok := k.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		old, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return errors.Wrap(err, "failed to set raw mode")
		}
		defer func() {
			if err := term.Restore(int(f.Fd()), old); err != nil {
				zlog.Warn().Msgf("buttons: failed to restore terminal: %v", err)
			}
		}()
	}

	keyCh := make(chan byte)
	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := k.in.Read(buf)
			if n > 0 {
				select {
				case keyCh <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				zlog.Debug().Msg("buttons: input closed")
				return nil
			}
			return errors.Wrap(err, "failed to read key")
		case key := <-keyCh:
			if key == keyInterrupt {
				zlog.Info().Msg("buttons: interrupt")
				if interrupt != nil {
					interrupt()
				}
				continue
			}
			b, ok := k.keys[key]
			if !ok {
				zlog.Debug().Msgf("buttons: unmapped key 0x%02x", key)
				continue
			}
			zlog.Debug().Msgf("buttons: %s released", b)
			press(b)
		}
	}
}
