// Package transport provides the byte links used by the remote control.
package transport

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/infra/config"
)

var (
	// ErrNoData is returned by ReadByte when no byte is buffered.
	ErrNoData = errors.New("no data available")
	// ErrNotConnected is returned when the peer is gone.
	ErrNotConnected = errors.New("transport not connected")
	// ErrUnsupportedType is returned for an unknown transport type.
	ErrUnsupportedType = errors.New("unsupported transport type")
)

// Transport is a non-blocking, byte-oriented, bidirectional link.
type Transport interface {
	Readable() bool
	ReadByte() (byte, error)
	Writable() bool
	WriteByte(b byte) error
	Close() error
}

// New creates the transport selected by cfg.
func New(cfg config.TransportConfig) (Transport, error) {
	zlog.Debug().Msgf("creating transport: type=%s settings=%+v", cfg.Type, cfg.Settings)
	switch cfg.Type {
	case config.TransportSerial:
		return OpenSerial(cfg.Settings)
	case config.TransportTCP:
		return ListenTCP(cfg.Settings)
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "type %q", cfg.Type)
	}
}

func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
