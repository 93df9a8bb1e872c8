package transport

import (
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// SerialConfig configures a UART link.
type SerialConfig struct {
	Port          string `mapstructure:"port" validate:"required"`
	BaudRate      int    `mapstructure:"baud_rate" default:"9600" validate:"gt=0"`
	ReadTimeoutMs int    `mapstructure:"read_timeout_ms" default:"100" validate:"gte=1"`
}

// OpenSerial opens the serial port described by settings.
func OpenSerial(settings map[string]any) (*Stream, error) {
	var cfg SerialConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "invalid serial settings")
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", cfg.Port)
	}
	if err := port.SetReadTimeout(time.Duration(cfg.ReadTimeoutMs) * time.Millisecond); err != nil {
		_ = port.Close()
		return nil, errors.Wrap(err, "failed to set read timeout")
	}

	zlog.Info().Msgf("transport: serial port opened: port=%s baud=%d", cfg.Port, cfg.BaudRate)
	return NewStream(&timeoutPort{port}), nil
}

// timeoutPort turns read timeouts (0, nil) into retries so the stream
// only ends when the port is closed.
type timeoutPort struct {
	serial.Port
}

func (p *timeoutPort) Read(buf []byte) (int, error) {
	for {
		n, err := p.Port.Read(buf)
		if n > 0 || err != nil {
			return n, err
		}
	}
}
