// Package config provides configuration loading from YAML files.
package config

import (
	"io/fs"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Transport types.
const (
	TransportNone   = "none"
	TransportSerial = "serial"
	TransportTCP    = "tcp"
)

// Display types.
const (
	DisplayTerminal = "terminal"
	DisplayLog      = "log"
)

// Config represents the application configuration.
type Config struct {
	Library    LibraryConfig    `yaml:"library"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Display    DisplayConfig    `yaml:"display"`
	Visualizer VisualizerConfig `yaml:"visualizer"`
	Remote     RemoteConfig     `yaml:"remote"`
	Input      InputConfig      `yaml:"input"`
	Sensor     SensorConfig     `yaml:"sensor"`
}

// LibraryConfig locates the music directory: <root>/<dir>.
type LibraryConfig struct {
	Root       string   `yaml:"root" default:"/sd" validate:"required"`
	Dir        string   `yaml:"dir" default:"myMusic" validate:"required"`
	Extensions []string `yaml:"extensions" validate:"dive,startswith=."`
}

// PlaybackConfig represents playback engine configuration.
type PlaybackConfig struct {
	RetryDelayMs  int `yaml:"retry_delay_ms" default:"1000" validate:"gte=0,lte=60000"`
	SettleDelayMs int `yaml:"settle_delay_ms" default:"1000" validate:"gte=0,lte=10000"`
	SampleRate    int `yaml:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
}

// DisplayConfig represents character display configuration.
type DisplayConfig struct {
	Type   string `yaml:"type" default:"terminal" validate:"oneof=terminal log"`
	PollMs int    `yaml:"poll_ms" default:"50" validate:"gte=1,lte=1000"`
}

// VisualizerConfig represents level indicator configuration.
type VisualizerConfig struct {
	PollMs   int     `yaml:"poll_ms" default:"50" validate:"gte=1,lte=1000"`
	Midpoint float64 `yaml:"midpoint" default:"0.25" validate:"gte=0,lte=1"`
	Scale    float64 `yaml:"scale" default:"3.3" validate:"gt=0"`
}

// RemoteConfig represents remote control link configuration.
type RemoteConfig struct {
	PollMs    int             `yaml:"poll_ms" default:"50" validate:"gte=1,lte=1000"`
	Transport TransportConfig `yaml:"transport"`
}

// TransportConfig selects the byte link used by the remote control.
// Settings are decoded by the chosen transport.
type TransportConfig struct {
	Type     string         `yaml:"type" default:"none" validate:"oneof=serial tcp none"`
	Settings map[string]any `yaml:"settings"`
}

// InputConfig represents button and action queue configuration.
type InputConfig struct {
	QueueSize      int               `yaml:"queue_size" default:"16" validate:"gte=1,lte=1024"`
	DiagnosticLEDs bool              `yaml:"diagnostic_leds"`
	Keys           map[string]string `yaml:"keys" default:"{\"b\":\"previous\",\"n\":\"next\",\"s\":\"shuffle\",\"p\":\"play\",\" \":\"play\"}" validate:"dive,keys,len=1,endkeys,oneof=previous next shuffle play"`
}

// SensorConfig represents the simulated accelerometer.
type SensorConfig struct {
	Noise float64 `yaml:"noise" default:"0.0005" validate:"gte=0,lte=1"`
}

// Load loads configuration from a YAML file.
// A missing file yields the default configuration.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, errors.Wrap(err, "failed to read config file")
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("WAVBOX_LIBRARY_ROOT"); v != "" {
		c.Library.Root = v
	}
	if v := os.Getenv("WAVBOX_LIBRARY_DIR"); v != "" {
		c.Library.Dir = v
	}
	if v := os.Getenv("WAVBOX_SERIAL_PORT"); v != "" {
		if c.Remote.Transport.Type != TransportSerial {
			c.Remote.Transport.Settings = nil
		}
		c.Remote.Transport.Type = TransportSerial
		if c.Remote.Transport.Settings == nil {
			c.Remote.Transport.Settings = make(map[string]any)
		}
		c.Remote.Transport.Settings["port"] = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// RetryDelay returns the wait after a failed track open.
func (c PlaybackConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// SettleDelay returns the wait between opening a track and playing it.
func (c PlaybackConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// PollInterval returns the display refresh interval.
func (c DisplayConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// PollInterval returns the level sampling interval.
func (c VisualizerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// PollInterval returns the remote link polling interval.
func (c RemoteConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// Enabled reports whether a remote transport is configured.
func (c RemoteConfig) Enabled() bool {
	return c.Transport.Type != "" && c.Transport.Type != TransportNone
}
