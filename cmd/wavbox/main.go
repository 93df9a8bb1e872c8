// Package main provides the wavbox player entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	appdisplay "github.com/osa030/wavbox/internal/app/display"
	"github.com/osa030/wavbox/internal/app/engine"
	"github.com/osa030/wavbox/internal/app/input"
	"github.com/osa030/wavbox/internal/app/playback"
	"github.com/osa030/wavbox/internal/app/remote"
	"github.com/osa030/wavbox/internal/app/visualizer"
	"github.com/osa030/wavbox/internal/domain/playlist"
	"github.com/osa030/wavbox/internal/infra/audio"
	"github.com/osa030/wavbox/internal/infra/buttons"
	"github.com/osa030/wavbox/internal/infra/config"
	"github.com/osa030/wavbox/internal/infra/display"
	"github.com/osa030/wavbox/internal/infra/logger"
	"github.com/osa030/wavbox/internal/infra/sensor"
	"github.com/osa030/wavbox/internal/infra/storage"
	"github.com/osa030/wavbox/internal/infra/transport"
)

var (
	app        = kingpin.New("wavbox", "wavbox wav player")
	configPath = app.Flag("config", "Path to config file").Default("config/wavbox.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// list-tracks command
	listTracksCmd = app.Command("list-tracks", "List the tracks in the music directory and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the player (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger. stdout belongs to the terminal display.
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logCloser.Close()

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	library := storage.NewLibrary(afero.NewOsFs(), storage.Config{
		Root:       cfg.Library.Root,
		Dir:        cfg.Library.Dir,
		Extensions: cfg.Library.Extensions,
	})

	// Handle list-tracks command
	if command == listTracksCmd.FullCommand() {
		if err := printTracks(library); err != nil {
			zlog.Error().Msgf("Failed to list tracks: %v", err)
			os.Exit(1)
		}
		return
	}

	// Run player (defer ensures cleanup runs on any exit)
	if err := run(cfg, library); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// screen is a character display the player can release on exit.
type screen interface {
	appdisplay.Screen
	Close() error
}

// task is a long-running component bound to the root context.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// run wires the components and blocks until a signal or Ctrl-C arrives.
func run(cfg *config.Config, library *storage.Library) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Scan the library once; the track list is fixed for the process lifetime
	tracks, err := library.Scan()
	if err != nil {
		return errors.Wrap(err, "failed to scan library")
	}
	list, err := playlist.New(tracks)
	if err != nil {
		return errors.Wrapf(err, "no tracks in %s", library.Dir())
	}
	state := playback.NewState(list)
	zlog.Info().Msgf("Loaded %d tracks", state.TrackCount())

	keys, err := buttons.ParseKeyMap(cfg.Input.Keys)
	if err != nil {
		return errors.Wrap(err, "invalid key map")
	}

	accel, err := sensor.NewAccelerometer(cfg.Sensor.Noise, uint64(time.Now().UnixNano()))
	if err != nil {
		return errors.Wrap(err, "failed to create motion sensor")
	}

	scr := newScreen(cfg.Display)
	defer func() {
		if err := scr.Close(); err != nil {
			zlog.Warn().Msgf("Failed to close display: %v", err)
		}
	}()
	leds := display.NewLEDBar(scr, appdisplay.RowIndicators, visualizer.IndicatorCount)

	controller := input.NewController(state, accel, leds, input.Config{
		QueueSize:      cfg.Input.QueueSize,
		DiagnosticLEDs: cfg.Input.DiagnosticLEDs,
	})
	renderer := appdisplay.NewRenderer(state, scr, appdisplay.Config{
		PollInterval: cfg.Display.PollInterval(),
		OnInit:       leds.Draw,
	})
	player := audio.NewPlayer(audio.Config{SampleRate: cfg.Playback.SampleRate})
	sampler := visualizer.NewSampler(state, player, leds, visualizer.Config{
		PollInterval: cfg.Visualizer.PollInterval(),
		Midpoint:     cfg.Visualizer.Midpoint,
		Scale:        cfg.Visualizer.Scale,
	})
	eng := engine.New(state, library, player, renderer, engine.Config{
		RetryDelay:  cfg.Playback.RetryDelay(),
		SettleDelay: cfg.Playback.SettleDelay(),
	})
	keyboard := buttons.NewKeyboard(os.Stdin, keys)

	tasks := []task{
		{name: "input", run: controller.Run},
		{name: "display", run: renderer.Run},
		{name: "visualizer", run: sampler.Run},
		{name: "engine", run: eng.Run},
		{name: "keyboard", run: func(ctx context.Context) error {
			return keyboard.Listen(ctx, func(b input.Button) { controller.ButtonHandler(b)() }, cancel)
		}},
	}

	if cfg.Remote.Enabled() {
		tr, err := transport.New(cfg.Remote.Transport)
		if err != nil {
			return errors.Wrap(err, "failed to open remote transport")
		}
		defer func() {
			if err := tr.Close(); err != nil {
				zlog.Warn().Msgf("Failed to close transport: %v", err)
			}
		}()
		link := remote.NewLink(state, tr, controller, remote.Config{PollInterval: cfg.Remote.PollInterval()})
		tasks = append(tasks, task{name: "remote", run: link.Run})
	}

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			zlog.Debug().Msgf("Starting task: %s", t.name)
			if err := t.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error().Msgf("Task %s stopped: %v", t.name, err)
			}
		}()
	}

	<-ctx.Done()
	zlog.Info().Msg("Received shutdown signal...")
	wg.Wait()
	zlog.Info().Msg("Player stopped")
	return nil
}

func newScreen(cfg config.DisplayConfig) screen {
	if cfg.Type == config.DisplayLog {
		return display.NewLog()
	}
	return display.NewTerminal(os.Stdout, appdisplay.ScreenRows)
}

// printTracks prints the library in playback order.
func printTracks(library *storage.Library) error {
	tracks, err := library.Scan()
	if err != nil {
		return err
	}
	fmt.Printf("Tracks in %s:\n", library.Dir())
	for i, t := range tracks {
		fmt.Printf("  %3d  %-30s %s\n", i, t.DisplayName(), t.Name)
	}
	return nil
}
