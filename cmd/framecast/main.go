// Package main provides the CLI entry point for framecast.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framecast/pkg/adapters/chromefeed"
	"github.com/user/framecast/pkg/adapters/ffmpegrunner"
	"github.com/user/framecast/pkg/adapters/filesink"
	"github.com/user/framecast/pkg/adapters/framegen"
	"github.com/user/framecast/pkg/adapters/logger"
	"github.com/user/framecast/pkg/adapters/mp4probe"
	"github.com/user/framecast/pkg/adapters/nullsink"
	"github.com/user/framecast/pkg/adapters/osfilesystem"
	"github.com/user/framecast/pkg/compress"
	"github.com/user/framecast/pkg/config"
	"github.com/user/framecast/pkg/ports"
	"github.com/user/framecast/pkg/probe"
	"github.com/user/framecast/pkg/recorder"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:  "framecast",
		Usage: l10n.T("Record page loads as compressed MP4 video"),
		Commands: []*cli.Command{
			recordCommand(),
			compressCommand(),
			probeCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: l10n.T("Load settings from a YAML config file"),
		},
		&cli.StringFlag{
			Name:  "ffmpeg-path",
			Usage: l10n.T("Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   l10n.T("Log level (debug, info, warn, error)"),
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"Q"},
			Usage:   l10n.T("Suppress all log output"),
		},
	}
}

func recordCommand() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    l10n.T("Output MP4 file path (required)"),
		},
		&cli.IntFlag{
			Name:    "quality",
			Aliases: []string{"q"},
			Usage:   l10n.T("Capture CRF value (0-51, lower is better)"),
		},
		&cli.IntFlag{
			Name:  "compression-level",
			Usage: l10n.T("Compression pass CRF value (0 = skip compression)"),
		},
		&cli.IntFlag{
			Name:  "timeout-ms",
			Usage: l10n.T("Recording timeout in milliseconds"),
		},
		&cli.IntFlag{
			Name:  "screencast-quality",
			Usage: l10n.T("Screencast JPEG quality (1-100)"),
		},
		&cli.StringFlag{
			Name:  "chrome-path",
			Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)"),
		},
		&cli.BoolFlag{
			Name:  "no-headless",
			Usage: l10n.T("Run browser in non-headless mode"),
		},
		&cli.BoolFlag{
			Name:  "synthetic",
			Usage: l10n.T("Record a synthetic test pattern instead of a page"),
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   l10n.T("Enable debug output"),
		},
		&cli.StringFlag{
			Name:  "debug-dir",
			Value: "./debug",
			Usage: l10n.T("Directory for debug output"),
		},
	)

	return &cli.Command{
		Name:      "record",
		Usage:     l10n.T("Record a web page loading as MP4 video"),
		ArgsUsage: "URL",
		Flags:     flags,
		Action:    runRecord,
	}
}

func runRecord(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	synthetic := c.Bool("synthetic")
	if !synthetic {
		if c.Args().Len() < 1 {
			return errors.New(l10n.T("URL argument is required"))
		}
		cfg.URL = c.Args().First()
	}
	cfg.OutputPath = c.String("output")
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("compression-level") {
		cfg.CompressionLevel = c.Int("compression-level")
	}
	if c.IsSet("timeout-ms") {
		cfg.TimeoutMs = c.Int("timeout-ms")
	}
	if c.IsSet("screencast-quality") {
		cfg.ScreencastQuality = c.Int("screencast-quality")
	}
	if c.IsSet("chrome-path") {
		cfg.ChromePath = c.String("chrome-path")
	}
	if c.Bool("no-headless") {
		cfg.Headless = false
	}
	if c.Bool("debug") {
		cfg.Debug = true
		cfg.DebugDir = c.String("debug-dir")
	}

	log := newLogger(c)
	ctx, cancel := signalContext(log)
	defer cancel()

	runner := newRunner(c, cfg)
	fs := osfilesystem.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	prober := probe.New(runner, log,
		probe.WithTimeout(time.Duration(cfg.ProbeTimeoutMs)*time.Millisecond))

	var source ports.FrameSource
	if synthetic {
		gen, err := framegen.New(framegen.Options{
			Width:    cfg.WindowWidth,
			Height:   cfg.WindowHeight,
			Realtime: true,
		})
		if err != nil {
			return err
		}
		source = gen
	} else {
		source = chromefeed.New(chromefeed.Options{
			URL:          cfg.URL,
			ChromePath:   cfg.ChromePath,
			Headless:     cfg.Headless,
			Quality:      cfg.ScreencastQuality,
			WindowWidth:  cfg.WindowWidth,
			WindowHeight: cfg.WindowHeight,
			Logger:       log.WithComponent("browser"),
		})
	}

	rec := recorder.New(runner, prober, fs, sink, log)
	_, err = rec.Record(ctx, source, cfg.ToRecorderConfig())
	return err
}

func compressCommand() *cli.Command {
	flags := append(commonFlags(),
		&cli.IntFlag{
			Name:    "level",
			Aliases: []string{"L"},
			Value:   32,
			Usage:   l10n.T("Compression CRF value (0-51, lower is better)"),
		},
	)

	return &cli.Command{
		Name:      "compress",
		Usage:     l10n.T("Compress a video file in place"),
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return errors.New(l10n.T("FILE argument is required"))
			}
			path := c.Args().First()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			log := newLogger(c)
			ctx, cancel := signalContext(log)
			defer cancel()

			runner := newRunner(c, cfg)
			fs := osfilesystem.New()
			prober := probe.New(runner, log,
				probe.WithTimeout(time.Duration(cfg.ProbeTimeoutMs)*time.Millisecond))

			level := c.Int("level")
			log.Info("Compressing %s (level %d)", path, level)

			compressor := compress.New(runner, prober, fs, log)
			err = compressor.Compress(ctx, path, level, func(fraction float64) {
				log.Debug("Compression progress: %d%%", int(fraction*100))
			})
			if err != nil {
				return err
			}

			log.Info("Compression complete: %s", path)
			return nil
		},
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show codec and duration of a video file"),
		ArgsUsage: "FILE",
		Flags:     commonFlags(),
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return errors.New(l10n.T("FILE argument is required"))
			}
			path := c.Args().First()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			log := newLogger(c)
			ctx, cancel := signalContext(log)
			defer cancel()

			// Try the container parser first, fall back to ffmpeg
			data, err := mp4probe.Inspect(path)
			if err != nil {
				runner := newRunner(c, cfg)
				prober := probe.New(runner, log,
					probe.WithTimeout(time.Duration(cfg.ProbeTimeoutMs)*time.Millisecond))
				data, err = prober.Probe(ctx, path)
				if err != nil {
					return err
				}
			}

			fmt.Printf("%s\t%.2fs\t%s\n", path, data.DurationSeconds, data.CodecName)
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Println(l10n.F("framecast version %s", version))
			return nil
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Defaults(), nil
}

func newLogger(c *cli.Context) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
}

func newRunner(c *cli.Context, cfg config.Config) *ffmpegrunner.Runner {
	ffmpegPath := cfg.FFmpegPath
	if c.IsSet("ffmpeg-path") {
		ffmpegPath = c.String("ffmpeg-path")
	}
	return ffmpegrunner.New(ffmpegrunner.WithBinary(ffmpegPath))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	return ctx, cancel
}
