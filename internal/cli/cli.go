// SPDX-License-Identifier: EPL-2.0

// Package cli implements the audconv command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/audio/sinc"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/internal/config"
	"github.com/ik5/audconv/internal/logging"
	"github.com/ik5/audconv/pipeline"
	"github.com/ik5/audconv/record"
)

const Version = "0.1.0"

var logger = logging.NewLogger("audconv/cli")

// CLI is the audconv command tree bound to a filesystem.
type CLI struct {
	root        *cobra.Command
	fs          afero.Fs
	configPaths []string

	// logWriter is where logs go besides an optional log file.
	logWriter io.Writer
	// newRecorder builds the recorder for OGG output.
	newRecorder func() *record.Recorder
}

// New returns the command tree. Input, output and config files are
// accessed through fsys.
func New(fsys afero.Fs) *CLI {
	c := &CLI{
		fs:          fsys,
		logWriter:   os.Stderr,
		newRecorder: record.Default,
	}

	root := &cobra.Command{
		Use:           "audconv",
		Short:         "Convert audio files",
		Long:          "audconv decodes WAV, MP3, Ogg Vorbis, AIFF and FLAC input and writes WAV, MP3 or Ogg/Opus at a chosen sample rate and channel count.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to config file (default: XDG config dir)")
	root.PersistentFlags().String("log-level", "", "log level: error, warn, info, debug, trace")
	root.PersistentFlags().String("log-file", "", "also write logs to this rotated file")

	root.AddCommand(c.newConvertCommand(), c.newInspectCommand(), c.newFormatsCommand())
	c.root = root

	return c
}

// Command returns the root command.
func (c *CLI) Command() *cobra.Command { return c.root }

// Execute runs the command line args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	return c.root.ExecuteContext(ctx)
}

// loadConfig reads the config file named by --config, or searches the XDG
// paths, and applies the logging flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	m := config.NewManager(c.fs, c.configPaths)

	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = m.LoadFile(path)
	} else {
		cfg, _, err = m.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		if cfg.FileLogging == nil {
			cfg.FileLogging = &config.FileLogging{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
		}
		cfg.FileLogging.Enabled = true
		cfg.FileLogging.Filename = path
	}

	if err := c.setupLogging(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *CLI) setupLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	w := c.logWriter
	if fl := cfg.FileLogging; fl != nil && fl.Enabled {
		filename := fl.Filename
		if filename == "" {
			filename = config.LogPath()
		}

		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    fl.MaxSizeMB,
			MaxBackups: fl.MaxBackups,
			MaxAge:     fl.MaxAgeDays,
			Compress:   fl.Compress,
		})
	}

	logging.Configure(w, level)
	logger.Debugf("logging at %s", cfg.LogLevel)

	return nil
}

// converter builds a pipeline.Converter from cfg.
func (c *CLI) converter(cfg *config.Config) (*pipeline.Converter, error) {
	var backend mp3.Backend
	switch cfg.MP3Backend {
	case "auto":
		backend = mp3.Auto(mp3.Lame(cfg.LamePath), mp3.Shine())
	case "lame":
		backend = mp3.Lame(cfg.LamePath)
	case "shine":
		backend = mp3.Shine()
	case "none":
	default:
		return nil, fmt.Errorf("%w: mp3 backend %q", config.ErrInvalidConfig, cfg.MP3Backend)
	}

	var resampler audio.ResamplerFunc
	switch cfg.Resampler {
	case "cubic":
		resampler = audio.CubicResampler
	case "sinc-best":
		resampler = sinc.Resampler(sinc.BestQuality)
	case "sinc-medium":
		resampler = sinc.Resampler(sinc.MediumQuality)
	case "sinc-fastest":
		resampler = sinc.Resampler(sinc.Fastest)
	default:
		return nil, fmt.Errorf("%w: resampler %q", config.ErrInvalidConfig, cfg.Resampler)
	}

	return pipeline.New(
		pipeline.WithMP3Backend(backend),
		pipeline.WithRecorder(c.newRecorder()),
		pipeline.WithResampler(resampler),
	), nil
}
