// SPDX-License-Identifier: EPL-2.0

// Package config loads the audconv defaults file.
//
// The file is JSON named config.json in the audconv directory of the XDG
// config home, falling back to the XDG system config dirs. Missing fields
// keep their defaults and command line flags override the result.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"

	"github.com/ik5/audconv/internal/logging"
	"github.com/ik5/audconv/pipeline"
)

// FileName is the name of the config file inside the audconv directory.
const FileName = "config.json"

const appDir = "audconv"

var ErrInvalidConfig = errors.New("invalid config")

var logger = logging.NewLogger("audconv/config")

// Accepted names for the backend and resampler settings.
var (
	MP3Backends = []string{"auto", "lame", "shine", "none"}
	Resamplers  = []string{"cubic", "sinc-best", "sinc-medium", "sinc-fastest"}
)

// FileLogging configures the rotated log file.
type FileLogging struct {
	Enabled    bool   `json:"enabled"`
	Filename   string `json:"filename"` // empty uses LogPath()
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// Config holds conversion defaults.
type Config struct {
	Format      string       `json:"format"`
	SampleRate  int          `json:"sample_rate"`
	Channels    int          `json:"channels"`
	BitrateKbps int          `json:"bitrate_kbps"`
	MP3Backend  string       `json:"mp3_backend"`
	LamePath    string       `json:"lame_path"`
	Resampler   string       `json:"resampler"`
	LogLevel    string       `json:"log_level"`
	FileLogging *FileLogging `json:"file_logging,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Format:      "wav",
		SampleRate:  44100,
		Channels:    2,
		BitrateKbps: 192,
		MP3Backend:  "auto",
		Resampler:   "cubic",
		LogLevel:    "warn",
	}
}

// Request returns the conversion request described by c.
func (c *Config) Request() (pipeline.Request, error) {
	f, err := pipeline.ParseFormat(c.Format)
	if err != nil {
		return pipeline.Request{}, err
	}

	req := pipeline.Request{
		Format:      f,
		SampleRate:  c.SampleRate,
		Channels:    c.Channels,
		BitrateKbps: c.BitrateKbps,
	}

	return req, req.Validate()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := c.Request(); err != nil {
		problems = append(problems, err.Error())
	}

	if !slices.Contains(MP3Backends, c.MP3Backend) {
		problems = append(problems, fmt.Sprintf("mp3_backend %q not one of %s", c.MP3Backend, strings.Join(MP3Backends, ", ")))
	}

	if !slices.Contains(Resamplers, c.Resampler) {
		problems = append(problems, fmt.Sprintf("resampler %q not one of %s", c.Resampler, strings.Join(Resamplers, ", ")))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if fl := c.FileLogging; fl != nil && (fl.MaxSizeMB < 0 || fl.MaxBackups < 0 || fl.MaxAgeDays < 0) {
		problems = append(problems, "file_logging limits must be >= 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// Paths returns the config file locations in search order: the user
// config home first, then the system config dirs.
func Paths() []string {
	paths := []string{filepath.Join(xdg.ConfigHome, appDir, FileName)}
	for _, dir := range xdg.ConfigDirs {
		paths = append(paths, filepath.Join(dir, appDir, FileName))
	}

	return paths
}

// LogPath returns the default log file location in the XDG cache home.
func LogPath() string {
	return filepath.Join(xdg.CacheHome, appDir, "logs", "audconv.log")
}

// Manager reads and writes config files on a filesystem.
type Manager struct {
	fs    afero.Fs
	paths []string
}

// NewManager returns a Manager searching paths on fsys. nil paths uses
// Paths().
func NewManager(fsys afero.Fs, paths []string) *Manager {
	if paths == nil {
		paths = Paths()
	}

	return &Manager{fs: fsys, paths: paths}
}

// Load reads the first config file found and returns it with its path.
// Without any file the defaults are returned with an empty path.
func (m *Manager) Load() (*Config, string, error) {
	for _, p := range m.paths {
		ok, err := afero.Exists(m.fs, p)
		if err != nil {
			return nil, "", fmt.Errorf("checking %s: %w", p, err)
		}

		if ok {
			cfg, err := m.LoadFile(p)
			return cfg, p, err
		}
	}

	logger.Debug("no config file found, using defaults")

	return Default(), "", nil
}

// LoadFile reads path over the defaults and validates the result.
func (m *Manager) LoadFile(path string) (*Config, error) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debugf("loaded config from %s", path)

	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func (m *Manager) Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := afero.WriteFile(m.fs, path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
