// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/ik5/audconv/pipeline"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	req, err := cfg.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	want := pipeline.Request{Format: pipeline.WAV, SampleRate: 44100, Channels: 2, BitrateKbps: 192}
	if req != want {
		t.Errorf("Request() = %+v, want %+v", req, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"format", func(c *Config) { c.Format = "flac" }, "unknown format"},
		{"sample rate", func(c *Config) { c.SampleRate = 11025 }, "sample rate"},
		{"channels", func(c *Config) { c.Channels = 3 }, "channels"},
		{"mp3 bitrate", func(c *Config) { c.Format = "mp3"; c.BitrateKbps = 64 }, "bitrate"},
		{"backend", func(c *Config) { c.MP3Backend = "ffmpeg" }, "mp3_backend"},
		{"resampler", func(c *Config) { c.Resampler = "linear" }, "resampler"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"file logging", func(c *Config) { c.FileLogging = &FileLogging{MaxBackups: -1} }, "file_logging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestManager_Load(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	user := "/home/u/.config/audconv/config.json"
	system := "/etc/xdg/audconv/config.json"

	m := NewManager(fsys, []string{user, system})

	cfg, path, err := m.Load()
	if err != nil || path != "" {
		t.Fatalf("Load() without files = %q, %v", path, err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() without files = %+v, want defaults", cfg)
	}

	if err := afero.WriteFile(fsys, system, []byte(`{"format": "mp3", "bitrate_kbps": 320}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err = m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if path != system || cfg.Format != "mp3" || cfg.BitrateKbps != 320 {
		t.Errorf("Load() = %+v from %q", cfg, path)
	}

	// Unset fields keep their defaults
	if cfg.SampleRate != 44100 || cfg.Resampler != "cubic" {
		t.Errorf("defaults lost: %+v", cfg)
	}

	if err := afero.WriteFile(fsys, user, []byte(`{"channels": 1, "log_level": "debug"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err = m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if path != user || cfg.Channels != 1 || cfg.Format != "wav" {
		t.Errorf("user config not preferred: %+v from %q", cfg, path)
	}
}

func TestManager_LoadFile_Errors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	m := NewManager(fsys, nil)

	if _, err := m.LoadFile("/missing.json"); err == nil {
		t.Error("LoadFile() of missing file succeeded")
	}

	afero.WriteFile(fsys, "/broken.json", []byte(`{"format":`), 0o644)
	if _, err := m.LoadFile("/broken.json"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFile() of broken JSON error = %v, want ErrInvalidConfig", err)
	}

	afero.WriteFile(fsys, "/bad.json", []byte(`{"channels": 6}`), 0o644)
	if _, err := m.LoadFile("/bad.json"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFile() of invalid values error = %v, want ErrInvalidConfig", err)
	}
}

func TestManager_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	m := NewManager(fsys, nil)
	path := "/cfg/audconv/config.json"

	cfg := Default()
	cfg.Format = "ogg"
	cfg.BitrateKbps = 128
	cfg.FileLogging = &FileLogging{Enabled: true, MaxSizeMB: 10}

	if err := m.Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := m.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got.Format != "ogg" || got.BitrateKbps != 128 || got.FileLogging == nil || got.FileLogging.MaxSizeMB != 10 {
		t.Errorf("round trip = %+v", got)
	}

	bad := Default()
	bad.Channels = 0
	if err := m.Save("/other.json", bad); err == nil {
		t.Error("Save() of invalid config succeeded")
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	paths := Paths()
	if len(paths) == 0 {
		t.Fatal("Paths() is empty")
	}

	for _, p := range paths {
		if filepath.Base(p) != FileName || filepath.Base(filepath.Dir(p)) != "audconv" {
			t.Errorf("path %q is not audconv/%s", p, FileName)
		}
	}

	if filepath.Base(LogPath()) != "audconv.log" {
		t.Errorf("LogPath() = %q", LogPath())
	}
}
