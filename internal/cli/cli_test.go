// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/wav"
	"github.com/ik5/audconv/internal/audiotest"
	"github.com/ik5/audconv/internal/config"
	"github.com/ik5/audconv/pipeline"
	"github.com/ik5/audconv/record"
)

const configPath = "/etc/audconv/config.json"

// These tests reconfigure the shared loggers and do not run in parallel.

func newTestCLI(t *testing.T) (*CLI, afero.Fs, *bytes.Buffer) {
	t.Helper()

	fsys := afero.NewMemMapFs()

	c := New(fsys)
	c.configPaths = []string{configPath}
	c.logWriter = io.Discard
	c.newRecorder = func() *record.Recorder {
		return record.NewRecorder(record.WithCodec(record.OggOpus()), record.WithGrace(0))
	}

	var out bytes.Buffer
	c.Command().SetOut(&out)
	c.Command().SetErr(io.Discard)

	return c, fsys, &out
}

func writeWAV(t *testing.T, fsys afero.Fs, path string, rate, frames int) {
	t.Helper()

	buf, err := audio.NewBuffer(rate, [][]float32{
		audiotest.Sine(rate, frames, 440, 0.5),
		audiotest.Sine(rate, frames, 220, 0.5),
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := wav.Encode(buf)
	if err != nil {
		t.Fatal(err)
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConvert_WAV(t *testing.T) {
	c, fsys, out := newTestCLI(t)
	writeWAV(t, fsys, "/in.wav", 22050, 22050)

	err := c.Execute(context.Background(), []string{"convert", "/in.wav", "/out.wav", "-r", "16000", "-c", "1", "-q"})
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}

	data, err := afero.ReadFile(fsys, "/out.wav")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	if want := wav.HeaderSize + 16000*2; len(data) != want {
		t.Errorf("output size = %d, want %d", len(data), want)
	}

	if !strings.Contains(out.String(), "Wrote /out.wav: wav") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConvert_ConfigDefaults(t *testing.T) {
	c, fsys, _ := newTestCLI(t)
	writeWAV(t, fsys, "/in.wav", 8000, 800)

	cfg := config.Default()
	cfg.SampleRate = 16000
	cfg.Channels = 1
	if err := config.NewManager(fsys, nil).Save(configPath, cfg); err != nil {
		t.Fatal(err)
	}

	if err := c.Execute(context.Background(), []string{"convert", "-q", "/in.wav", "/out.wav"}); err != nil {
		t.Fatalf("convert error = %v", err)
	}

	data, err := afero.ReadFile(fsys, "/out.wav")
	if err != nil {
		t.Fatal(err)
	}

	if want := wav.HeaderSize + 1600*2; len(data) != want {
		t.Errorf("output size = %d, want %d (config rate and channels)", len(data), want)
	}
}

func TestConvert_OGG(t *testing.T) {
	c, fsys, _ := newTestCLI(t)
	writeWAV(t, fsys, "/in.wav", 48000, 2400)

	if err := c.Execute(context.Background(), []string{"convert", "-q", "-r", "48000", "/in.wav", "/out.ogg"}); err != nil {
		t.Fatalf("convert error = %v", err)
	}

	data, err := afero.ReadFile(fsys, "/out.ogg")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasPrefix(data, []byte("OggS")) {
		t.Error("output is not an Ogg stream")
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "mp3 without backend",
			args: []string{"convert", "-q", "--mp3-backend", "none", "/in.wav", "/out.mp3"},
			want: pipeline.ErrEncoderUnavailable,
		},
		{
			name: "bad rate",
			args: []string{"convert", "-q", "-r", "12345", "/in.wav", "/out.wav"},
			want: config.ErrInvalidConfig,
		},
		{
			name: "bad resampler",
			args: []string{"convert", "-q", "--resampler", "linear", "/in.wav", "/out.wav"},
			want: config.ErrInvalidConfig,
		},
		{
			name: "unknown format",
			args: []string{"convert", "-q", "-f", "flac", "/in.wav", "/out.flac"},
			want: config.ErrInvalidConfig,
		},
		{
			name: "not audio",
			args: []string{"convert", "-q", "/junk.bin", "/out.wav"},
			want: pipeline.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fsys, _ := newTestCLI(t)
			writeWAV(t, fsys, "/in.wav", 8000, 800)
			if err := afero.WriteFile(fsys, "/junk.bin", []byte("definitely not audio"), 0o644); err != nil {
				t.Fatal(err)
			}

			err := c.Execute(context.Background(), tt.args)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			for _, p := range []string{"/out.wav", "/out.mp3", "/out.flac"} {
				if ok, _ := afero.Exists(fsys, p); ok {
					t.Errorf("%s written for failed conversion", p)
				}
			}
		})
	}
}

func TestConvert_Args(t *testing.T) {
	c, _, _ := newTestCLI(t)

	if err := c.Execute(context.Background(), []string{"convert", "/in.wav"}); err == nil {
		t.Error("convert with one argument succeeded")
	}
}

func TestConvert_BadConfigFile(t *testing.T) {
	c, fsys, _ := newTestCLI(t)
	writeWAV(t, fsys, "/in.wav", 8000, 800)

	if err := afero.WriteFile(fsys, "/bad.json", []byte(`{"channels": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := c.Execute(context.Background(), []string{"convert", "--config", "/bad.json", "/in.wav", "/out.wav"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestInspect(t *testing.T) {
	c, fsys, out := newTestCLI(t)
	writeWAV(t, fsys, "/in.wav", 8000, 4000)

	if err := c.Execute(context.Background(), []string{"inspect", "/in.wav"}); err != nil {
		t.Fatalf("inspect error = %v", err)
	}

	for _, want := range []string{"audio/wav", "8000 Hz", "Channels:    2", "0:00", "257 kbps"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := c.Execute(context.Background(), []string{"inspect", "/missing.wav"}); err == nil {
		t.Error("inspect of missing file succeeded")
	}
}

func TestFormats(t *testing.T) {
	c, _, out := newTestCLI(t)

	if err := c.Execute(context.Background(), []string{"formats", "--mp3-backend", "none"}); err == nil {
		t.Fatal("formats accepted a convert flag")
	}

	out.Reset()
	if err := afero.WriteFile(c.fs, configPath, []byte(`{"mp3_backend": "none"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Execute(context.Background(), []string{"formats"}); err != nil {
		t.Fatalf("formats error = %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Supported formats: WAV, OGG. MP3 encoding is not available") {
		t.Errorf("summary = %q", got)
	}

	if !strings.Contains(got, "audio/mpeg (Not Supported)") {
		t.Errorf("mp3 line not marked:\n%s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"0s":      "0:00",
		"59.9s":   "0:59",
		"61s":     "1:01",
		"1h2m3s":  "1:02:03",
		"10h0m0s": "10:00:00",
	}

	for in, want := range tests {
		d, err := time.ParseDuration(in)
		if err != nil {
			t.Fatal(err)
		}

		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%s) = %q, want %q", in, got, want)
		}
	}
}
