// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/audconv/internal/audiotest"
)

func TestNewBuffer_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels [][]float32
		wantErr  error
	}{
		{"mono", 8000, [][]float32{{0, 1}}, nil},
		{"stereo", 8000, [][]float32{{0, 1}, {1, 0}}, nil},
		{"empty mono", 8000, [][]float32{{}}, nil},
		{"zero rate", 0, [][]float32{{0}}, ErrInvalidSampleRate},
		{"no channels", 8000, nil, ErrUnsupportedChannels},
		{"three channels", 8000, [][]float32{{0}, {0}, {0}}, ErrUnsupportedChannels},
		{"uneven channels", 8000, [][]float32{{0, 1}, {1}}, ErrChannelLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewBuffer(tt.rate, tt.channels)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuffer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBuffer_CopiesInput(t *testing.T) {
	t.Parallel()

	left := []float32{0.1, 0.2, 0.3}
	buf, err := NewBuffer(8000, [][]float32{left})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	left[0] = 0.9
	if buf.Channel(0)[0] != 0.1 {
		t.Errorf("Channel(0)[0] = %v after caller mutation, want 0.1", buf.Channel(0)[0])
	}
}

func TestBuffer_Metadata(t *testing.T) {
	t.Parallel()

	buf, err := NewBuffer(8000, [][]float32{make([]float32, 4000), make([]float32, 4000)})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	if buf.Frames() != 4000 {
		t.Errorf("Frames() = %d, want 4000", buf.Frames())
	}
	if buf.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", buf.Channels())
	}
	if buf.Duration() != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", buf.Duration())
	}
}

func TestBuffer_Clone(t *testing.T) {
	t.Parallel()

	buf, _ := NewBuffer(8000, [][]float32{{0.5, -0.5}})
	clone := buf.Clone()

	if &clone.Channel(0)[0] == &buf.Channel(0)[0] {
		t.Error("Clone() shares channel storage with the original")
	}
	if clone.Channel(0)[1] != -0.5 {
		t.Errorf("Clone() Channel(0)[1] = %v, want -0.5", clone.Channel(0)[1])
	}
}

func TestBuffer_SourceInterleaves(t *testing.T) {
	t.Parallel()

	buf, _ := NewBuffer(8000, [][]float32{{1, 2, 3}, {-1, -2, -3}})
	src := buf.Source()

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	want := []float32{1, -1, 2, -2}
	for i := range n {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if err != io.EOF || n != 2 {
		t.Errorf("second ReadSamples() = (%d, %v), want (2, io.EOF)", n, err)
	}

	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
}

func TestReadBuffer_RoundTrip(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(16000, 2, 5000, func(sample, channel int) float32 {
		if channel == 0 {
			return float32(sample) / 5000
		}
		return -float32(sample) / 5000
	})

	buf, err := ReadBuffer(src)
	if err != nil {
		t.Fatalf("ReadBuffer() error = %v", err)
	}

	if buf.Frames() != 5000 || buf.Channels() != 2 || buf.SampleRate() != 16000 {
		t.Fatalf("ReadBuffer() = %d frames %d ch %d Hz, want 5000/2/16000",
			buf.Frames(), buf.Channels(), buf.SampleRate())
	}

	for _, i := range []int{0, 1234, 4999} {
		if got, want := buf.Channel(1)[i], -float32(i)/5000; got != want {
			t.Errorf("Channel(1)[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestReadBuffer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := ReadBuffer(audiotest.NewSilentSource(8000, 6, 10)); !errors.Is(err, ErrUnsupportedChannels) {
		t.Errorf("ReadBuffer(6ch) error = %v, want ErrUnsupportedChannels", err)
	}

	boom := errors.New("boom")
	src := audiotest.NewSilentSource(8000, 1, 10000).FailAfter(100, boom)
	if _, err := ReadBuffer(src); !errors.Is(err, boom) {
		t.Errorf("ReadBuffer(failing) error = %v, want boom", err)
	}
}

func TestReadBuffer_Empty(t *testing.T) {
	t.Parallel()

	buf, err := ReadBuffer(audiotest.NewSilentSource(8000, 1, 0))
	if err != nil {
		t.Fatalf("ReadBuffer() error = %v", err)
	}
	if buf.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", buf.Frames())
	}
}

func BenchmarkReadBuffer(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		_, _ = ReadBuffer(audiotest.NewSineSource(44100, 2, 44100, 440))
	}
}
