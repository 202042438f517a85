// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/mewkiz/flac/frame"
)

type fakeParser struct {
	frames []*frame.Frame
	err    error
}

func (p *fakeParser) ParseNext() (*frame.Frame, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.frames) == 0 {
		return nil, io.EOF
	}
	f := p.frames[0]
	p.frames = p.frames[1:]
	return f, nil
}

func stereoFrame(left, right []int32) *frame.Frame {
	return &frame.Frame{Subframes: []*frame.Subframe{{Samples: left}, {Samples: right}}}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF but not flac")))
	if !errors.Is(err, ErrNotFlacFile) {
		t.Errorf("Decode() error = %v, want ErrNotFlacFile", err)
	}
}

func TestSource_Interleaves(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &fakeParser{frames: []*frame.Frame{
			stereoFrame([]int32{0, 16384}, []int32{-32768, 8192}),
			stereoFrame([]int32{100}, []int32{-100}),
		}},
		sampleRate: 44100,
		channels:   2,
		bitDepth:   16,
	}

	want := []float32{0, -1, 0.5, 0.25, 100.0 / 32768, -100.0 / 32768}

	var got []float32
	dst := make([]float32, 3)
	for {
		n, err := src.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("read %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("crc mismatch")
	src := &source{dec: &fakeParser{err: boom}, channels: 2, bitDepth: 16}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want crc mismatch", err)
	}

	mono := &source{
		dec:      &fakeParser{frames: []*frame.Frame{stereoFrame([]int32{1}, []int32{1})}},
		channels: 1,
		bitDepth: 16,
	}
	if _, err := mono.ReadSamples(make([]float32, 4)); err == nil {
		t.Error("ReadSamples() error = nil for a frame with the wrong channel count")
	}
}
