// SPDX-License-Identifier: EPL-2.0

// Package sinc resamples with libsamplerate's band-limited sinc converters
// through github.com/dh1tw/gosamplerate. It needs cgo and libsamplerate.
package sinc

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dh1tw/gosamplerate"

	"github.com/ik5/audconv/audio"
)

type Quality int

const (
	BestQuality   Quality = gosamplerate.SRC_SINC_BEST_QUALITY
	MediumQuality Quality = gosamplerate.SRC_SINC_MEDIUM_QUALITY
	Fastest       Quality = gosamplerate.SRC_SINC_FASTEST
)

// chunkFrames is the number of input frames passed to libsamplerate per call.
const chunkFrames = 2048

var ErrClosed = errors.New("sinc resampler closed")

// Source streams src converted to a new sample rate.
type Source struct {
	src      audio.Source
	conv     gosamplerate.Src
	dstRate  int
	channels int
	ratio    float64

	in      []float32
	pending []float32
	srcEOF  bool
	done    bool
	closed  bool
}

// New creates a resampling Source. The caller must Close it to release the
// libsamplerate state.
func New(src audio.Source, dstRate int, q Quality) (*Source, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, audio.ErrInvalidSampleRate
	}

	channels := src.Channels()
	if channels < 1 {
		return nil, audio.ErrUnsupportedChannels
	}

	ratio := float64(dstRate) / float64(src.SampleRate())
	// Output capacity for one chunk, in samples across all channels
	bufferLen := (int(math.Ceil(chunkFrames*ratio)) + 256) * channels

	conv, err := gosamplerate.New(int(q), channels, bufferLen)
	if err != nil {
		return nil, fmt.Errorf("creating sinc converter: %w", err)
	}

	return &Source{
		src:      src,
		conv:     conv,
		dstRate:  dstRate,
		channels: channels,
		ratio:    ratio,
		in:       make([]float32, chunkFrames*channels),
	}, nil
}

// Resampler adapts New to audio.ResamplerFunc.
func Resampler(q Quality) audio.ResamplerFunc {
	return func(src audio.Source, dstRate int) (audio.Source, error) {
		return New(src, dstRate, q)
	}
}

func (s *Source) SampleRate() int { return s.dstRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return len(s.in) }

func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	errDelete := gosamplerate.Delete(s.conv)
	errSrc := s.src.Close()
	if err := errors.Join(errDelete, errSrc); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	for len(s.pending) == 0 {
		if s.done {
			return 0, io.EOF
		}

		if err := s.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// fill converts the next input chunk. Once src is exhausted the converter
// is drained until it stops producing output.
func (s *Source) fill() error {
	var in []float32
	if !s.srcEOF {
		n, err := s.src.ReadSamples(s.in)
		if err == io.EOF {
			s.srcEOF = true
		} else if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		in = s.in[:n-n%s.channels]
	}

	out, err := s.conv.Process(in, s.ratio, s.srcEOF)
	if err != nil {
		return fmt.Errorf("sinc conversion: %w", err)
	}

	if s.srcEOF && len(in) == 0 && len(out) == 0 {
		s.done = true
	}

	s.pending = append(s.pending[:0], out...)

	return nil
}
