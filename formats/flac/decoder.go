// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audconv/audio"
)

// MimeType is the MIME type of the decoded input.
const MimeType = "audio/flac"

var ErrNotFlacFile = errors.New("not a FLAC file")

// frameParser is the part of flac.Stream the source needs; tests fake it.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        frameParser
	closer     io.Closer
	sampleRate int
	channels   int
	bitDepth   int

	// decoded frame not yet handed out, interleaved
	pending []float32
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}

	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	for len(s.pending) == 0 {
		if s.eof {
			return 0, io.EOF
		}

		if err := s.next(); err != nil {
			return 0, err
		}
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// next decodes one FLAC frame into pending.
func (s *source) next() error {
	f, err := s.dec.ParseNext()
	if err == io.EOF {
		s.eof = true
		return nil
	}

	if err != nil {
		return fmt.Errorf("decoding flac frame: %w", err)
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("flac frame has %d channels, stream has %d", len(f.Subframes), s.channels)
	}

	frames := len(f.Subframes[0].Samples)
	scale := float32(int64(1) << (s.bitDepth - 1))

	s.pending = make([]float32, frames*s.channels)
	for c, sub := range f.Subframes {
		for i := range frames {
			s.pending[i*s.channels+c] = float32(sub.Samples[i]) / scale
		}
	}

	return nil
}

// Decoder decodes FLAC streams with mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info.NChannels < 1 || info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d channels at %d bits", ErrNotFlacFile, info.NChannels, info.BitsPerSample)
	}

	return &source{
		dec:        stream,
		closer:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
