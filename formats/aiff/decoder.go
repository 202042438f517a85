// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audconv/audio"
)

// MimeType is the MIME type of the decoded input.
const MimeType = "audio/aiff"

// pcmReader is the part of aiff.Decoder the source reads from.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source streams whole frames from an AIFF file as float32.
type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	// AIFF samples are signed at every depth
	scale float32
	ints  *goaudio.IntBuffer
}

func newSource(dec pcmReader, sampleRate, channels, bitDepth int) *source {
	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      float32(int64(1) << (bitDepth - 1)),
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) BufSize() int {
	if s.ints == nil {
		return 4096
	}

	return cap(s.ints.Data)
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if s.ints == nil || cap(s.ints.Data) < want {
		s.ints = &goaudio.IntBuffer{Data: make([]int, want), Format: s.dec.Format()}
	}
	s.ints.Data = s.ints.Data[:want]

	n, err := s.dec.PCMBuffer(s.ints)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading aiff pcm: %w", err)
	}

	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.ints.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	return n, nil
}

// Decoder decodes uncompressed AIFF with go-audio/aiff. 8, 16, 24 and
// 32-bit samples are accepted.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	depth := int(dec.BitDepth)
	if depth != 8 && depth != 16 && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	return newSource(dec, format.SampleRate, format.NumChannels, depth), nil
}
