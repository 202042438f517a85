// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is decoded audio held in memory as one float32 array per channel.
// A Buffer is never modified after construction; every processing stage
// produces a new one.
type Buffer struct {
	sampleRate int
	channels   [][]float32
}

// NewBuffer copies channels into a new Buffer.
// Only mono and stereo are accepted and all channels must have equal length.
func NewBuffer(sampleRate int, channels [][]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if len(channels) < 1 || len(channels) > 2 {
		return nil, ErrUnsupportedChannels
	}

	frames := len(channels[0])
	data := make([][]float32, len(channels))
	for i, ch := range channels {
		if len(ch) != frames {
			return nil, ErrChannelLength
		}
		data[i] = append([]float32(nil), ch...)
	}

	return &Buffer{sampleRate: sampleRate, channels: data}, nil
}

// newBufferNoCopy takes ownership of channels. Callers must not keep references.
func newBufferNoCopy(sampleRate int, channels [][]float32) *Buffer {
	return &Buffer{sampleRate: sampleRate, channels: channels}
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return len(b.channels) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}

	return len(b.channels[0])
}

// Channel returns the samples of channel ch. The slice must be treated as read-only.
func (b *Buffer) Channel(ch int) []float32 {
	return b.channels[ch]
}

// Seconds returns the buffer duration in seconds.
func (b *Buffer) Seconds() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([][]float32, len(b.channels))
	for i, ch := range b.channels {
		data[i] = append([]float32(nil), ch...)
	}

	return newBufferNoCopy(b.sampleRate, data)
}

// Source streams the buffer as interleaved samples.
// Each call returns an independent reader positioned at the first frame.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int // frames already read
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return len(s.buf.channels) }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.buf.channels)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.buf.Frames() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = s.buf.channels[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.buf.Frames() {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}

const maxStalledReads = 100

// ReadBuffer drains src into a new Buffer. src is not closed.
func ReadBuffer(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, channels)
	}

	if src.SampleRate() <= 0 {
		return nil, ErrInvalidSampleRate
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels

	data := make([][]float32, channels)
	buf := make([]float32, size)
	// A trailing partial frame is kept across reads so decoders returning
	// odd sample counts still deinterleave correctly.
	var carry []float32
	stalls := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples := buf[:n]
			if len(carry) > 0 {
				samples = append(carry, samples...)
				carry = nil
			}

			whole := len(samples) - len(samples)%channels
			for i := 0; i < whole; i += channels {
				for c := range channels {
					data[c] = append(data[c], samples[i+c])
				}
			}
			if whole < len(samples) {
				carry = append([]float32(nil), samples[whole:]...)
			}
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}

		// Some decoders report (0, nil) between frames; keep pulling, but
		// not forever.
		if n == 0 {
			stalls++
			if stalls > maxStalledReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		stalls = 0
	}

	for c := range data {
		if data[c] == nil {
			data[c] = []float32{}
		}
	}

	return newBufferNoCopy(src.SampleRate(), data), nil
}
