// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"context"
	"fmt"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/internal/logging"
)

// BlockFrames is the number of frames handed to a FrameEncoder per call,
// one MPEG-1 layer III frame.
const BlockFrames = 1152

// MimeType is the MIME type of the encoded output.
const MimeType = "audio/mpeg"

var logger = logging.NewLogger("audconv/mp3")

// FrameEncoder turns blocks of 16-bit PCM into MP3 bytes. It is stateful and
// owned by a single Encode call.
type FrameEncoder interface {
	// EncodeBlock encodes one block. right is nil for mono input. The
	// returned bytes may be empty while the encoder buffers.
	EncodeBlock(left, right []int16) ([]byte, error)
	// Flush emits everything still buffered. It is called once, after the
	// last block.
	Flush() ([]byte, error)
	// Close releases the encoder. It is safe to call after Flush.
	Close() error
}

// Backend creates frame encoders.
type Backend interface {
	Name() string
	// Available reports whether NewFrameEncoder can succeed on this host.
	Available() bool
	NewFrameEncoder(ctx context.Context, sampleRate, channels, bitrateKbps int) (FrameEncoder, error)
}

// ProgressFunc receives the number of frames encoded so far and the total.
type ProgressFunc func(done, total int)

// Encode feeds pcm to a fresh frame encoder from backend in blocks of
// BlockFrames, flushes it once and returns the concatenated output. The
// final block may be shorter; it is never padded.
//
// ErrEncoderUnavailable is returned before any block is encoded when
// backend is nil or not available.
func Encode(ctx context.Context, pcm *audio.PCM16, bitrateKbps int, backend Backend, progress ProgressFunc) ([]byte, error) {
	if backend == nil {
		return nil, ErrEncoderUnavailable
	}

	if !backend.Available() {
		return nil, fmt.Errorf("%w: %s backend not available", ErrEncoderUnavailable, backend.Name())
	}

	channels := len(pcm.Channels)
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}

	total := pcm.Frames()
	if channels == 2 && len(pcm.Channels[1]) != total {
		return nil, ErrUnsupportedLayout
	}

	enc, err := backend.NewFrameEncoder(ctx, pcm.SampleRate, channels, bitrateKbps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoderUnavailable, err)
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil {
			logger.Warnf("closing %s encoder: %v", backend.Name(), cerr)
		}
	}()

	logger.Debugf("encoding %d frames at %d Hz, %d ch, %d kbps with %s",
		total, pcm.SampleRate, channels, bitrateKbps, backend.Name())

	var out []byte
	for start := 0; start < total; start += BlockFrames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}

		end := min(start+BlockFrames, total)
		left := pcm.Channels[0][start:end]
		var right []int16
		if channels == 2 {
			right = pcm.Channels[1][start:end]
		}

		data, err := enc.EncodeBlock(left, right)
		if err != nil {
			return nil, fmt.Errorf("%w: block at frame %d: %w", ErrEncode, start, err)
		}
		out = append(out, data...)

		if progress != nil {
			progress(end, total)
		}
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("%w: flush: %w", ErrEncode, err)
	}
	out = append(out, tail...)

	return out, nil
}

// Auto returns the first available backend, or nil when none is.
func Auto(backends ...Backend) Backend {
	for _, b := range backends {
		if b != nil && b.Available() {
			return b
		}
	}

	return nil
}
