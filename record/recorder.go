// SPDX-License-Identifier: EPL-2.0

package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pion/mediadevices/pkg/wave"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/conform"
	"github.com/ik5/audconv/internal/logging"
)

const (
	// DefaultTimeslice is how often staged container bytes are collected.
	DefaultTimeslice = 100 * time.Millisecond
	// DefaultGrace is the wait between playback end and finalizing.
	DefaultGrace = 100 * time.Millisecond
	// MaxGrace bounds the grace delay.
	MaxGrace = 150 * time.Millisecond
)

var logger = logging.NewLogger("audconv/record")

// Recorder plays buffers in real time through a Codec.
// It holds no per-recording state and is safe for concurrent use.
type Recorder struct {
	codecs    map[string]Codec
	timeslice time.Duration
	grace     time.Duration
	rate      int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCodec registers c for its MIME type, replacing an earlier codec.
func WithCodec(c Codec) Option {
	return func(r *Recorder) {
		r.codecs[c.MimeType()] = c
	}
}

// WithTimeslice sets the collection interval. Non-positive values are ignored.
func WithTimeslice(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeslice = d
		}
	}
}

// WithGrace sets the grace delay, clamped to [0, MaxGrace].
func WithGrace(d time.Duration) Option {
	return func(r *Recorder) {
		r.grace = min(max(d, 0), MaxGrace)
	}
}

// NewRecorder returns a Recorder capturing at CaptureRate.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		codecs:    make(map[string]Codec),
		timeslice: DefaultTimeslice,
		grace:     DefaultGrace,
		rate:      CaptureRate,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Default returns a Recorder with the Ogg/Opus codec.
func Default() *Recorder {
	return NewRecorder(WithCodec(OggOpus()))
}

// Supports reports whether a codec is registered for mime.
func (r *Recorder) Supports(mime string) bool {
	_, ok := r.codecs[mime]
	return ok
}

// MimeTypes returns the registered MIME types, sorted.
func (r *Recorder) MimeTypes() []string {
	types := make([]string, 0, len(r.codecs))
	for m := range r.codecs {
		types = append(types, m)
	}
	slices.Sort(types)

	return types
}

// Grace returns the effective grace delay.
func (r *Recorder) Grace() time.Duration { return r.grace }

// ProgressFunc receives the number of frames captured so far and the total.
type ProgressFunc func(done, total int)

type recordOptions struct {
	bitrateKbps int
	progress    ProgressFunc
}

// RecordOption configures a single Record call.
type RecordOption func(*recordOptions)

// WithBitrate requests a codec bitrate in kbps.
func WithBitrate(kbps int) RecordOption {
	return func(o *recordOptions) { o.bitrateKbps = kbps }
}

// WithProgress reports capture progress after every chunk.
func WithProgress(fn ProgressFunc) RecordOption {
	return func(o *recordOptions) { o.progress = fn }
}

// Record plays buf in real time and returns the container bytes the codec
// for mime produced. It blocks for about the duration of buf plus the
// grace delay.
//
// ErrUnsupportedMimeType is returned before playback when no codec is
// registered for mime. Every later failure, including cancellation of
// ctx, wraps ErrRecording.
func (r *Recorder) Record(ctx context.Context, buf *audio.Buffer, mime string, opts ...RecordOption) ([]byte, error) {
	codec, ok := r.codecs[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMimeType, mime)
	}

	if buf == nil || buf.Frames() == 0 {
		return nil, ErrEmptyBuffer
	}

	var o recordOptions
	for _, opt := range opts {
		opt(&o)
	}

	p, err := newPlayer(buf, r.rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecording, err)
	}

	staging := &stagingBuffer{}
	sess, err := codec.NewSession(staging, Format{
		SampleRate:  r.rate,
		Channels:    buf.Channels(),
		BitrateKbps: o.bitrateKbps,
	})
	if err != nil {
		p.src.Close()
		return nil, fmt.Errorf("%w: starting %s session: %w", ErrRecording, mime, err)
	}

	logger.Debugf("recording %s of audio as %s", buf.Duration(), mime)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := conform.OutputFrames(buf.Frames(), buf.SampleRate(), r.rate)
	chunks := make(chan *wave.Int16Interleaved, 1)

	var (
		wg   sync.WaitGroup
		data []byte
		rerr error
	)

	wg.Go(func() {
		p.run(ctx, chunks)
	})
	wg.Go(func() {
		// A recorder failure must stop the player.
		defer cancel()
		data, rerr = r.record(ctx, sess, staging, chunks, total, o.progress)
	})
	wg.Wait()

	if rerr != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecording, rerr)
	}

	if p.err != nil && !errors.Is(p.err, context.Canceled) {
		return nil, fmt.Errorf("%w: playback: %w", ErrRecording, p.err)
	}

	return data, nil
}

// record consumes chunks until playback ends, collecting staged bytes
// every timeslice. The session is closed on every path.
func (r *Recorder) record(
	ctx context.Context,
	sess Session,
	staging *stagingBuffer,
	chunks <-chan *wave.Int16Interleaved,
	total int,
	progress ProgressFunc,
) (out []byte, err error) {
	closed := false
	defer func() {
		if !closed {
			if cerr := sess.Close(); cerr != nil {
				logger.Warnf("closing session: %v", cerr)
			}
		}
	}()

	ticker := time.NewTicker(r.timeslice)
	defer ticker.Stop()

	captured := 0

playback:
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				break playback
			}

			if err := sess.WriteChunk(chunk); err != nil {
				return nil, err
			}

			captured = min(captured+chunk.Size.Len, total)
			if progress != nil {
				progress(captured, total)
			}
		case <-ticker.C:
			out = append(out, staging.Take()...)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// The player also closes the stream when ctx is canceled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grace := time.NewTimer(r.grace)
	defer grace.Stop()

wait:
	for {
		select {
		case <-grace.C:
			break wait
		case <-ticker.C:
			out = append(out, staging.Take()...)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	closed = true
	if err := sess.Close(); err != nil {
		return nil, fmt.Errorf("finalizing: %w", err)
	}
	out = append(out, staging.Take()...)

	return out, nil
}

// stagingBuffer holds container bytes until the next collection.
type stagingBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *stagingBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p)
}

// Take returns and clears the staged bytes.
func (s *stagingBuffer) Take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf.Len() == 0 {
		return nil
	}

	data := bytes.Clone(s.buf.Bytes())
	s.buf.Reset()

	return data
}
