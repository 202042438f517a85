// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/capability"
	"github.com/ik5/audconv/conform"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/wav"
	"github.com/ik5/audconv/internal/logging"
	"github.com/ik5/audconv/record"
)

var logger = logging.NewLogger("audconv/pipeline")

// Converter turns input audio bytes into an encoded Result. It keeps no
// per-conversion state and is safe for concurrent use.
type Converter struct {
	registry  *audio.Registry
	caps      capability.Table
	backend   mp3.Backend
	recorder  *record.Recorder
	resampler audio.ResamplerFunc
	hook      StateHook
}

// Option configures a Converter.
type Option func(*Converter)

// WithRegistry replaces the decoder registry.
func WithRegistry(r *audio.Registry) Option {
	return func(c *Converter) { c.registry = r }
}

// WithCapabilities sets the capability table. Without it the table is
// probed from the configured MP3 backend and recorder.
func WithCapabilities(t capability.Table) Option {
	return func(c *Converter) { c.caps = t }
}

// WithMP3Backend sets the MP3 frame encoder backend. nil disables MP3.
func WithMP3Backend(b mp3.Backend) Option {
	return func(c *Converter) { c.backend = b }
}

// WithRecorder sets the realtime recorder used for OGG. nil disables OGG.
func WithRecorder(r *record.Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// WithResampler sets the resampler used by the conformance stage.
func WithResampler(fn audio.ResamplerFunc) Option {
	return func(c *Converter) { c.resampler = fn }
}

// WithStateHook observes every state transition.
func WithStateHook(h StateHook) Option {
	return func(c *Converter) { c.hook = h }
}

// New returns a Converter. By default every built-in decoder is
// registered, MP3 uses lame when installed and shine otherwise, and OGG is
// recorded in real time as Ogg/Opus.
func New(opts ...Option) *Converter {
	c := &Converter{
		registry:  DefaultRegistry(),
		backend:   mp3.Auto(mp3.Lame(""), mp3.Shine()),
		recorder:  record.Default(),
		resampler: audio.CubicResampler,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.caps == nil {
		c.caps = capability.Probe(capability.Default(c.backend, c.recorder)...)
	}

	return c
}

// Capabilities returns the table the converter gates encoding on.
func (c *Converter) Capabilities() capability.Table { return c.caps }

// run is the state of a single conversion.
type run struct {
	id       string
	state    State
	hook     StateHook
	progress *progress
}

func (r *run) enter(s State) {
	from := r.state
	r.state = s
	logger.Debugf("[%s] %s -> %s", r.id, from, s)

	if r.hook != nil {
		r.hook(r.id, from, s)
	}
}

// fail moves the run to Failed and returns the error describing it.
func (r *run) fail(kind error, err error) error {
	e := newError(kind, r.state, err)
	logger.Warnf("[%s] %v", r.id, e)
	r.enter(Failed)

	return e
}

// Convert decodes data, conforms it to req and encodes it. onProgress may
// be nil. Every error is an *Error.
//
// Support for the requested format is checked against the capability
// table before decoding starts; an unsupported format fails with
// ErrEncoderUnavailable without producing any output.
func (c *Converter) Convert(ctx context.Context, data []byte, req Request, onProgress ProgressFunc) (*Result, error) {
	r := &run{
		id:       uuid.NewString(),
		state:    Idle,
		hook:     c.hook,
		progress: newProgress(onProgress),
	}

	if err := req.Validate(); err != nil {
		return nil, newError(ErrInvalidRequest, Idle, err)
	}

	logger.Infof("[%s] converting %d bytes to %s %d Hz %d ch",
		r.id, len(data), req.Format, req.SampleRate, req.Channels)

	r.enter(Decoding)
	r.progress.report(progressDecoding)

	if err := c.checkEncoder(req.Format); err != nil {
		return nil, r.fail(ErrEncoderUnavailable, err)
	}

	mime, buf, err := decode(c.registry, data)
	if err != nil {
		return nil, r.fail(ErrDecode, err)
	}
	logger.Debugf("[%s] decoded %s: %d frames %d Hz %d ch", r.id, mime, buf.Frames(), buf.SampleRate(), buf.Channels())
	r.progress.report(progressDecoded)

	r.enter(Conforming)
	conformed, err := conform.Conform(ctx, buf, req.SampleRate, req.Channels, conform.WithResampler(c.resampler))
	if err != nil {
		return nil, r.fail(ErrRender, err)
	}
	r.progress.report(progressConformed)

	r.enter(Quantizing)
	pcm := audio.Quantize(conformed)
	r.progress.report(progressQuantized)

	r.enter(Encoding)
	out, err := c.encode(ctx, r, req, conformed, pcm)
	if err != nil {
		return nil, r.fail(encodeKind(err), err)
	}

	r.enter(Done)
	r.progress.report(progressDone)

	logger.Infof("[%s] done: %d bytes %s", r.id, len(out), req.Format.MimeType())

	return &Result{
		Data:       out,
		MimeType:   req.Format.MimeType(),
		Format:     req.Format,
		SampleRate: pcm.SampleRate,
		Channels:   len(pcm.Channels),
		Frames:     pcm.Frames(),
		RunID:      r.id,
	}, nil
}

// checkEncoder reports why f cannot be produced, if it cannot.
func (c *Converter) checkEncoder(f Format) error {
	if !c.caps.Supported(f.MimeType()) {
		return fmt.Errorf("%s is not supported on this host", f.MimeType())
	}

	switch f {
	case MP3:
		if c.backend == nil || !c.backend.Available() {
			return mp3.ErrEncoderUnavailable
		}
	case OGG:
		if c.recorder == nil || !c.recorder.Supports(f.MimeType()) {
			return fmt.Errorf("no recorder for %s", f.MimeType())
		}
	}

	return nil
}

func (c *Converter) encode(ctx context.Context, r *run, req Request, buf *audio.Buffer, pcm *audio.PCM16) ([]byte, error) {
	switch req.Format {
	case WAV:
		return wav.EncodePCM(pcm)
	case MP3:
		return mp3.Encode(ctx, pcm, req.BitrateKbps, c.backend, r.progress.encode)
	case OGG:
		return c.recorder.Record(ctx, buf, req.Format.MimeType(),
			record.WithBitrate(req.BitrateKbps),
			record.WithProgress(r.progress.encode))
	}

	return nil, fmt.Errorf("no encoder for %s", req.Format)
}

// encodeKind classifies an encoder error.
func encodeKind(err error) error {
	switch {
	case errors.Is(err, mp3.ErrEncoderUnavailable), errors.Is(err, record.ErrUnsupportedMimeType):
		return ErrEncoderUnavailable
	case errors.Is(err, record.ErrRecording):
		return ErrRecording
	}

	return ErrEncode
}
