// SPDX-License-Identifier: EPL-2.0

// Package conform converts a decoded Buffer to a target sample rate and
// channel count by rendering it offline through a streaming graph.
package conform

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/internal/logging"
)

var logger = logging.NewLogger("audconv/conform")

// maxStalledReads bounds consecutive empty reads from the graph.
const maxStalledReads = 100

// OutputFrames returns ceil(frames * dstRate / srcRate).
func OutputFrames(frames, srcRate, dstRate int) int {
	num := int64(frames) * int64(dstRate)
	den := int64(srcRate)

	return int((num + den - 1) / den)
}

// Conform returns a new Buffer holding buf at sampleRate with channels
// channels. Stereo to mono averages the channels, mono to stereo duplicates
// the channel. The result always has OutputFrames(buf.Frames(), ...) frames.
//
// When buf already matches the target a copy is returned unless
// WithAlwaysRender is given.
func Conform(ctx context.Context, buf *audio.Buffer, sampleRate, channels int, opts ...Option) (*audio.Buffer, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, ErrEmptyInput
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidTarget, sampleRate)
	}

	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidTarget, channels)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !o.alwaysRender && buf.SampleRate() == sampleRate && buf.Channels() == channels {
		return buf.Clone(), nil
	}

	src, err := graph(buf, sampleRate, channels, o.resampler)
	if err != nil {
		return nil, fmt.Errorf("%w: building graph: %w", ErrRender, err)
	}
	defer src.Close()

	frames := OutputFrames(buf.Frames(), buf.SampleRate(), sampleRate)
	logger.Debugf("rendering %d frames %d Hz %d ch -> %d frames %d Hz %d ch",
		buf.Frames(), buf.SampleRate(), buf.Channels(), frames, sampleRate, channels)

	data, err := render(ctx, src, frames, channels, o.quantum)
	if err != nil {
		return nil, err
	}

	out, err := audio.NewBuffer(sampleRate, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return out, nil
}

// graph wires buffer -> [mono mixer] -> [resampler] -> [stereo expander].
// Mixing down before resampling halves the resampling work.
func graph(buf *audio.Buffer, sampleRate, channels int, resample audio.ResamplerFunc) (audio.Source, error) {
	src := buf.Source()

	if buf.Channels() == 2 && channels == 1 {
		src = audio.NewMonoMixer(src)
	}

	if buf.SampleRate() != sampleRate {
		res, err := resample(src, sampleRate)
		if err != nil {
			return nil, err
		}
		src = res
	}

	if src.Channels() == 1 && channels == 2 {
		src = audio.NewStereoExpander(src)
	}

	return src, nil
}

// render pulls exactly frames frames from src in steps of quantum frames.
// A graph that ends early leaves silence behind; extra output is dropped.
func render(ctx context.Context, src audio.Source, frames, channels, quantum int) ([][]float32, error) {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	step := make([]float32, quantum*channels)
	written := 0
	stalls := 0

	for written < frames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}

		want := min(quantum, frames-written)
		n, err := src.ReadSamples(step[:want*channels])

		got := n / channels
		for f := range got {
			for c := range channels {
				data[c][written+f] = step[f*channels+c]
			}
		}
		written += got

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}

		if got == 0 {
			stalls++
			if stalls > maxStalledReads {
				return nil, fmt.Errorf("%w: %w", ErrRender, io.ErrNoProgress)
			}
			continue
		}
		stalls = 0
	}

	if written < frames {
		logger.Tracef("graph ended %d frames early, padded with silence", frames-written)
	}

	return data, nil
}
