// SPDX-License-Identifier: EPL-2.0

package conform

import "github.com/ik5/audconv/audio"

// DefaultQuantum is the number of frames pulled from the graph per step.
const DefaultQuantum = 4096

type options struct {
	alwaysRender bool
	quantum      int
	resampler    audio.ResamplerFunc
}

func defaultOptions() options {
	return options{
		quantum:   DefaultQuantum,
		resampler: audio.CubicResampler,
	}
}

type Option func(*options)

// WithAlwaysRender renders through the graph even when the buffer already
// matches the target.
func WithAlwaysRender() Option {
	return func(o *options) { o.alwaysRender = true }
}

// WithQuantum sets the render step in frames. Values below 1 are ignored.
func WithQuantum(frames int) Option {
	return func(o *options) {
		if frames > 0 {
			o.quantum = frames
		}
	}
}

// WithResampler replaces the cubic resampler, e.g. with sinc.Resampler.
func WithResampler(fn audio.ResamplerFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.resampler = fn
		}
	}
}
