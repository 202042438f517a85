// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audconv/utils"

// PCM16 is quantized audio, one int16 array per channel.
type PCM16 struct {
	SampleRate int
	Channels   [][]int16
}

// Frames returns the number of samples per channel.
func (p *PCM16) Frames() int {
	if len(p.Channels) == 0 {
		return 0
	}

	return len(p.Channels[0])
}

// Interleaved returns the samples frame by frame (ch0, ch1, ch0, ch1, ...).
func (p *PCM16) Interleaved() []int16 {
	channels := len(p.Channels)
	if channels == 1 {
		return append([]int16(nil), p.Channels[0]...)
	}

	frames := p.Frames()
	out := make([]int16, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = p.Channels[c][f]
		}
	}

	return out
}

// Quantize converts each channel of b to 16-bit PCM independently.
func Quantize(b *Buffer) *PCM16 {
	channels := make([][]int16, len(b.channels))
	for i, ch := range b.channels {
		channels[i] = utils.Quantize16(ch)
	}

	return &PCM16{SampleRate: b.sampleRate, Channels: channels}
}
