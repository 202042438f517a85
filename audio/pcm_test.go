// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"slices"
	"testing"
)

func TestQuantize_PerChannel(t *testing.T) {
	t.Parallel()

	buf, _ := NewBuffer(8000, [][]float32{{1, 0, -1}, {2, -2, 0.5}})
	pcm := Quantize(buf)

	if pcm.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", pcm.SampleRate)
	}
	if !slices.Equal(pcm.Channels[0], []int16{math.MaxInt16, 0, math.MinInt16}) {
		t.Errorf("Channels[0] = %v", pcm.Channels[0])
	}
	if !slices.Equal(pcm.Channels[1], []int16{math.MaxInt16, math.MinInt16, 16384}) {
		t.Errorf("Channels[1] = %v", pcm.Channels[1])
	}
}

func TestPCM16_Interleaved(t *testing.T) {
	t.Parallel()

	pcm := &PCM16{SampleRate: 8000, Channels: [][]int16{{1, 2, 3}, {-1, -2, -3}}}
	if got, want := pcm.Interleaved(), []int16{1, -1, 2, -2, 3, -3}; !slices.Equal(got, want) {
		t.Errorf("Interleaved() = %v, want %v", got, want)
	}

	mono := &PCM16{SampleRate: 8000, Channels: [][]int16{{7, 8}}}
	out := mono.Interleaved()
	out[0] = 0
	if mono.Channels[0][0] != 7 {
		t.Error("Interleaved() of mono aliases the channel storage")
	}
}
