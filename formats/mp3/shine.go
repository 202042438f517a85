// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"context"
	"fmt"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// Layer III bitrates in kbps by bitrate index. MPEG-2.5 uses the first
// nine MPEG-2 entries.
var (
	mpeg1Bitrates = [...]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	mpeg2Bitrates = [...]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

type shineBackend struct{}

// Shine returns the pure Go backend built on braheezy/shine-mp3. It is
// always available. Requests above what the sample rate's MPEG version
// allows are clamped, see ShineBitrate.
func Shine() Backend { return shineBackend{} }

func (shineBackend) Name() string    { return "shine" }
func (shineBackend) Available() bool { return true }

func (shineBackend) NewFrameEncoder(_ context.Context, sampleRate, channels, bitrateKbps int) (FrameEncoder, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}

	if shine.CheckConfig(sampleRate, 32) < 0 && shine.CheckConfig(sampleRate, 8) < 0 {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedLayout, sampleRate)
	}

	kbps, index := shineBitrate(sampleRate, bitrateKbps)
	if kbps != bitrateKbps {
		logger.Warnf("shine: %d kbps is not available at %d Hz, encoding at %d kbps", bitrateKbps, sampleRate, kbps)
	}

	enc := shine.NewEncoder(sampleRate, channels)
	setBitrate(enc, kbps, index)

	return &shineEncoder{
		enc:      enc,
		channels: channels,
		pass:     samplesPerPass(sampleRate),
	}, nil
}

// ShineBitrate returns the bitrate shine encodes a kbps request at for
// sampleRate: the highest Layer III bitrate not above kbps, or the lowest
// one when kbps is below all of them. MPEG-2 rates (16000, 22050, 24000 Hz)
// top out at 160 kbps.
func ShineBitrate(sampleRate, kbps int) int {
	got, _ := shineBitrate(sampleRate, kbps)
	return got
}

func shineBitrate(sampleRate, kbps int) (int, int) {
	table := mpeg1Bitrates[:]
	switch {
	case sampleRate < 16000:
		table = mpeg2Bitrates[:9]
	case sampleRate < 32000:
		table = mpeg2Bitrates[:]
	}

	index := 1
	for i := 1; i < len(table); i++ {
		if table[i] <= kbps {
			index = i
		}
	}

	return table[index], index
}

// setBitrate replaces the 128 kbps NewEncoder configures, recomputing the
// slot layout the same way NewEncoder does.
func setBitrate(enc *shine.Encoder, kbps, index int) {
	m := &enc.Mpeg
	m.Bitrate = int64(kbps)
	m.BitrateIndex = int64(index)

	slots := float64(m.GranulesPerFrame) * shine.GRANULE_SIZE / float64(enc.Wave.SampleRate) *
		float64(kbps) * 1000 / float64(m.BitsPerSlot)
	m.WholeSlotsPerFrame = int64(slots)
	m.FracSlotsPerFrame = slots - float64(m.WholeSlotsPerFrame)
	m.Slot_lag = -m.FracSlotsPerFrame
	if m.FracSlotsPerFrame == 0 {
		m.Padding = 0
	}
}

// samplesPerPass is the number of frames shine consumes per encode call:
// two granules for MPEG-1 rates, one for MPEG-2 and 2.5.
func samplesPerPass(sampleRate int) int {
	if sampleRate >= 32000 {
		return 1152
	}

	return 576
}

// shineEncoder buffers interleaved PCM and hands shine whole passes only.
type shineEncoder struct {
	enc      *shine.Encoder
	channels int
	pass     int
	pending  []int16
	out      bytes.Buffer
	closed   bool
}

func (e *shineEncoder) EncodeBlock(left, right []int16) ([]byte, error) {
	if e.closed {
		return nil, ErrEncoderClosed
	}

	if e.channels == 2 && len(right) != len(left) {
		return nil, ErrUnsupportedLayout
	}

	for i, l := range left {
		e.pending = append(e.pending, l)
		if e.channels == 2 {
			e.pending = append(e.pending, right[i])
		}
	}

	passLen := e.pass * e.channels
	whole := len(e.pending) - len(e.pending)%passLen
	if whole == 0 {
		return nil, nil
	}

	if err := e.encode(e.pending[:whole]); err != nil {
		return nil, err
	}
	e.pending = append(e.pending[:0], e.pending[whole:]...)

	return e.take(), nil
}

func (e *shineEncoder) Flush() ([]byte, error) {
	if e.closed {
		return nil, ErrEncoderClosed
	}

	if len(e.pending) > 0 {
		// Pad the last pass with silence
		passLen := e.pass * e.channels
		padded := make([]int16, passLen)
		copy(padded, e.pending)
		e.pending = e.pending[:0]

		if err := e.encode(padded); err != nil {
			return nil, err
		}
	}

	return e.take(), nil
}

func (e *shineEncoder) Close() error {
	e.closed = true
	e.pending = nil
	return nil
}

// encode feeds samples, a whole number of passes, to shine one pass at a
// time. shine's Write steps through its input two samples per frame, which
// only matches interleaved stereo.
func (e *shineEncoder) encode(samples []int16) error {
	passLen := e.pass * e.channels
	for start := 0; start < len(samples); start += passLen {
		if err := e.enc.Write(&e.out, samples[start:start+passLen]); err != nil {
			return fmt.Errorf("shine: %w", err)
		}
	}

	return nil
}

func (e *shineEncoder) take() []byte {
	data := bytes.Clone(e.out.Bytes())
	e.out.Reset()

	return data
}
