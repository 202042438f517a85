// SPDX-License-Identifier: EPL-2.0

package record

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pion/mediadevices/pkg/wave"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/utils"
)

// CaptureRate is the sample rate of the capture stream.
const CaptureRate = 48000

// ChunkDuration is the length of one captured chunk.
const ChunkDuration = 20 * time.Millisecond

// chunkFrames returns the number of frames in one chunk at rate.
func chunkFrames(rate int) int {
	return int(int64(rate) * int64(ChunkDuration) / int64(time.Second))
}

// player streams a Buffer as paced capture chunks.
type player struct {
	src      audio.Source
	frames   int
	interval time.Duration

	err error
}

func newPlayer(buf *audio.Buffer, rate int) (*player, error) {
	src := buf.Source()
	if buf.SampleRate() != rate {
		rs, err := audio.CubicResampler(src, rate)
		if err != nil {
			return nil, fmt.Errorf("resampling to %d Hz: %w", rate, err)
		}
		src = rs
	}

	return &player{
		src:      src,
		frames:   chunkFrames(rate),
		interval: ChunkDuration,
	}, nil
}

// run sends chunks to out, one per interval, and closes out when the
// source is drained, reading fails or ctx is done. The first chunk is sent
// immediately. A short final chunk is zero padded to a full chunk.
func (p *player) run(ctx context.Context, out chan<- *wave.Int16Interleaved) {
	defer close(out)
	defer p.src.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	channels := p.src.Channels()
	samples := make([]float32, p.frames*channels)

	for {
		n, err := readFull(p.src, samples)
		if n > 0 {
			chunk := wave.NewInt16Interleaved(wave.ChunkInfo{
				Len:          p.frames,
				Channels:     channels,
				SamplingRate: p.src.SampleRate(),
			})
			for i, s := range samples[:n] {
				chunk.Data[i] = utils.Float32ToInt16(s)
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				p.err = ctx.Err()
				return
			}
		}

		if err == io.EOF {
			return
		}

		if err != nil {
			p.err = err
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			p.err = ctx.Err()
			return
		}
	}
}

// readFull reads until dst is full or src ends.
func readFull(src audio.Source, dst []float32) (int, error) {
	total := 0
	stalls := 0

	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n

		if err != nil {
			return total, err
		}

		if n == 0 {
			stalls++
			if stalls > 100 {
				return total, io.ErrNoProgress
			}
			continue
		}
		stalls = 0
	}

	return total, nil
}
