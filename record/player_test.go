// SPDX-License-Identifier: EPL-2.0

package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pion/mediadevices/pkg/wave"

	"github.com/ik5/audconv/internal/audiotest"
)

func collect(ctx context.Context, p *player) []*wave.Int16Interleaved {
	out := make(chan *wave.Int16Interleaved)
	go p.run(ctx, out)

	var chunks []*wave.Int16Interleaved
	for c := range out {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestPlayer_PadsFinalChunk(t *testing.T) {
	t.Parallel()

	buf := newBuffer(t, CaptureRate, audiotest.Constant(1000, 0.5), audiotest.Constant(1000, -0.5))
	p, err := newPlayer(buf, CaptureRate)
	if err != nil {
		t.Fatalf("newPlayer() error = %v", err)
	}
	p.interval = time.Millisecond

	chunks := collect(context.Background(), p)
	if p.err != nil {
		t.Fatalf("player error = %v", p.err)
	}

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}

	last := chunks[1].Data
	if len(last) != 960*2 {
		t.Fatalf("last chunk samples = %d, want %d", len(last), 960*2)
	}

	// 40 real frames then silence
	if last[0] != 16384 || last[1] != -16384 || last[79] != -16384 {
		t.Errorf("real frames = %v", last[:4])
	}

	for i := 80; i < len(last); i++ {
		if last[i] != 0 {
			t.Fatalf("padding sample %d = %d, want 0", i, last[i])
		}
	}
}

func TestPlayer_Canceled(t *testing.T) {
	t.Parallel()

	buf := newBuffer(t, CaptureRate, audiotest.Constant(10*CaptureRate, 0))
	p, err := newPlayer(buf, CaptureRate)
	if err != nil {
		t.Fatalf("newPlayer() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	chunks := collect(ctx, p)
	if !errors.Is(p.err, context.DeadlineExceeded) {
		t.Errorf("player error = %v, want DeadlineExceeded", p.err)
	}

	if len(chunks) > 10 {
		t.Errorf("chunks = %d, want pacing to limit output", len(chunks))
	}
}

func TestChunkFrames(t *testing.T) {
	t.Parallel()

	for rate, want := range map[int]int{48000: 960, 16000: 320, 44100: 882} {
		if got := chunkFrames(rate); got != want {
			t.Errorf("chunkFrames(%d) = %d, want %d", rate, got, want)
		}
	}
}
