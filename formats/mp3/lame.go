// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

type lameBackend struct {
	path string
}

// Lame returns a backend that streams raw PCM through the lame command line
// encoder at path ("lame" looked up on PATH when empty). It encodes constant
// bitrate streams at the requested bitrate.
func Lame(path string) Backend {
	if path == "" {
		path = "lame"
	}

	return lameBackend{path: path}
}

func (b lameBackend) Name() string { return "lame" }

func (b lameBackend) Available() bool {
	_, err := exec.LookPath(b.path)
	return err == nil
}

func (b lameBackend) NewFrameEncoder(ctx context.Context, sampleRate, channels, bitrateKbps int) (FrameEncoder, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}

	cmd := exec.CommandContext(ctx, b.path, lameArgs(sampleRate, channels, bitrateKbps)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("lame stdin: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("lame stdout: %w", err)
	}

	e := &lameEncoder{
		cmd:      cmd,
		stdin:    stdin,
		channels: channels,
		done:     make(chan error, 1),
	}
	cmd.Stderr = &e.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting lame: %w", err)
	}

	// lame blocks on a full stdout pipe, so drain it while blocks are written
	go func() {
		_, err := io.Copy(&e.out, stdout)
		e.done <- err
	}()

	return e, nil
}

func lameArgs(sampleRate, channels, bitrateKbps int) []string {
	khz := strconv.FormatFloat(float64(sampleRate)/1000, 'f', -1, 64)

	mode := "j"
	if channels == 1 {
		mode = "m"
	}

	return []string{
		"-r", "-s", khz, "--bitwidth", "16", "--signed", "--little-endian",
		"-m", mode,
		"-b", strconv.Itoa(bitrateKbps), "--cbr",
		"--resample", khz,
		"--quiet",
		"-", "-",
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p)
}

func (s *syncBuffer) take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := bytes.Clone(s.buf.Bytes())
	s.buf.Reset()

	return data
}

type lameEncoder struct {
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	channels int
	out      syncBuffer
	stderr   bytes.Buffer
	done     chan error
	scratch  []byte
	finished bool
}

func (e *lameEncoder) EncodeBlock(left, right []int16) ([]byte, error) {
	if e.finished {
		return nil, ErrEncoderClosed
	}

	if e.channels == 2 && len(right) != len(left) {
		return nil, ErrUnsupportedLayout
	}

	size := len(left) * e.channels * 2
	if cap(e.scratch) < size {
		e.scratch = make([]byte, size)
	}
	e.scratch = e.scratch[:size]

	for i, l := range left {
		off := i * e.channels * 2
		binary.LittleEndian.PutUint16(e.scratch[off:], uint16(l))
		if e.channels == 2 {
			binary.LittleEndian.PutUint16(e.scratch[off+2:], uint16(right[i]))
		}
	}

	if _, err := e.stdin.Write(e.scratch); err != nil {
		return nil, fmt.Errorf("writing to lame: %w", err)
	}

	return e.out.take(), nil
}

func (e *lameEncoder) Flush() ([]byte, error) {
	if e.finished {
		return nil, ErrEncoderClosed
	}
	e.finished = true

	if err := e.stdin.Close(); err != nil {
		return nil, fmt.Errorf("closing lame stdin: %w", err)
	}

	copyErr := <-e.done
	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("lame: %w: %s", err, bytes.TrimSpace(e.stderr.Bytes()))
	}

	if copyErr != nil {
		return nil, fmt.Errorf("reading lame output: %w", copyErr)
	}

	return e.out.take(), nil
}

// Close stops lame if Flush was never reached.
func (e *lameEncoder) Close() error {
	if e.finished {
		return nil
	}
	e.finished = true

	_ = e.stdin.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	<-e.done
	_ = e.cmd.Wait()

	return nil
}
