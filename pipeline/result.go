// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"fmt"
	"math"
	"time"
)

// Result is an encoded file. It is not modified after Convert returns.
type Result struct {
	Data     []byte
	MimeType string
	Format   Format

	SampleRate int
	Channels   int
	Frames     int

	// RunID identifies the conversion in log output.
	RunID string
}

// Len returns the size of the encoded data in bytes.
func (r *Result) Len() int { return len(r.Data) }

// Duration of the encoded audio.
func (r *Result) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}

	return time.Duration(int64(r.Frames) * int64(time.Second) / int64(r.SampleRate))
}

// SizeChange describes the output size relative to an input of inputLen
// bytes, e.g. "45% of original".
func (r *Result) SizeChange(inputLen int) string {
	if inputLen <= 0 {
		return "n/a"
	}

	pct := math.Round(float64(r.Len()) / float64(inputLen) * 100)

	return fmt.Sprintf("%d%% of original", int(pct))
}
