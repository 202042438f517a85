// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"time"

	"github.com/ik5/audconv/formats/mp3"
)

// Info describes an input file.
type Info struct {
	MimeType   string
	Size       int
	SampleRate int
	Channels   int
	Frames     int
	Duration   time.Duration
	// BitrateKbps is estimated from the file size and duration.
	BitrateKbps int
}

// Inspect decodes data and reports its properties. Errors are *Error with
// kind ErrDecode.
func (c *Converter) Inspect(data []byte) (*Info, error) {
	mime, buf, err := decode(c.registry, data)
	if err != nil {
		return nil, newError(ErrDecode, Decoding, err)
	}

	return &Info{
		MimeType:    mime,
		Size:        len(data),
		SampleRate:  buf.SampleRate(),
		Channels:    buf.Channels(),
		Frames:      buf.Frames(),
		Duration:    buf.Duration(),
		BitrateKbps: mp3.EstimateBitrate(len(data), buf.Duration()),
	}, nil
}
