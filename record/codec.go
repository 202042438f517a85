// SPDX-License-Identifier: EPL-2.0

package record

import (
	"io"

	"github.com/pion/mediadevices/pkg/wave"
)

// Format describes the stream handed to a Session.
type Format struct {
	SampleRate int
	Channels   int
	// BitrateKbps is the requested bitrate. Zero leaves the codec default.
	BitrateKbps int
}

// Codec creates encoding sessions for one container MIME type.
type Codec interface {
	MimeType() string
	// NewSession starts a stream written to w. Chunks handed to the
	// session are interleaved int16 in format f.
	NewSession(w io.Writer, f Format) (Session, error)
}

// Session encodes a single recording. It is used from one goroutine.
type Session interface {
	WriteChunk(chunk *wave.Int16Interleaved) error
	// Close finalizes the container and releases the encoder.
	Close() error
}
