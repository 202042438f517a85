// SPDX-License-Identifier: EPL-2.0

package record

import "errors"

var (
	// ErrUnsupportedMimeType is returned before playback starts when no
	// codec is registered for the requested MIME type.
	ErrUnsupportedMimeType = errors.New("record: unsupported mime type")
	// ErrRecording wraps every failure after the recorder was set up.
	ErrRecording = errors.New("record: recording failed")
	// ErrEmptyBuffer is returned for a nil or zero-length buffer.
	ErrEmptyBuffer = errors.New("record: empty buffer")
)
