// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"fmt"
	"slices"
	"strings"
)

// Format is an output format.
type Format int

const (
	WAV Format = iota
	MP3
	OGG
)

var formatInfo = [...]struct {
	name, mime, ext string
}{
	WAV: {"wav", "audio/wav", ".wav"},
	MP3: {"mp3", "audio/mpeg", ".mp3"},
	OGG: {"ogg", "audio/ogg", ".ogg"},
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(formatInfo) }

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return formatInfo[f].name
}

// MimeType returns the MIME type of the encoded output.
func (f Format) MimeType() string {
	if !f.valid() {
		return ""
	}

	return formatInfo[f].mime
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if !f.valid() {
		return ""
	}

	return formatInfo[f].ext
}

// Compressed reports whether f takes a bitrate.
func (f Format) Compressed() bool { return f == MP3 || f == OGG }

// ParseFormat accepts a format name ("wav"), an extension (".mp3") or a
// MIME type ("audio/ogg").
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, info := range formatInfo {
		if s == info.name || s == info.mime || s == info.ext {
			return Format(f), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, s)
}

// Accepted request values.
var (
	SampleRates = []int{16000, 22050, 44100, 48000}
	Bitrates    = []int{128, 192, 256, 320}
)

// Request describes the wanted output.
type Request struct {
	Format     Format
	SampleRate int
	Channels   int
	// BitrateKbps applies to MP3 and OGG and is ignored for WAV.
	BitrateKbps int
}

// Validate returns an error wrapping ErrInvalidRequest when r holds a
// value outside the accepted sets.
func (r Request) Validate() error {
	if !r.Format.valid() {
		return fmt.Errorf("%w: unknown format %d", ErrInvalidRequest, int(r.Format))
	}

	if !slices.Contains(SampleRates, r.SampleRate) {
		return fmt.Errorf("%w: sample rate %d not one of %v", ErrInvalidRequest, r.SampleRate, SampleRates)
	}

	if r.Channels != 1 && r.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrInvalidRequest, r.Channels)
	}

	if r.Format.Compressed() && !slices.Contains(Bitrates, r.BitrateKbps) {
		return fmt.Errorf("%w: bitrate %d kbps not one of %v", ErrInvalidRequest, r.BitrateKbps, Bitrates)
	}

	return nil
}
