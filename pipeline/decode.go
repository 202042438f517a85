// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/aiff"
	"github.com/ik5/audconv/formats/flac"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/vorbis"
	"github.com/ik5/audconv/formats/wav"
)

// DefaultRegistry returns a registry with every built-in decoder, keyed by
// the MIME type mimetype reports for it.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.MimeType, wav.Decoder{})
	r.Register(mp3.MimeType, mp3.Decoder{})
	r.Register(vorbis.MimeType, vorbis.Decoder{})
	r.Register(flac.MimeType, flac.Decoder{})
	r.Register(aiff.MimeType, aiff.Decoder{})

	return r
}

// detect sniffs data and returns the registered format key and decoder.
// Aliases and parent types of the detected MIME type are tried too. The
// detected type is returned even when no decoder matches.
func detect(registry *audio.Registry, data []byte) (string, audio.Decoder, error) {
	detected := mimetype.Detect(data)
	formats := registry.Formats()

	for m := detected; m != nil; m = m.Parent() {
		for _, key := range formats {
			if !m.Is(key) {
				continue
			}

			if d, ok := registry.Get(key); ok {
				return key, d, nil
			}
		}
	}

	return detected.String(), nil, fmt.Errorf("%w: %s", ErrUnknownFormat, detected.String())
}

// decode turns data into a Buffer.
func decode(registry *audio.Registry, data []byte) (string, *audio.Buffer, error) {
	mime, d, err := detect(registry, data)
	if err != nil {
		return mime, nil, err
	}

	src, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return mime, nil, fmt.Errorf("decoding %s: %w", mime, err)
	}
	defer src.Close()

	buf, err := audio.ReadBuffer(src)
	if err != nil {
		return mime, nil, fmt.Errorf("reading %s: %w", mime, err)
	}

	if buf.Frames() == 0 {
		return mime, nil, fmt.Errorf("%s contains no audio frames", mime)
	}

	return mime, buf, nil
}
