// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) audio.
//
// Decoding is delegated to github.com/go-audio/aiff. Uncompressed PCM at 8,
// 16, 24 and 32 bits is accepted and normalized to float32 in [-1.0, 1.0):
//
//	source, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//
// go-audio needs an io.ReadSeeker; other readers are buffered in memory
// first.
package aiff
