// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio using github.com/jfreymuth/oggvorbis.
//
// The decoder produces interleaved float32 samples at the stream's native
// rate and channel count:
//
//	source, err := vorbis.Decoder{}.Decode(file)
//	buf, err := audio.ReadBuffer(source)
//
// Only Vorbis is handled here; Ogg files carrying Opus or other codecs fail
// to open.
package vorbis
