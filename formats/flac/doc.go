// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC audio using github.com/mewkiz/flac.
//
// Frames are decoded on demand and handed out as interleaved float32
// samples normalized by the stream's bit depth:
//
//	source, err := flac.Decoder{}.Decode(file)
//	defer source.Close()
package flac
