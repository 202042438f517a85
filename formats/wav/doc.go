// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV audio.
//
// Decoding is delegated to github.com/go-audio/wav and accepts integer PCM
// at 8, 16, 24 and 32 bits with any channel count. Samples are normalized
// to float32 in [-1.0, 1.0).
//
//	source, err := wav.Decoder{}.Decode(file)
//
// Encoding always produces the canonical 44-byte header (RIFF, a 16-byte
// fmt chunk, data) followed by little-endian int16 samples interleaved frame
// by frame:
//
//	data, err := wav.Encode(buf)          // from an audio.Buffer
//	data, err := wav.EncodePCM(pcm)       // from quantized audio.PCM16
//	err := wav.WriteWAV16(w, 16000, 1, s) // streaming form
//
// The output length is always HeaderSize + frames*channels*2 and the same
// input always produces the same bytes.
package wav
