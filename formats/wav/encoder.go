// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audconv/audio"
)

// HeaderSize is the length of the canonical RIFF/WAVE header written by WriteWAV16.
const HeaderSize = 44

// MimeType is the MIME type of the encoded output.
const MimeType = "audio/wav"

// Encode quantizes buf and serializes it as 16-bit PCM WAV.
func Encode(buf *audio.Buffer) ([]byte, error) {
	return EncodePCM(audio.Quantize(buf))
}

// EncodePCM serializes pcm as 16-bit PCM WAV with frame-interleaved samples.
func EncodePCM(pcm *audio.PCM16) ([]byte, error) {
	channels := len(pcm.Channels)

	out := new(bytes.Buffer)
	out.Grow(HeaderSize + pcm.Frames()*channels*2)

	if err := WriteWAV16(out, pcm.SampleRate, channels, pcm.Interleaved()); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// WriteWAV16 writes a canonical 44-byte header followed by samples, which
// must be frame-interleaved int16 PCM.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if channels < 1 || channels > 0xFFFF {
		return ErrInvalidChannels
	}

	if len(samples)%channels != 0 {
		return ErrFrameAlignment
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := uint32(sampleRate) * uint32(blockAlign)
	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize

	header := make([]byte, HeaderSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}

	const chunkSize = 8192 // samples per write
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}

	return nil
}
