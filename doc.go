// SPDX-License-Identifier: EPL-2.0

// Package audconv converts audio files between formats, sample rates and
// channel layouts.
//
// Input is decoded into a floating-point Buffer, conformed to the requested
// sample rate and channel count, quantized to 16-bit PCM and encoded as
// WAV, MP3 or Ogg/Opus.
//
// # Supported Formats
//
// Input formats, detected from the file content:
//   - WAV (8, 16, 24 and 32-bit PCM) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//
// Output formats:
//   - WAV, 16-bit PCM, always available
//   - MP3 through a frame encoder backend (lame when installed, shine otherwise)
//   - OGG, Opus recorded in real time; it takes as long as the audio lasts
//
// # Quick Start
//
//	data, _ := os.ReadFile("input.mp3")
//	res, err := audconv.Convert(ctx, data, pipeline.Request{
//	    Format:     pipeline.WAV,
//	    SampleRate: 16000,
//	    Channels:   1,
//	}, nil)
//	if err != nil {
//	    var pe *pipeline.Error
//	    if errors.As(err, &pe) {
//	        log.Printf("failed while %s: %v", pe.State, pe.Kind)
//	    }
//	    return err
//	}
//	os.WriteFile("output.wav", res.Data, 0o644)
//
// # Processing Pipeline
//
// For more control use the subpackages directly:
//
//	src, _ := wav.Decoder{}.Decode(reader)
//	buf, _ := audio.ReadBuffer(src)
//	buf, _ = conform.Conform(ctx, buf, 44100, 2)
//	pcm := audio.Quantize(buf)
//	data, _ := mp3.Encode(ctx, pcm, 192, mp3.Shine(), nil)
//
// ConformPCM wraps the middle of that chain for streaming sources.
//
// See the individual subpackages for more detailed documentation.
package audconv
