// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory audio model and streaming primitives.
//
// This package contains the building blocks every conversion is made of:
//   - Source interface for streaming interleaved audio
//   - Buffer, the immutable per-channel sample model produced by decoding
//   - PCM16, the quantized form of a Buffer
//   - Resampler for sample rate conversion
//   - MonoMixer and StereoExpander for channel conversion
//   - Registry for decoder registration
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors implement this interface so they can be chained:
//
//	res := audio.NewResampler(src, 16000)
//	mono := audio.NewMonoMixer(res)
//
// # Buffers
//
// A Buffer holds decoded audio as one float32 slice per channel. Only mono
// and stereo are supported. Buffers are never modified in place; each
// processing step returns a new one:
//
//	buf, err := audio.ReadBuffer(src)   // drain a decoder
//	pcm := audio.Quantize(buf)          // 16-bit PCM per channel
//	stream := buf.Source()              // stream it again
//
// # Resampling
//
// The Resampler uses Catmull-Rom cubic interpolation. When downsampling a
// one-pole low-pass filter with its cutoff at the destination Nyquist
// frequency is applied to the input first.
//
// # Format Registry
//
// The registry maps a format key (a MIME type in this module) to a Decoder:
//
//	registry := audio.NewRegistry()
//	registry.Register("audio/wav", wav.Decoder{})
//	decoder, _ := registry.Get("audio/wav")
//
// # Sample Format
//
// Audio samples are float32, nominally in [-1.0, 1.0]. Decoded audio may
// slightly exceed that range; quantization clips.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
