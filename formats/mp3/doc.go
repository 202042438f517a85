// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 and runs the block-wise MP3 encode pipeline.
//
// # Decoding
//
// Decoding uses github.com/hajimehoshi/go-mp3 and always yields stereo
// float32 samples:
//
//	source, err := mp3.Decoder{}.Decode(file)
//
// # Encoding
//
// Encode splits quantized PCM into blocks of BlockFrames frames and feeds
// them, in order, to a FrameEncoder created for that call only. The last
// block may be short. After the last block the encoder is flushed exactly
// once and the output is every returned chunk concatenated:
//
//	data, err := mp3.Encode(ctx, pcm, 192, mp3.Auto(mp3.Lame(""), mp3.Shine()), nil)
//	if errors.Is(err, mp3.ErrEncoderUnavailable) {
//	    // no backend; nothing was encoded
//	}
//
// Two backends are provided:
//   - Shine: pure Go (github.com/braheezy/shine-mp3), constant bitrate as
//     requested, clamped to 160 kbps at MPEG-2 rates
//   - Lame: pipes PCM through the lame binary, constant bitrate as requested
//
// # Bitrate
//
// EstimateBitrate derives the average bitrate of an existing file from its
// size and duration.
package mp3
