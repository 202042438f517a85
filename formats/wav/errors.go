// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavFormat = errors.New("only integer PCM WAV supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV bit depth")
	ErrInvalidSampleRate    = errors.New("invalid WAV sample rate")
	ErrInvalidChannels      = errors.New("invalid WAV channel count")
	ErrFrameAlignment       = errors.New("sample count is not a multiple of the channel count")
)
