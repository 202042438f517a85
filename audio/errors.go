// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidSampleRate indicates a non-positive sample rate
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrUnsupportedChannels indicates a channel count outside mono/stereo
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")

	// ErrChannelLength indicates channel arrays of different lengths
	ErrChannelLength = errors.New("channel arrays must have identical length")
)
