// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	// ErrEncoderUnavailable is returned before any audio is encoded when no
	// usable frame encoder backend exists.
	ErrEncoderUnavailable = errors.New("mp3 encoder unavailable")
	ErrEncode             = errors.New("mp3 encoding failed")
	ErrUnsupportedLayout  = errors.New("mp3 encoder supports mono or stereo with equal channel lengths")
	ErrEncoderClosed      = errors.New("mp3 frame encoder closed")
)
