// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Convert is an *Error whose Kind is
// one of these.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrDecode             = errors.New("decode error")
	ErrRender             = errors.New("render error")
	ErrEncoderUnavailable = errors.New("encoder unavailable")
	ErrRecording          = errors.New("recording error")
	ErrEncode             = errors.New("encode error")
)

// ErrUnknownFormat is the cause of a decode error when no decoder is
// registered for the detected input type.
var ErrUnknownFormat = errors.New("unknown input format")

// Error is a failed conversion.
type Error struct {
	Kind  error
	State State // state the pipeline failed in
	Err   error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v while %s", e.Kind, e.State)
	}

	return fmt.Sprintf("%v while %s: %v", e.Kind, e.State, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func newError(kind error, state State, err error) *Error {
	return &Error{Kind: kind, State: state, Err: err}
}
