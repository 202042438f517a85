// SPDX-License-Identifier: EPL-2.0

package conform

import "errors"

var (
	ErrEmptyInput    = errors.New("input buffer has no frames")
	ErrInvalidTarget = errors.New("invalid conformance target")
	ErrRender        = errors.New("rendering failed")
)
