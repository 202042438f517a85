// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"math"
	"time"
)

// EstimateBitrate returns the average bitrate in kbps of sizeBytes spread
// over d, rounded to the nearest integer. It returns 0 for non-positive d.
func EstimateBitrate(sizeBytes int, d time.Duration) int {
	if d <= 0 || sizeBytes <= 0 {
		return 0
	}

	return int(math.Round(float64(sizeBytes) * 8 / d.Seconds() / 1000))
}
