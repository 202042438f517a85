// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 quantizes x to signed 16-bit PCM.
// x is clipped to [-1, 1]; negative values scale by 32768 and the rest by
// 32767, rounding half away from zero. NaN maps to 0.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}

	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(math.Round(float64(x) * 32768.0))
	}

	return int16(math.Round(float64(x) * 32767.0))
}

// Quantize16 converts every sample with Float32ToInt16 into a new slice.
func Quantize16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = Float32ToInt16(s)
	}

	return out
}
