// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/audconv/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Applies a one-pole low-pass filter tuned to the destination Nyquist
// frequency when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames advanced per output frame
	channels int

	// Window of 4 source frames around the read position:
	// window[0] = i-1, window[1] = i, window[2] = i+1, window[3] = i+2.
	// real marks frames that came from src rather than edge padding.
	window [4][]float32
	real   [4]bool
	primed bool

	// Fractional position between window[1] and window[2]
	pos float64

	// Frame-level read buffer over src
	srcBuf []float32
	srcPos int
	srcLen int
	eof    bool

	useFilter   bool
	filterAlpha float32
	filterState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	useFilter := step > 1.0
	var alpha float32
	if useFilter {
		// Cutoff at the destination Nyquist frequency
		alpha = float32(1 - math.Exp(-math.Pi/step))
	}

	bufFrames := max(src.BufSize()/max(channels, 1), 256)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		step:        step,
		channels:    channels,
		srcBuf:      make([]float32, bufFrames*channels),
		useFilter:   useFilter,
		filterAlpha: alpha,
		filterState: make([]float32, channels),
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst.
// It returns false once src is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	stalls := 0
	for r.srcPos >= r.srcLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcPos = 0
		r.srcLen = n - n%r.channels

		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		} else if n == 0 {
			stalls++
			if stalls > maxStalledReads {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.srcBuf[r.srcPos:r.srcPos+r.channels])
	r.srcPos += r.channels

	if r.useFilter {
		for c := range r.channels {
			// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

// shift drops window[0] and loads the next source frame into window[3],
// duplicating the last frame once src is exhausted.
func (r *Resampler) shift() error {
	last := r.window[0]
	copy(r.window[:3], r.window[1:])
	copy(r.real[:3], r.real[1:])
	r.window[3] = last

	ok, err := r.nextFrame(r.window[3])
	if err != nil {
		return err
	}

	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.real[3] = ok

	return nil
}

func (r *Resampler) prime() (bool, error) {
	r.primed = true

	// Seed the filter with the first frame to avoid a warm-up transient
	useFilter := r.useFilter
	r.useFilter = false
	ok, err := r.nextFrame(r.window[1])
	r.useFilter = useFilter
	if err != nil || !ok {
		return false, err
	}
	copy(r.filterState, r.window[1])
	copy(r.window[0], r.window[1])
	r.real[0], r.real[1] = false, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.window[i])
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
		}
		r.real[i] = ok
	}

	return true, nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		// The read position left the source
		if !r.real[1] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			dst[written*r.channels+c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], alpha)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
