// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoExpander duplicates a mono src into two identical channels.
type StereoExpander struct {
	src Source
	tmp []float32
}

func NewStereoExpander(src Source) *StereoExpander {
	return &StereoExpander{
		src: src,
		tmp: make([]float32, 2048),
	}
}

func (s *StereoExpander) SampleRate() int { return s.src.SampleRate() }
func (s *StereoExpander) Channels() int   { return 2 }
func (s *StereoExpander) BufSize() int    { return s.src.BufSize() }

func (s *StereoExpander) Close() error {
	err := s.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *StereoExpander) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}

	if s.src.Channels() != 1 {
		return 0, ErrUnsupportedChannels
	}

	frames := len(dst) / 2
	if frames == 0 {
		return 0, nil
	}

	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}
	s.tmp = s.tmp[:frames]

	n, err := s.src.ReadSamples(s.tmp)
	for f := range n {
		dst[2*f] = s.tmp[f]
		dst[2*f+1] = s.tmp[f]
	}

	return n * 2, err
}
