// SPDX-License-Identifier: EPL-2.0

package pipeline

// Progress milestones in percent.
const (
	progressDecoding  = 10
	progressDecoded   = 30
	progressConformed = 50
	progressQuantized = 55
	progressEncoded   = 95
	progressDone      = 100
)

// ProgressFunc receives the overall progress of a conversion in percent.
// Values never decrease and are not repeated.
type ProgressFunc func(percent int)

// progress composes stage progress into one non-decreasing value.
type progress struct {
	fn   ProgressFunc
	last int
}

func newProgress(fn ProgressFunc) *progress {
	return &progress{fn: fn, last: -1}
}

func (p *progress) report(percent int) {
	percent = min(max(percent, 0), progressDone)
	if p.fn == nil || percent <= p.last {
		return
	}

	p.last = percent
	p.fn(percent)
}

// encode maps done/total of the encode stage onto the encode range.
func (p *progress) encode(done, total int) {
	if total <= 0 {
		return
	}

	span := progressEncoded - progressQuantized
	p.report(progressQuantized + int(int64(done)*int64(span)/int64(total)))
}
