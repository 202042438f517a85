// SPDX-License-Identifier: EPL-2.0

package pipeline

// State is a stage of a conversion.
type State int

const (
	Idle State = iota
	Decoding
	Conforming
	Quantizing
	Encoding
	Done
	Failed
)

var stateNames = [...]string{
	Idle:       "idle",
	Decoding:   "decoding",
	Conforming: "conforming",
	Quantizing: "quantizing",
	Encoding:   "encoding",
	Done:       "done",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// StateHook observes state transitions of the run identified by runID.
type StateHook func(runID string, from, to State)
