// SPDX-License-Identifier: EPL-2.0

// Package capability records which output formats can be produced on the
// current host. A Table is computed once by Probe and passed to whatever
// needs it; it is never modified afterwards.
package capability

import (
	"slices"
	"strings"

	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/internal/logging"
	"github.com/ik5/audconv/record"
)

// Output MIME types.
const (
	WAV = "audio/wav"
	MP3 = "audio/mpeg"
	OGG = "audio/ogg"
)

// NotSupportedSuffix is appended to labels of unsupported formats.
const NotSupportedSuffix = " (Not Supported)"

var logger = logging.NewLogger("audconv/capability")

// display order for known formats
var order = []string{WAV, MP3, OGG}

// Check probes support for one MIME type.
type Check struct {
	MimeType  string
	Supported func() bool
}

// Table maps an output MIME type to whether it can be produced.
type Table map[string]bool

// Probe runs every check once and returns the result. WAV is always
// supported. A check without a func reports false.
func Probe(checks ...Check) Table {
	t := Table{WAV: true}

	for _, c := range checks {
		if c.MimeType == WAV {
			continue
		}

		ok := c.Supported != nil && c.Supported()
		// Several checks for one type succeed if any does
		t[c.MimeType] = t[c.MimeType] || ok
		logger.Debugf("%s supported: %t", c.MimeType, ok)
	}

	return t
}

// Default returns the standard checks. MP3 needs an available backend and
// every MIME type the recorder has a codec for is supported through it.
func Default(backend mp3.Backend, rec *record.Recorder) []Check {
	checks := []Check{
		{
			MimeType: MP3,
			Supported: func() bool {
				return backend != nil && backend.Available()
			},
		},
		{
			MimeType: OGG,
			Supported: func() bool {
				return rec != nil && rec.Supports(OGG)
			},
		},
	}

	if rec != nil {
		for _, m := range rec.MimeTypes() {
			if m == OGG || m == MP3 || m == WAV {
				continue
			}
			checks = append(checks, Check{MimeType: m, Supported: func() bool { return true }})
		}
	}

	return checks
}

// Supported reports whether mime can be produced.
func (t Table) Supported(mime string) bool {
	return t[mime]
}

// Formats returns the supported MIME types, known formats first.
func (t Table) Formats() []string {
	var out []string
	for _, m := range order {
		if t[m] {
			out = append(out, m)
		}
	}

	var rest []string
	for m, ok := range t {
		if ok && !slices.Contains(order, m) {
			rest = append(rest, m)
		}
	}
	slices.Sort(rest)

	return append(out, rest...)
}

// Label returns name, marked when mime is not supported.
func (t Table) Label(mime, name string) string {
	if t.Supported(mime) {
		return name
	}

	return name + NotSupportedSuffix
}

// Summary describes the supported formats in one line, with a hint when
// MP3 cannot be produced.
func (t Table) Summary() string {
	names := make([]string, 0, len(t))
	for _, m := range t.Formats() {
		names = append(names, Name(m))
	}

	var sb strings.Builder
	sb.WriteString("Supported formats: ")
	sb.WriteString(strings.Join(names, ", "))

	if !t.Supported(MP3) {
		sb.WriteString(". MP3 encoding is not available, use WAV instead.")
	}

	return sb.String()
}

// Name returns the short upper-case name of mime, e.g. "audio/mpeg" is
// "MPEG" and "audio/ogg" is "OGG".
func Name(mime string) string {
	_, sub, found := strings.Cut(mime, "/")
	if !found {
		sub = mime
	}

	sub, _, _ = strings.Cut(sub, ";")

	return strings.ToUpper(strings.TrimSpace(sub))
}
