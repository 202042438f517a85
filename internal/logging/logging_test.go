// SPDX-License-Identifier: EPL-2.0

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pion/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    logging.LogLevel
		wantErr bool
	}{
		{"error", logging.LogLevelError, false},
		{"WARN", logging.LogLevelWarn, false},
		{" info ", logging.LogLevelInfo, false},
		{"", logging.LogLevelInfo, false},
		{"debug", logging.LogLevelDebug, false},
		{"trace", logging.LogLevelTrace, false},
		{"off", logging.LogLevelDisabled, false},
		{"loud", logging.LogLevelDisabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// Not parallel: Configure changes process-wide state.
func TestConfigure_UpdatesExistingLoggers(t *testing.T) {
	log := NewLogger("audconv/logging-test")
	if NewLogger("audconv/logging-test") != log {
		t.Error("NewLogger() returned a different logger for the same scope")
	}

	out := new(bytes.Buffer)
	Configure(out, logging.LogLevelInfo)
	t.Cleanup(func() { Configure(nil, logging.LogLevelError) })

	log.Debug("hidden")
	log.Info("visible")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug message written at info level: %q", out.String())
	}
	if !strings.Contains(out.String(), "visible") {
		t.Errorf("info message missing from output: %q", out.String())
	}
}
