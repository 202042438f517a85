// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"context"
	"slices"
	"testing"
)

func TestLameArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate, channels, kbps int
		wantKHz, wantMode    string
	}{
		{22050, 1, 128, "22.05", "m"},
		{44100, 2, 320, "44.1", "j"},
		{16000, 2, 192, "16", "j"},
	}

	for _, tt := range tests {
		args := lameArgs(tt.rate, tt.channels, tt.kbps)

		i := slices.Index(args, "-s")
		if i < 0 || args[i+1] != tt.wantKHz {
			t.Errorf("lameArgs(%d) sample rate arg missing or wrong: %v", tt.rate, args)
		}
		if i := slices.Index(args, "-m"); i < 0 || args[i+1] != tt.wantMode {
			t.Errorf("lameArgs(%d ch) mode wrong: %v", tt.channels, args)
		}
		if !slices.Contains(args, "--cbr") {
			t.Errorf("lameArgs() missing --cbr: %v", args)
		}
		if args[len(args)-2] != "-" || args[len(args)-1] != "-" {
			t.Errorf("lameArgs() must read stdin and write stdout: %v", args)
		}
	}
}

func TestLame_MissingBinary(t *testing.T) {
	t.Parallel()

	b := Lame("/nonexistent/lame-binary")
	if b.Available() {
		t.Fatal("Available() = true for a missing binary")
	}

	if b.Name() != "lame" {
		t.Errorf("Name() = %q, want lame", b.Name())
	}

	if _, err := b.NewFrameEncoder(context.Background(), 44100, 2, 128); err == nil {
		t.Error("NewFrameEncoder() error = nil for a missing binary")
	}
}

func TestLame_Encode(t *testing.T) {
	t.Parallel()

	b := Lame("")
	if !b.Available() {
		t.Skip("lame not installed")
	}

	out, err := Encode(context.Background(), rampPCM(44100, 2, 44100), 192, b, nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("Encode() returned no data")
	}
}
