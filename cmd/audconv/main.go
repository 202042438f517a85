// SPDX-License-Identifier: EPL-2.0

// Command audconv converts audio files between WAV, MP3 and Ogg/Opus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ik5/audconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New(afero.NewOsFs()).Execute(ctx, os.Args[1:]); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "audconv:", err)
		os.Exit(1)
	}
}
