// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show format, sample rate, channels, duration and bitrate of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runInspect,
	}
}

func (c *CLI) runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	conv, err := c.converter(cfg)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(c.fs, args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	info, err := conv.Inspect(data)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:        %s\n", args[0])
	fmt.Fprintf(w, "Type:        %s\n", info.MimeType)
	fmt.Fprintf(w, "Size:        %s\n", humanize.IBytes(uint64(info.Size)))
	fmt.Fprintf(w, "Sample rate: %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "Channels:    %d\n", info.Channels)
	fmt.Fprintf(w, "Duration:    %s\n", formatDuration(info.Duration))
	fmt.Fprintf(w, "Bitrate:     %d kbps (approx)\n", info.BitrateKbps)

	return nil
}

// formatDuration renders d as m:ss, or h:mm:ss from one hour on.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	h, m, s := secs/3600, secs%3600/60, secs%60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}
