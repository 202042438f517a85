// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audconv/pipeline"
)

func (c *CLI) newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output formats this host can produce",
		Args:  cobra.NoArgs,
		RunE:  c.runFormats,
	}
}

func (c *CLI) runFormats(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	conv, err := c.converter(cfg)
	if err != nil {
		return err
	}

	caps := conv.Capabilities()
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, caps.Summary())
	for _, f := range []pipeline.Format{pipeline.WAV, pipeline.MP3, pipeline.OGG} {
		fmt.Fprintf(w, "  %-4s %s\n", f, caps.Label(f.MimeType(), f.MimeType()))
	}

	return nil
}
