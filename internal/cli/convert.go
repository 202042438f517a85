// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ik5/audconv"
	"github.com/ik5/audconv/internal/config"
	"github.com/ik5/audconv/pipeline"
)

func (c *CLI) newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert an audio file",
		Long: `Convert decodes input and writes output in the requested format.

The format defaults to the output file extension. OGG output is recorded in
real time and takes as long as the audio lasts.`,
		Args: cobra.ExactArgs(2),
		RunE: c.runConvert,
	}

	f := cmd.Flags()
	f.StringP("format", "f", "", "output format: wav, mp3, ogg (default: from output extension)")
	f.IntP("rate", "r", 0, "output sample rate: 16000, 22050, 44100, 48000")
	f.IntP("channels", "c", 0, "output channels: 1 or 2")
	f.IntP("bitrate", "b", 0, "mp3/ogg bitrate in kbps: 128, 192, 256, 320")
	f.String("mp3-backend", "", "mp3 encoder: auto, lame, shine, none")
	f.String("lame-path", "", "path to the lame binary")
	f.String("resampler", "", "resampler: cubic, sinc-best, sinc-medium, sinc-fastest")
	f.BoolP("quiet", "q", false, "do not print progress")

	return cmd
}

// applyConvertFlags overrides cfg with every flag set on cmd.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config, output string) error {
	f := cmd.Flags()

	switch {
	case f.Changed("format"):
		cfg.Format, _ = f.GetString("format")
	default:
		if ext := filepath.Ext(output); ext != "" {
			if format, err := pipeline.ParseFormat(ext); err == nil {
				cfg.Format = format.String()
			}
		}
	}

	if f.Changed("rate") {
		cfg.SampleRate, _ = f.GetInt("rate")
	}
	if f.Changed("channels") {
		cfg.Channels, _ = f.GetInt("channels")
	}
	if f.Changed("bitrate") {
		cfg.BitrateKbps, _ = f.GetInt("bitrate")
	}
	if f.Changed("mp3-backend") {
		cfg.MP3Backend, _ = f.GetString("mp3-backend")
	}
	if f.Changed("lame-path") {
		cfg.LamePath, _ = f.GetString("lame-path")
	}
	if f.Changed("resampler") {
		cfg.Resampler, _ = f.GetString("resampler")
	}

	return cfg.Validate()
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := applyConvertFlags(cmd, cfg, output); err != nil {
		return err
	}

	req, err := cfg.Request()
	if err != nil {
		return err
	}

	conv, err := c.converter(cfg)
	if err != nil {
		return err
	}

	var progress pipeline.ProgressFunc
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		progress = func(p int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r%3d%%", p)
			if p == 100 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	res, err := audconv.ConvertFile(cmd.Context(), c.fs, conv, input, output, req, progress)
	if err != nil {
		return err
	}

	inputSize := 0
	if st, err := c.fs.Stat(input); err == nil {
		inputSize = int(st.Size())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %s, %s, %d Hz, %d ch, %s (%s)\n",
		output, res.Format, humanize.IBytes(uint64(res.Len())),
		res.SampleRate, res.Channels, formatDuration(res.Duration()), res.SizeChange(inputSize))

	return nil
}
