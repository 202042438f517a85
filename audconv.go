// SPDX-License-Identifier: EPL-2.0

package audconv

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/conform"
	"github.com/ik5/audconv/pipeline"
)

// DefaultConverter returns the Converter used by Convert and Inspect. It is
// built on first use.
var DefaultConverter = sync.OnceValue(func() *pipeline.Converter {
	return pipeline.New()
})

// Convert converts data with the default converter.
func Convert(ctx context.Context, data []byte, req pipeline.Request, onProgress pipeline.ProgressFunc) (*pipeline.Result, error) {
	return DefaultConverter().Convert(ctx, data, req, onProgress)
}

// Inspect reports the properties of data with the default converter.
func Inspect(data []byte) (*pipeline.Info, error) {
	return DefaultConverter().Inspect(data)
}

// ConvertFile reads in from fsys, converts it with conv and writes the
// result to out. A nil conv uses DefaultConverter.
func ConvertFile(
	ctx context.Context,
	fsys afero.Fs,
	conv *pipeline.Converter,
	in, out string,
	req pipeline.Request,
	onProgress pipeline.ProgressFunc,
) (*pipeline.Result, error) {
	if conv == nil {
		conv = DefaultConverter()
	}

	data, err := afero.ReadFile(fsys, in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in, err)
	}

	res, err := conv.Convert(ctx, data, req, onProgress)
	if err != nil {
		return nil, err
	}

	if err := afero.WriteFile(fsys, out, res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", out, err)
	}

	return res, nil
}

// ConformPCM drains src, conforms it to rate and channels and returns it
// as 16-bit PCM. src is closed.
func ConformPCM(ctx context.Context, src audio.Source, rate, channels int, opts ...conform.Option) (*audio.PCM16, error) {
	defer src.Close()

	buf, err := audio.ReadBuffer(src)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	out, err := conform.Conform(ctx, buf, rate, channels, opts...)
	if err != nil {
		return nil, err
	}

	return audio.Quantize(out), nil
}
