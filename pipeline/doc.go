// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs a conversion from input bytes to an encoded file.
//
// A conversion moves through the states
//
//	Idle -> Decoding -> Conforming -> Quantizing -> Encoding -> Done
//
// and ends in Failed when any stage fails. Decoding sniffs the input with
// mimetype and uses the decoder registered for the detected type.
// Conforming resamples and remixes to the requested rate and channel
// count. Quantizing produces 16-bit PCM, and Encoding writes WAV directly,
// feeds MP3 blocks to a frame encoder, or records OGG in real time.
//
//	conv := pipeline.New()
//	res, err := conv.Convert(ctx, data, pipeline.Request{
//	    Format:      pipeline.MP3,
//	    SampleRate:  44100,
//	    Channels:    2,
//	    BitrateKbps: 192,
//	}, func(p int) { fmt.Printf("%d%%\n", p) })
//
// Progress is reported as 10 when decoding starts, 30 once decoded, 50
// once conformed, 55 once quantized, 55 to 95 while encoding and 100 when
// done.
//
// Failures are returned once as an *Error. Its Kind is ErrInvalidRequest,
// ErrDecode, ErrRender, ErrEncoderUnavailable, ErrRecording or ErrEncode,
// and errors.Is matches both the kind and the underlying cause. Nothing is
// retried.
package pipeline
