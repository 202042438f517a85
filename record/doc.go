// SPDX-License-Identifier: EPL-2.0

// Package record implements the realtime fallback encoder.
//
// A Recorder plays a Buffer through a paced capture stream and feeds every
// captured chunk to a Codec. The codec writes container bytes to a staging
// area that the recorder collects once per timeslice. When playback ends
// the recorder waits a short grace delay, finalizes the codec and returns
// all collected bytes.
//
// Recording takes wall-clock time equal to the duration of the buffer. It
// is meant for compressed targets that have no offline frame encoder:
//
//	rec := record.NewRecorder(record.OggOpus(128))
//	data, err := rec.Record(ctx, buf, "audio/ogg")
//
// Canceling ctx stops playback and recording and releases the codec.
package record
