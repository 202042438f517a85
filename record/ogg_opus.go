// SPDX-License-Identifier: EPL-2.0

package record

import (
	"fmt"
	"io"

	"github.com/pion/mediadevices/pkg/wave"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"gopkg.in/hraban/opus.v2"
)

// OggMimeType is the MIME type produced by OggOpus.
const OggMimeType = "audio/ogg"

// maxOpusPacket is the largest packet libopus produces.
const maxOpusPacket = 4000

// OggOpus returns a Codec writing Opus packets in an Ogg container.
func OggOpus() Codec {
	return oggOpus{}
}

type oggOpus struct{}

func (oggOpus) MimeType() string { return OggMimeType }

func (oggOpus) NewSession(w io.Writer, f Format) (Session, error) {
	enc, err := opus.NewEncoder(f.SampleRate, f.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("creating opus encoder: %w", err)
	}

	if f.BitrateKbps > 0 {
		if err := enc.SetBitrate(f.BitrateKbps * 1000); err != nil {
			return nil, fmt.Errorf("setting opus bitrate %d kbps: %w", f.BitrateKbps, err)
		}
	}

	ogg, err := oggwriter.NewWith(w, uint32(f.SampleRate), uint16(f.Channels))
	if err != nil {
		return nil, fmt.Errorf("writing ogg headers: %w", err)
	}

	return &opusSession{
		enc:       enc,
		ogg:       ogg,
		channels:  f.Channels,
		frameSize: chunkFrames(f.SampleRate),
		packet:    make([]byte, maxOpusPacket),
	}, nil
}

// opusSession encodes fixed 20 ms Opus frames. Chunks of other sizes are
// regrouped; the tail is zero padded on Close.
type opusSession struct {
	enc       *opus.Encoder
	ogg       *oggwriter.OggWriter
	channels  int
	frameSize int

	pending []int16
	packet  []byte

	seq       uint16
	timestamp uint32
	closed    bool
}

func (s *opusSession) WriteChunk(chunk *wave.Int16Interleaved) error {
	if s.closed {
		return fmt.Errorf("%w: session closed", ErrRecording)
	}

	if chunk.Size.Channels != s.channels {
		return fmt.Errorf("chunk has %d channels, session %d", chunk.Size.Channels, s.channels)
	}

	s.pending = append(s.pending, chunk.Data...)

	frame := s.frameSize * s.channels
	for len(s.pending) >= frame {
		if err := s.encode(s.pending[:frame]); err != nil {
			return err
		}
		s.pending = s.pending[frame:]
	}

	return nil
}

func (s *opusSession) encode(pcm []int16) error {
	n, err := s.enc.Encode(pcm, s.packet)
	if err != nil {
		return fmt.Errorf("opus encode: %w", err)
	}

	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			SequenceNumber: s.seq,
			Timestamp:      s.timestamp,
		},
		Payload: s.packet[:n],
	}
	s.seq++
	s.timestamp += uint32(s.frameSize)

	if err := s.ogg.WriteRTP(pkt); err != nil {
		return fmt.Errorf("writing ogg page: %w", err)
	}

	return nil
}

func (s *opusSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if len(s.pending) > 0 {
		frame := make([]int16, s.frameSize*s.channels)
		copy(frame, s.pending)
		s.pending = nil
		err = s.encode(frame)
	}

	if cerr := s.ogg.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing ogg writer: %w", cerr)
	}

	return err
}
