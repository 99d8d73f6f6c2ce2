// Package smfparse decodes Standard MIDI Files into a structured,
// zero-copy document model: the MThd header plus the file's track
// chunks, each holding its delta-timed events. The package only reads;
// it does not encode, schedule or play anything.
package smfparse

import (
	"encoding/binary"
	"fmt"
)

const (
	frameLen      = 8 // 4-byte tag plus big-endian uint32 body length
	headerBodyLen = 6

	tagHeader = "MThd"
	tagTrack  = "MTrk"
)

// Division is the MThd division word: ticks per quarter note when the
// top bit is clear, SMPTE frame timing when it is set.
type Division uint16

// TicksPerQuarterNote returns the metrical resolution, or 0 when the
// division encodes SMPTE timing.
func (d Division) TicksPerQuarterNote() uint16 {
	if d&0x8000 != 0 {
		return 0
	}
	return uint16(d)
}

// SMPTE returns the frames per second and ticks per frame, or 0, 0 when
// the division is metrical.
func (d Division) SMPTE() (fps, ticksPerFrame uint8) {
	if d&0x8000 == 0 {
		return 0, 0
	}
	// The frame rate is held as a negative two's-complement value in
	// the high byte.
	return uint8(-int8(d >> 8)), uint8(d)
}

func (d Division) String() string {
	if d&0x7FFF == 0 {
		return fmt.Sprintf("invalid division 0x%04X", uint16(d))
	}
	if ticks := d.TicksPerQuarterNote(); ticks != 0 {
		return fmt.Sprintf("%d ticks per quarter note", ticks)
	}
	fps, tpf := d.SMPTE()
	return fmt.Sprintf("%d fps, %d ticks per frame", fps, tpf)
}

// Header holds the decoded fields of the MThd chunk.
type Header struct {
	// Length is the declared MThd body length, recorded verbatim.
	// Historically 6; when larger, the excess body bytes are skipped.
	Length    uint32
	Format    uint16
	NumTracks uint16
	Division  Division
}

// Chunk is one recognized top-level chunk. MTrk is the only chunk kind
// that produces a value; chunks with unknown tags are consumed during
// parsing and leave no trace.
type Chunk interface {
	chunk()
}

// TrackChunk is the decoded body of a single MTrk chunk.
type TrackChunk struct {
	Events []Event
}

func (*TrackChunk) chunk() {}

// Document is a fully decoded Standard MIDI File.
type Document struct {
	Header Header
	Chunks []Chunk
}

// Parse decodes the Standard MIDI File in data.
//
// The input must begin with an MThd chunk; everything after it is read
// as a sequence of chunk frames, decoding MTrk bodies and skipping
// unknown tags by their declared length. The header's track count is
// recorded but not enforced. Parse either consumes the whole buffer or
// fails with an error wrapping one of this package's sentinel errors;
// there is no partial result.
//
// Event payloads alias data rather than copying it, so the Document
// must not outlive the buffer, and the buffer must not be modified
// while the Document is in use.
func Parse(data []byte) (*Document, error) {
	if len(data) < 4 || string(data[:4]) != tagHeader {
		return nil, ErrMissingHeader
	}
	if len(data) < frameLen {
		return nil, fmt.Errorf("%w: truncated MThd frame", ErrUnexpectedEOF)
	}
	_, body, rest, err := readFrame(data)
	if err != nil {
		return nil, err
	}
	header, err := decodeHeader(body)
	if err != nil {
		return nil, err
	}

	doc := &Document{Header: header}
	for len(rest) > 0 {
		if len(rest) < frameLen {
			return nil, fmt.Errorf("%w: %d stray bytes", ErrTrailingGarbage, len(rest))
		}
		var tag string
		var body []byte
		tag, body, rest, err = readFrame(rest)
		if err != nil {
			return nil, err
		}
		if tag != tagTrack {
			continue // skipped, including any stray second MThd
		}
		track, err := decodeTrack(body)
		if err != nil {
			return nil, err
		}
		doc.Chunks = append(doc.Chunks, track)
	}
	return doc, nil
}

// readFrame splits off the chunk frame at the head of b. The caller
// checks len(b) >= frameLen.
func readFrame(b []byte) (tag string, body, rest []byte, err error) {
	length := binary.BigEndian.Uint32(b[4:frameLen])
	if int64(length) > int64(len(b)-frameLen) {
		return "", nil, nil, fmt.Errorf("%w: chunk %q declares a %d byte body, %d bytes remain",
			ErrUnexpectedEOF, b[:4], length, len(b)-frameLen)
	}
	end := frameLen + int(length)
	return string(b[:4]), b[frameLen:end], b[end:], nil
}

// decodeHeader reads the three fixed big-endian uint16 fields from an
// MThd body. Bodies longer than six bytes are legal; the excess is
// ignored.
func decodeHeader(body []byte) (Header, error) {
	if len(body) < headerBodyLen {
		return Header{}, fmt.Errorf("%w: MThd body holds %d bytes, need %d",
			ErrUnexpectedEOF, len(body), headerBodyLen)
	}
	return Header{
		Length:    uint32(len(body)),
		Format:    binary.BigEndian.Uint16(body[0:2]),
		NumTracks: binary.BigEndian.Uint16(body[2:4]),
		Division:  Division(binary.BigEndian.Uint16(body[4:6])),
	}, nil
}
