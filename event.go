package smfparse

import "fmt"

// Channel message types, the high nibble of a channel status byte.
const (
	NoteOff         byte = 0x80
	NoteOn          byte = 0x90
	KeyPressure     byte = 0xA0
	ControlChange   byte = 0xB0
	ProgramChange   byte = 0xC0
	ChannelPressure byte = 0xD0
	PitchBend       byte = 0xE0
)

// EventBody is the payload of a track event: a ChannelEvent, MetaEvent
// or SysexEvent.
type EventBody interface {
	eventBody()
}

// Event is one timed track event. Delta is the tick count since the
// previous event in the same track; accumulating absolute time is the
// caller's business.
type Event struct {
	Delta uint32
	Body  EventBody
}

// ChannelEvent is a channel voice or mode message. Status carries the
// message type in its high nibble and the channel in its low nibble,
// whether the file spelled it out or reused it via running status.
type ChannelEvent struct {
	Status byte
	Data   [2]byte // Data[1] is zero for one-byte message types
}

func (ChannelEvent) eventBody() {}

// Type returns the message type nibble (NoteOn, ControlChange, ...).
func (e ChannelEvent) Type() byte { return e.Status & 0xF0 }

// Channel returns the channel number 0-15.
func (e ChannelEvent) Channel() byte { return e.Status & 0x0F }

// DataLen reports how many bytes of Data the message type carries.
func (e ChannelEvent) DataLen() int {
	if t := e.Type(); t == ProgramChange || t == ChannelPressure {
		return 1
	}
	return 2
}

// MetaEvent is an 0xFF-prefixed meta event. Kind is recorded, not
// interpreted; Data aliases the input buffer.
type MetaEvent struct {
	Kind byte
	Data []byte
}

func (MetaEvent) eventBody() {}

// SysexEvent is a system-exclusive event. Start reports whether the
// introducer was 0xF0 rather than an 0xF7 continuation; End reports
// whether Data finishes with 0xF7, so messages split across several
// events remain representable. Data aliases the input buffer.
type SysexEvent struct {
	Start bool
	End   bool
	Data  []byte
}

func (SysexEvent) eventBody() {}

// decodeTrack decodes an MTrk body into its event sequence. Running
// status is threaded through the loop and never escapes the track.
func decodeTrack(data []byte) (*TrackChunk, error) {
	events := make([]Event, 0, len(data)/3)
	var running byte // 0 means none; status bytes always have the high bit set
	off := 0
	for off < len(data) {
		delta, n, err := varLength(data[off:])
		if err != nil {
			return nil, fmt.Errorf("%w: event delta at offset %d", err, off)
		}
		off += n
		if off == len(data) {
			return nil, fmt.Errorf("%w: no status after delta at offset %d", ErrUnexpectedEOF, off)
		}

		var body EventBody
		switch lead := data[off]; {
		case lead == 0xFF:
			// Meta events leave running status untouched.
			body, off, err = decodeMeta(data, off+1)
		case lead == 0xF0 || lead == 0xF7:
			// System exclusive cancels any pending running status.
			running = 0
			body, off, err = decodeSysex(data, off+1, lead)
		case lead&0x80 != 0:
			running = lead
			body, off, err = decodeChannel(data, off+1, lead)
		default:
			// Data byte in lead position: reuse the running status and
			// read the data bytes starting from the lead byte itself.
			if running == 0 {
				return nil, fmt.Errorf("%w: data byte 0x%02X at offset %d", ErrNoRunningStatus, lead, off)
			}
			body, off, err = decodeChannel(data, off, running)
		}
		if err != nil {
			return nil, err
		}
		events = append(events, Event{Delta: delta, Body: body})
	}
	return &TrackChunk{Events: events}, nil
}

// channelDataLen maps a status byte's message type to its data byte
// count. The default arm rejects system common and real-time status
// bytes, which have no place inside track data.
func channelDataLen(status byte) (int, error) {
	switch status & 0xF0 {
	case NoteOff, NoteOn, KeyPressure, ControlChange, PitchBend:
		return 2, nil
	case ProgramChange, ChannelPressure:
		return 1, nil
	default:
		return 0, ErrUnreachableStatus
	}
}

func decodeChannel(data []byte, off int, status byte) (ChannelEvent, int, error) {
	n, err := channelDataLen(status)
	if err != nil {
		return ChannelEvent{}, 0, fmt.Errorf("%w: status 0x%02X", err, status)
	}
	if len(data)-off < n {
		return ChannelEvent{}, 0, fmt.Errorf("%w: channel event data at offset %d", ErrUnexpectedEOF, off)
	}
	ev := ChannelEvent{Status: status}
	ev.Data[0] = data[off]
	if n == 2 {
		ev.Data[1] = data[off+1]
	}
	return ev, off + n, nil
}

func decodeMeta(data []byte, off int) (MetaEvent, int, error) {
	if off == len(data) {
		return MetaEvent{}, 0, fmt.Errorf("%w: meta kind at offset %d", ErrUnexpectedEOF, off)
	}
	kind := data[off]
	off++
	length, n, err := varLength(data[off:])
	if err != nil {
		return MetaEvent{}, 0, fmt.Errorf("%w: meta length at offset %d", err, off)
	}
	off += n
	if int64(length) > int64(len(data)-off) {
		return MetaEvent{}, 0, fmt.Errorf("%w: meta payload of %d bytes at offset %d", ErrUnexpectedEOF, length, off)
	}
	end := off + int(length)
	return MetaEvent{Kind: kind, Data: data[off:end]}, end, nil
}

func decodeSysex(data []byte, off int, introducer byte) (SysexEvent, int, error) {
	length, n, err := varLength(data[off:])
	if err != nil {
		return SysexEvent{}, 0, fmt.Errorf("%w: sysex length at offset %d", err, off)
	}
	off += n
	if int64(length) > int64(len(data)-off) {
		return SysexEvent{}, 0, fmt.Errorf("%w: sysex payload of %d bytes at offset %d", ErrUnexpectedEOF, length, off)
	}
	end := off + int(length)
	payload := data[off:end]
	return SysexEvent{
		Start: introducer == 0xF0,
		End:   len(payload) > 0 && payload[len(payload)-1] == 0xF7,
		Data:  payload,
	}, end, nil
}
