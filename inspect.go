package smfparse

import "gopkg.in/music-theory.v0/key"

// Meta event kinds. Parse stores kinds without interpreting them; the
// helpers below give the common ones meanings.
const (
	MetaSequenceNumber    byte = 0x00
	MetaText              byte = 0x01
	MetaCopyright         byte = 0x02
	MetaTrackName         byte = 0x03
	MetaInstrumentName    byte = 0x04
	MetaLyric             byte = 0x05
	MetaMarker            byte = 0x06
	MetaCuePoint          byte = 0x07
	MetaChannelPrefix     byte = 0x20
	MetaEndOfTrack        byte = 0x2F
	MetaSetTempo          byte = 0x51
	MetaSMPTEOffset       byte = 0x54
	MetaTimeSignature     byte = 0x58
	MetaKeySignature      byte = 0x59
	MetaSequencerSpecific byte = 0x7F
)

// Tracks returns the document's track chunks in file order.
func (d *Document) Tracks() []*TrackChunk {
	tracks := make([]*TrackChunk, 0, len(d.Chunks))
	for _, c := range d.Chunks {
		if t, ok := c.(*TrackChunk); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// Name returns the payload of the track's first track-name meta event,
// or "" when the track is unnamed.
func (t *TrackChunk) Name() string {
	for _, ev := range t.Events {
		if m, ok := ev.Body.(MetaEvent); ok && m.Kind == MetaTrackName {
			return string(m.Data)
		}
	}
	return ""
}

// Tempo returns the beats per minute set by the document's first tempo
// meta event, or 0 when no usable tempo event exists.
func (d *Document) Tempo() float64 {
	for _, t := range d.Tracks() {
		for _, ev := range t.Events {
			m, ok := ev.Body.(MetaEvent)
			if !ok || m.Kind != MetaSetTempo || len(m.Data) != 3 {
				continue
			}
			// The payload is microseconds per quarter note, big endian.
			us := int(m.Data[0])<<16 | int(m.Data[1])<<8 | int(m.Data[2])
			if us == 0 {
				continue
			}
			return 60_000_000 / float64(us)
		}
	}
	return 0
}

// KeySignature returns the key set by the document's first
// key-signature meta event, or the zero Key when none exists.
func (d *Document) KeySignature() key.Key {
	for _, t := range d.Tracks() {
		for _, ev := range t.Events {
			m, ok := ev.Body.(MetaEvent)
			if !ok || m.Kind != MetaKeySignature || len(m.Data) != 2 {
				continue
			}
			return signatureKey(int8(m.Data[0]), m.Data[1])
		}
	}
	return key.Key{}
}

// signatureKey maps a key-signature payload onto a key: sf counts
// sharps when positive and flats when negative along the circle of
// fifths, mi is 0 for major and 1 for minor. Out-of-range counts clamp.
func signatureKey(sf int8, mi byte) key.Key {
	// Seven flats through seven sharps, plus the three extra fifths
	// that relative minors reach.
	names := [...]string{
		"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G",
		"D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#",
	}
	if sf < -7 {
		sf = -7
	}
	if sf > 7 {
		sf = 7
	}
	idx := int(sf) + 7
	mode := " major"
	if mi == 1 {
		// The relative minor sits three fifths up the circle.
		idx += 3
		mode = " minor"
	}
	return key.Of(names[idx] + mode)
}
