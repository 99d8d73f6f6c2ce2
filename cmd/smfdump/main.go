package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gitlab.com/gomidi/midi/v2"

	"github.com/ur65/go-smfparse"
)

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTION] SMF_FILE\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decode SMF_FILE and print its structure.\n\n")
		pflag.PrintDefaults()
		os.Exit(0)
	}
}

var (
	lflag = pflag.BoolP("list", "l", false, "show track list")
	eflag = pflag.BoolP("events", "e", false, "print every event in every track")
	dflag = pflag.BoolP("debug", "d", false, "dump the raw document structure")
	vflag = pflag.CountP("verbose", "v", "increase log verbosity")
)

func newLogger(verbosity int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func run(log zerolog.Logger) error {
	args := pflag.Args()
	if len(args) < 1 {
		pflag.Usage()
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	log.Debug().Str("file", path).Int("size", len(data)).Msg("read input")

	doc, err := smfparse.Parse(data)
	if err != nil {
		return err
	}
	tracks := doc.Tracks()
	log.Debug().Int("tracks", len(tracks)).Msg("parsed document")

	if *dflag {
		spew.Dump(doc)
		return nil
	}

	if *lflag {
		for i, track := range tracks {
			fmt.Printf("[%d] %s\n", i, label(track))
		}
		return nil
	}

	h := doc.Header
	fmt.Printf("%s: format %d, %d of %d declared tracks, %s\n",
		path, h.Format, len(tracks), h.NumTracks, h.Division)
	if bpm := doc.Tempo(); bpm != 0 {
		fmt.Printf("tempo: %.2f bpm\n", bpm)
	}
	if k := doc.KeySignature(); k.Root != 0 {
		fmt.Printf("key: %s\n", k.Root.String(k.AdjSymbol))
	}
	for i, track := range tracks {
		fmt.Printf("[%d] %s: %d events\n", i, label(track), len(track.Events))
		if *eflag {
			printEvents(track)
		}
	}

	return nil
}

func main() {
	pflag.Parse()

	log := newLogger(*vflag)
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("smfdump failed")
	}
}

func label(track *smfparse.TrackChunk) string {
	if name := track.Name(); name != "" {
		return name
	}
	return "(unnamed)"
}

func printEvents(track *smfparse.TrackChunk) {
	var tick uint64
	for _, ev := range track.Events {
		tick += uint64(ev.Delta)
		switch body := ev.Body.(type) {
		case smfparse.ChannelEvent:
			raw := append([]byte{body.Status}, body.Data[:body.DataLen()]...)
			fmt.Printf("  %8d  %s\n", tick, midi.Message(raw))
		case smfparse.MetaEvent:
			fmt.Printf("  %8d  meta %s%s\n", tick, metaName(body.Kind), metaPayload(body))
		case smfparse.SysexEvent:
			fmt.Printf("  %8d  sysex start=%v end=%v [% X]\n", tick, body.Start, body.End, body.Data)
		}
	}
}

var metaNames = map[byte]string{
	smfparse.MetaSequenceNumber:    "sequence number",
	smfparse.MetaText:              "text",
	smfparse.MetaCopyright:         "copyright",
	smfparse.MetaTrackName:         "track name",
	smfparse.MetaInstrumentName:    "instrument name",
	smfparse.MetaLyric:             "lyric",
	smfparse.MetaMarker:            "marker",
	smfparse.MetaCuePoint:          "cue point",
	smfparse.MetaChannelPrefix:     "channel prefix",
	smfparse.MetaEndOfTrack:        "end of track",
	smfparse.MetaSetTempo:          "set tempo",
	smfparse.MetaSMPTEOffset:       "smpte offset",
	smfparse.MetaTimeSignature:     "time signature",
	smfparse.MetaKeySignature:      "key signature",
	smfparse.MetaSequencerSpecific: "sequencer specific",
}

func metaName(kind byte) string {
	if name, ok := metaNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", kind)
}

func metaPayload(m smfparse.MetaEvent) string {
	if len(m.Data) == 0 {
		return ""
	}
	if m.Kind >= smfparse.MetaText && m.Kind <= smfparse.MetaCuePoint {
		return " " + strconv.Quote(string(m.Data))
	}
	return fmt.Sprintf(" [% X]", m.Data)
}
