package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	elog "sqweek.net/engrave/log"
	"sqweek.net/engrave/midi"
	"sqweek.net/engrave/pass"
	"sqweek.net/engrave/plumb"
	"sqweek.net/engrave/score"
)

var G struct {
	/* global state */
	scorefile string
	score *score.Score

	/* plumbing */
	plumb struct {
		score *plumb.Port
	}
}

func midiFile(scorefile string) string {
	if IsScoreFilename(scorefile) {
		return scorefile[:len(scorefile)-len(".json")] + ".mid"
	}
	return scorefile + ".mid"
}

func watch(c chan interface{}, done chan struct{}) {
	defer close(done)
	for ev := range c {
		if p, ok := ev.(pass.PassDone); ok && p.Diags > 0 {
			fmt.Fprintf(os.Stderr, "%s: %d diagnostic(s)\n", p.Pass, p.Diags)
		}
	}
}

func report(pl *pass.Pipeline) {
	for _, d := range pl.Diags() {
		fmt.Fprintln(os.Stderr, "warning:", d)
	}
}

func main() {
	output := flag.String("o", "", "output midi file (default: score file with .mid suffix)")
	resave := flag.Bool("resave", false, "rewrite the score file after layout")
	tempo := flag.Float64("tempo", 0, "tempo override, quarter notes per minute")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] score.json\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	confinit()

	G.scorefile = flag.Arg(0)
	if !strings.ContainsAny(G.scorefile, "/\\") && !IsScoreFilename(G.scorefile) {
		G.scorefile = ScoreFile(G.scorefile)
	}
	saved, err := LoadScore(G.scorefile)
	if err != nil {
		log.Fatal(err)
	}

	G.plumb.score = plumb.MkPort()
	events := make(chan interface{})
	done := make(chan struct{})
	G.plumb.score.Sub(&G, events)
	go watch(events, done)

	G.score, err = MkScoreFromSaved(saved, G.plumb.score)
	if err != nil {
		log.Fatal(err)
	}

	layout := pass.Layout()
	if err = layout.Run(G.score); err != nil {
		log.Fatal(err)
	}
	report(layout)

	collector := &midi.Collector{}
	tracks := make(map[int]bool)
	G.score.PerLayer(func(layer *score.Layer) {
		staff := layer.Staff()
		track := staff.N() - 1
		if !tracks[track] {
			tracks[track] = true
			collector.SetProgram(track, uint8(staff.Instrument()))
			key, lines := staff.KeyAccidentalLines()
			elog.MIDI.Printf("track %d: %s (%s) key %d accidentals %v", track, staff.Name(), midi.InstName(staff.Instrument()), int(key), lines)
		}
	})
	derive := pass.DeriveMIDI(collector)
	if err = derive.Run(G.score); err != nil {
		log.Fatal(err)
	}
	report(derive)

	timing := midi.DefaultTiming()
	timing.Tempo = Cfg.MIDI.Tempo
	timing.TicksPerQuarter = uint16(Cfg.MIDI.TicksPerQuarter)
	if *tempo > 0 {
		timing.Tempo = *tempo
	}

	out := *output
	if out == "" {
		out = midiFile(G.scorefile)
	}
	if prev, dberr := renderDB.Outputs(G.scorefile); dberr == nil {
		for _, p := range prev {
			if p != out {
				elog.FS.Println("previously rendered to", p)
			}
		}
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	err = collector.WriteSMF(f, timing)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", out)
	if dberr := renderDB.Record(G.scorefile, out); dberr != nil {
		elog.FS.Println("db error: recording render:", dberr)
	}

	if *resave {
		if err = SaveScore(G.scorefile, SavedFromScore(G.score)); err != nil {
			log.Fatal(err)
		}
	}

	G.plumb.score.Unsub(&G)
	G.plumb.score.Close()
	<-done
}
