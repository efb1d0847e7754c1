package midi

import (
	"io"
	"math/big"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

/* Event is one timed note record emitted by the generation pass.
 * Onset is in beats from the start of the score (quarter note = 1 beat). */
type Event struct {
	Track int /* staff index, one smf track per staff */
	Onset *big.Rat
	Dur *big.Rat
	Pitch uint8
	Velocity uint8
}

/* Sink receives events in onset order, per layer. It is append-only. */
type Sink interface {
	Append(ev Event)
}

/* Collector is the trivial Sink; it just remembers what it was given. */
type Collector struct {
	Events []Event
	programs map[int]uint8
}

func (c *Collector) Append(ev Event) {
	c.Events = append(c.Events, ev)
}

/* SetProgram assigns a general midi program to a track; it is emitted
 * ahead of the track's first note. */
func (c *Collector) SetProgram(track int, prog uint8) {
	if c.programs == nil {
		c.programs = make(map[int]uint8)
	}
	c.programs[track] = prog
}

type Timing struct {
	Tempo float64 /* quarter notes per minute */
	TicksPerQuarter uint16
	MeterNum, MeterDen uint8
}

func DefaultTiming() Timing {
	return Timing{Tempo: 120, TicksPerQuarter: 960, MeterNum: 4, MeterDen: 4}
}

type edge struct {
	tick uint32
	on bool
	pitch uint8
	velocity uint8
}

func (c *Collector) ticks(ev Event, clock smf.MetricTicks) (on, off uint32) {
	beat := new(big.Rat).Set(ev.Onset)
	on = ratTicks(beat, clock)
	off = ratTicks(beat.Add(beat, ev.Dur), clock)
	return on, off
}

func ratTicks(beats *big.Rat, clock smf.MetricTicks) uint32 {
	t := new(big.Rat).Mul(beats, big.NewRat(int64(clock.Resolution()), 1))
	f, _ := t.Float64()
	return uint32(f + 0.5)
}

/* WriteSMF renders the collected events as a format-1 standard midi file,
 * one track per Event.Track value plus a conductor track. */
func (c *Collector) WriteSMF(w io.Writer, timing Timing) error {
	clock := smf.MetricTicks(timing.TicksPerQuarter)
	file := smf.New()
	file.TimeFormat = clock

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("engrave"))
	conductor.Add(0, smf.MetaTempo(timing.Tempo))
	conductor.Add(0, smf.MetaMeter(timing.MeterNum, timing.MeterDen))
	conductor.Close(0)
	file.Add(conductor)

	ntracks := 0
	for _, ev := range c.Events {
		if ev.Track + 1 > ntracks {
			ntracks = ev.Track + 1
		}
	}
	for n := 0; n < ntracks; n++ {
		edges := make([]edge, 0, len(c.Events) * 2)
		for _, ev := range c.Events {
			if ev.Track != n {
				continue
			}
			on, off := c.ticks(ev, clock)
			edges = append(edges, edge{on, true, ev.Pitch, ev.Velocity})
			edges = append(edges, edge{off, false, ev.Pitch, 0})
		}
		sort.SliceStable(edges, func(i, j int) bool {
			if edges[i].tick != edges[j].tick {
				return edges[i].tick < edges[j].tick
			}
			/* note-offs precede note-ons at the same tick */
			return !edges[i].on && edges[j].on
		})
		var tr smf.Track
		if prog, ok := c.programs[n]; ok {
			tr.Add(0, gomidi.ProgramChange(0, prog))
		}
		tick := uint32(0)
		for _, e := range edges {
			delta := e.tick - tick
			tick = e.tick
			if e.on {
				tr.Add(delta, gomidi.NoteOn(0, e.pitch, e.velocity))
			} else {
				tr.Add(delta, gomidi.NoteOff(0, e.pitch))
			}
		}
		tr.Close(0)
		file.Add(tr)
	}
	_, err := file.WriteTo(w)
	return err
}
