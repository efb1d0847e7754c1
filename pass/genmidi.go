package pass

import (
	"math/big"

	"github.com/pkg/errors"

	"sqweek.net/engrave/midi"
	"sqweek.net/engrave/score"
)

/* GenerateMIDI emits timed note records for every layer into Sink, in
 * onset order. Tied notes are folded into a single event; ties still open
 * when the layer ends are closed by the end step. Ties spanning a layer
 * boundary are the element's own responsibility, not this pass's. */
type GenerateMIDI struct {
	base
	Sink midi.Sink

	buf []midi.Event
	open map[uint8]int /* pitch → index into buf of the unclosed event */
}

func (p *GenerateMIDI) Name() string {
	return "generate-midi"
}

func (p *GenerateMIDI) Before(n Node) (Code, error) {
	layer, ok := n.(*score.Layer)
	if !ok {
		return Continue, nil
	}
	if !layer.OnsetsValid() {
		return Skip, errors.Errorf("layer %d: midi generation before onset/offset init", layer.N())
	}
	staff := layer.Staff()
	track := staff.N() - 1
	vel := uint8(staff.Velocity())
	measureOnset := staff.Measure().Onset()
	if measureOnset == nil {
		measureOnset = new(big.Rat)
	}
	p.buf = p.buf[:0]
	p.open = make(map[uint8]int)
	for _, el := range layer.Elements() {
		note, ok := el.(*score.Note)
		if !ok {
			continue
		}
		if note.Tie & score.TieStop != 0 {
			if i, tied := p.open[note.Pitch]; tied {
				p.buf[i].Dur.Add(p.buf[i].Dur, note.Duration)
				if note.Tie & score.TieStart == 0 {
					delete(p.open, note.Pitch)
				}
				continue
			}
			/* unmatched tie end: treat as a fresh note */
		}
		ev := midi.Event{
			Track: track,
			Onset: new(big.Rat).Add(measureOnset, note.Onset()),
			Dur: new(big.Rat).Set(note.Duration),
			Pitch: note.Pitch,
			Velocity: vel,
		}
		p.buf = append(p.buf, ev)
		if note.Tie & score.TieStart != 0 {
			p.open[note.Pitch] = len(p.buf) - 1
		}
	}
	return Skip, nil
}

func (p *GenerateMIDI) After(n Node) (Code, error) {
	if _, ok := n.(*score.Layer); !ok {
		return Continue, nil
	}
	/* end step: whatever ties remain open are closed as they stand */
	p.open = nil
	for _, ev := range p.buf {
		p.Sink.Append(ev)
	}
	p.buf = p.buf[:0]
	return Continue, nil
}
