package pass

import (
	"math/big"

	"github.com/pkg/errors"

	"sqweek.net/engrave/score"
)

/* CastOffMensural rewrites each layer's mensural element sequence into an
 * equivalent common-notation timeline: generated barlines are inserted at
 * the positions the mensuration implies, and elements crossing a boundary
 * are split into tied pieces. Total duration is preserved and the original
 * structure is recoverable via UnCastOffMensural. */
type CastOffMensural struct {
	base

	/* grouping length for layers without a mensuration; 4 beats if nil */
	BarDur *big.Rat
}

func (p *CastOffMensural) Name() string {
	return "cast-off-mensural"
}

func (p *CastOffMensural) Before(n Node) (Code, error) {
	layer, ok := n.(*score.Layer)
	if !ok {
		return Continue, nil
	}
	if layer.IsCastOff() {
		return Skip, errors.Errorf("layer %d: cast off twice without cast-on", layer.N())
	}
	bar := p.BarDur
	if mensur := layer.GetCurrentMensur(); mensur != nil {
		bar = mensur.BarDur()
	}
	if bar == nil {
		bar = big.NewRat(4, 1)
	}
	layer.SetElements(castOff(layer.Elements(), bar))
	layer.SetCastOff(true)
	layer.SetOnsetsValid(false)
	return Skip, nil
}

func castOff(els []score.Element, bar *big.Rat) []score.Element {
	out := make([]score.Element, 0, len(els))
	t := new(big.Rat)
	for i, el := range els {
		d := el.Dur()
		if d.Sign() == 0 {
			out = append(out, el)
			continue
		}
		remaining := new(big.Rat).Set(d)
		first := true
		for remaining.Sign() > 0 {
			boundary := nextBoundary(t, bar)
			room := new(big.Rat).Sub(boundary, t)
			if remaining.Cmp(room) <= 0 {
				if first {
					out = append(out, el) /* untouched */
				} else {
					out = append(out, piece(el, remaining, false, true))
				}
				t.Add(t, remaining)
				remaining.SetInt64(0)
			} else {
				out = append(out, piece(el, room, first, false))
				t.Set(boundary)
				remaining.Sub(remaining, room)
			}
			if t.Cmp(boundary) == 0 && (remaining.Sign() > 0 || i < len(els) - 1) {
				out = append(out, generatedBar())
			}
			first = false
		}
	}
	return out
}

/* nextBoundary is the smallest multiple of bar strictly greater than t. */
func nextBoundary(t, bar *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(t, bar)
	k := new(big.Int).Quo(q.Num(), q.Denom())
	b := new(big.Rat).Mul(new(big.Rat).SetInt(k), bar)
	for b.Cmp(t) <= 0 {
		b.Add(b, bar)
	}
	return b
}

func generatedBar() *score.BarLine {
	bar := &score.BarLine{Style: score.BarSingle}
	bar.SetGenerated(true)
	return bar
}

/* piece clones el with duration d. The first piece keeps any incoming tie
 * and opens one to its successor; every piece but the last does likewise,
 * and later pieces are marked as cast splits so cast-on can merge them
 * back. Only the last piece keeps any outgoing tie. */
func piece(el score.Element, d *big.Rat, first, last bool) score.Element {
	dur := new(big.Rat).Set(d)
	switch el := el.(type) {
	case *score.Note:
		note := &score.Note{Pitch: el.Pitch, Duration: dur, Artics: el.Artics}
		if first {
			note.Tie = (el.Tie & score.TieStop) | score.TieStart
		} else {
			note.SetCastSplit(true)
			if last {
				note.Tie = (el.Tie & score.TieStart) | score.TieStop
			} else {
				note.Tie = score.TieStart | score.TieStop
			}
		}
		note.SetFacs(el.Base().Facs())
		note.SetCrossStaff(el.Base().CrossStaff())
		return note
	case *score.Rest:
		rest := &score.Rest{Duration: dur}
		if !first {
			rest.SetCastSplit(true)
		}
		rest.SetFacs(el.Base().Facs())
		rest.SetCrossStaff(el.Base().CrossStaff())
		return rest
	}
	return el
}

/* UnCastOffMensural reverses CastOffMensural: generated barlines are
 * dropped and split pieces merged, restoring the mensural grouping. A
 * layer that was never cast off is left untouched. */
type UnCastOffMensural struct {
	base
}

func (p *UnCastOffMensural) Name() string {
	return "uncast-off-mensural"
}

func (p *UnCastOffMensural) Before(n Node) (Code, error) {
	layer, ok := n.(*score.Layer)
	if !ok {
		return Continue, nil
	}
	if !layer.IsCastOff() {
		return Skip, nil /* no-op by contract */
	}
	out, err := castOn(layer.Elements())
	if err != nil {
		return Skip, errors.Wrapf(err, "layer %d", layer.N())
	}
	layer.SetElements(out)
	layer.SetCastOff(false)
	layer.SetOnsetsValid(false)
	return Skip, nil
}

func castOn(els []score.Element) ([]score.Element, error) {
	out := make([]score.Element, 0, len(els))
	for _, el := range els {
		if bar, ok := el.(*score.BarLine); ok && bar.Generated() {
			continue
		}
		switch el := el.(type) {
		case *score.Note:
			if el.CastSplit() {
				prev, ok := last(out).(*score.Note)
				if !ok || prev.Pitch != el.Pitch {
					return nil, errors.Errorf("cast split without matching note")
				}
				prev.Duration.Add(prev.Duration, el.Duration)
				prev.Tie = (prev.Tie &^ score.TieStart) | (el.Tie & score.TieStart)
				continue
			}
		case *score.Rest:
			if el.CastSplit() {
				prev, ok := last(out).(*score.Rest)
				if !ok {
					return nil, errors.Errorf("cast split without matching rest")
				}
				prev.Duration.Add(prev.Duration, el.Duration)
				continue
			}
		}
		out = append(out, el)
	}
	return out, nil
}

func last(els []score.Element) score.Element {
	if len(els) == 0 {
		return nil
	}
	return els[len(els)-1]
}
