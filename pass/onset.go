package pass

import (
	"math/big"

	"sqweek.net/engrave/score"
)

/* InitOnsetOffset computes the measure-relative onset and offset of every
 * element from local durations, and the absolute onset of every measure.
 * It seeds the data the time-span resolver depends on, so it must run
 * before any time-span query in the same pipeline execution. */
type InitOnsetOffset struct {
	base
	total *big.Rat /* absolute time at the start of the current measure */
	longest *big.Rat /* longest layer extent seen in the current measure */
}

func (p *InitOnsetOffset) Name() string {
	return "init-onset-offset"
}

func (p *InitOnsetOffset) Before(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Score:
		p.total = new(big.Rat)
	case *score.Measure:
		n.SetOnset(new(big.Rat).Set(p.total))
		p.longest = new(big.Rat)
	case *score.Layer:
		if len(n.Elements()) == 0 {
			n.SetOnsetsValid(true)
			return Skip, nil
		}
		t := new(big.Rat)
		for _, el := range n.Elements() {
			onset := new(big.Rat).Set(t)
			t = new(big.Rat).Add(t, el.Dur())
			el.Base().SetOnsetOffset(onset, new(big.Rat).Set(t))
		}
		if t.Cmp(p.longest) > 0 {
			p.longest = t
		}
		n.SetOnsetsValid(true)
		return Skip, nil
	}
	return Continue, nil
}

func (p *InitOnsetOffset) After(n Node) (Code, error) {
	if measure, ok := n.(*score.Measure); ok {
		dur := p.longest
		if meter := measureMeter(measure); meter != nil && meter.Beats().Cmp(dur) > 0 {
			dur = meter.Beats()
		}
		measure.SetDur(new(big.Rat).Set(dur))
		p.total.Add(p.total, dur)
	}
	return Continue, nil
}

/* measureMeter finds the meter signature in force for the measure, if any
 * layer has one cached from its staff definition. */
func measureMeter(measure *score.Measure) *score.MeterSig {
	for _, staff := range measure.Staves() {
		for _, layer := range staff.Layers() {
			if meter := layer.GetCurrentMeterSig(); meter != nil {
				return meter
			}
		}
	}
	return nil
}
