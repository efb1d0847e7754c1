package pass

import (
	"math/big"

	"sqweek.net/engrave/core/types"
	"sqweek.net/engrave/score"
)

/* PrepareRepeats resolves repeat barlines local to each layer into
 * concrete time ranges. An unterminated repeat extends to the end of the
 * measure's content. */
type PrepareRepeats struct {
	base
}

func (p *PrepareRepeats) Name() string {
	return "prepare-repeats"
}

func (p *PrepareRepeats) Before(n Node) (Code, error) {
	layer, ok := n.(*score.Layer)
	if !ok {
		return Continue, nil
	}
	var repeats []types.Span
	var open *big.Rat
	t := new(big.Rat)
	for _, el := range layer.Elements() {
		if bar, isBar := el.(*score.BarLine); isBar {
			switch bar.Style {
			case score.BarRepeatStart:
				open = new(big.Rat).Set(t)
			case score.BarRepeatEnd:
				if open != nil {
					repeats = append(repeats, types.Span{Start: open, End: new(big.Rat).Set(t)})
					open = nil
				}
			}
		}
		t.Add(t, el.Dur())
	}
	if open != nil {
		repeats = append(repeats, types.Span{Start: open, End: t})
	}
	layer.SetRepeats(repeats)
	return Skip, nil
}
