package pass

import (
	"math/big"

	"github.com/pkg/errors"

	"sqweek.net/engrave/score"
)

/* ResetHorizontalAlignment drops previously computed alignment references
 * and x positions. Idempotent; safe to run any number of times. */
type ResetHorizontalAlignment struct {
	base
}

func (p *ResetHorizontalAlignment) Name() string {
	return "reset-horizontal-alignment"
}

func (p *ResetHorizontalAlignment) Before(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Measure:
		n.SetAligner(nil)
	case *score.Layer:
		n.ResetHorizontal()
		return Skip, nil
	}
	return Continue, nil
}

/* AlignHorizontally registers every element with the measure's shared
 * aligner under its time-derived key, so simultaneous events across staves
 * land on the same alignment. The aligner is only finalized once every
 * staff of the measure has contributed. */
type AlignHorizontally struct {
	base
	aligner *score.MeasureAligner
	trailing []score.Element /* elements without onsets, placed at layer end */
}

func (p *AlignHorizontally) Name() string {
	return "align-horizontally"
}

func (p *AlignHorizontally) Before(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Measure:
		p.aligner = n.Aligner()
		if p.aligner == nil {
			p.aligner = score.MkAligner()
			n.SetAligner(p.aligner)
		}
	case *score.Layer:
		if !n.OnsetsValid() {
			return Skip, errors.Errorf("layer %d: aligned before onset/offset init", n.N())
		}
		p.trailing = nil
		for _, el := range n.Elements() {
			if el.Base().Onset() == nil {
				p.trailing = append(p.trailing, el)
				continue
			}
			p.aligner.Register(el, el.Base().Onset())
		}
	}
	return Continue, nil
}

func (p *AlignHorizontally) After(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Layer:
		/* trailing grace/courtesy elements close out at the layer's end */
		if len(p.trailing) > 0 {
			end := layerEnd(n)
			for _, el := range p.trailing {
				p.aligner.Register(el, end)
			}
			p.trailing = nil
		}
	case *score.Measure:
		n.Aligner().Finalize()
	}
	return Continue, nil
}

func layerEnd(layer *score.Layer) *big.Rat {
	end := new(big.Rat)
	for _, el := range layer.Elements() {
		if off := el.Base().Offset(); off != nil && off.Cmp(end) > 0 {
			end = off
		}
	}
	return end
}
