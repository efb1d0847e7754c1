package score

import (
	"math/big"
	"sort"
)

/* Alignment is one time position shared by every staff of a measure;
 * elements registered at the same time draw at the same x. */
type Alignment struct {
	time *big.Rat
	elements []Element

	/* ordinal position across the measure, assigned on finalization */
	x int
}

func (alignment *Alignment) Time() *big.Rat {
	return alignment.time
}

func (alignment *Alignment) Elements() []Element {
	return alignment.elements
}

func (alignment *Alignment) X() int {
	return alignment.x
}

/* MeasureAligner accumulates aligned time positions for one measure. It
 * stays open until every staff of the measure has been visited; x positions
 * are meaningless before Finalize. */
type MeasureAligner struct {
	alignments []*Alignment
	final bool
}

func MkAligner() *MeasureAligner {
	return &MeasureAligner{}
}

/* At returns the alignment for time t, creating it if necessary. */
func (aligner *MeasureAligner) At(t *big.Rat) *Alignment {
	for _, alignment := range aligner.alignments {
		if alignment.time.Cmp(t) == 0 {
			return alignment
		}
	}
	alignment := &Alignment{time: new(big.Rat).Set(t)}
	aligner.alignments = append(aligner.alignments, alignment)
	return alignment
}

/* Register files the element under time t and records the handle on the
 * element. Registering into a finalized aligner reopens it. */
func (aligner *MeasureAligner) Register(el Element, t *big.Rat) *Alignment {
	aligner.final = false
	alignment := aligner.At(t)
	alignment.elements = append(alignment.elements, el)
	el.Base().SetAlignment(alignment)
	return alignment
}

func (aligner *MeasureAligner) Final() bool {
	return aligner.final
}

func (aligner *MeasureAligner) Alignments() []*Alignment {
	return aligner.alignments
}

/* Finalize sorts the accumulated times and assigns ordinal x positions.
 * Called once all staves of the measure have contributed. */
func (aligner *MeasureAligner) Finalize() {
	sort.Slice(aligner.alignments, func(i, j int) bool {
		return aligner.alignments[i].time.Cmp(aligner.alignments[j].time) < 0
	})
	for i, alignment := range aligner.alignments {
		alignment.x = i
	}
	aligner.final = true
}

func (measure *Measure) SetAligner(aligner *MeasureAligner) {
	measure.aligner = aligner
}
