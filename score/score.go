package score

import (
	"sqweek.net/engrave/plumb"
)

/* Score is the document root of the layout tree:
 * Score → System → Measure → Staff → Layer → Element.
 * All drawing state below the Score is transient; the passes in the pass
 * package recompute it for every layout run. */
type Score struct {
	systems []*System
	plumb *plumb.Port

	/* processing lists; populated once per run by the list-init pass */
	processing []*Layer
}

type ScoreChanged struct {
	Score *Score
}

func MkScore(port *plumb.Port) *Score {
	if port == nil {
		port = plumb.MkPort()
	}
	return &Score{plumb: port}
}

func (score *Score) Port() *plumb.Port {
	return score.plumb
}

func (score *Score) Systems() []*System {
	return score.systems
}

func (score *Score) AddSystem() *System {
	system := &System{score: score}
	score.systems = append(score.systems, system)
	return system
}

func (score *Score) IsEmpty() bool {
	return len(score.systems) == 0
}

func (score *Score) Sub(origin interface{}, c chan interface{}) {
	score.plumb.Sub(origin, c)
}

func (score *Score) Unsub(origin interface{}) {
	score.plumb.Unsub(origin)
}

/* RegisterLayer appends the layer to the per-document processing list.
 * Repeated registration of the same layer within one run is a no-op. */
func (score *Score) RegisterLayer(layer *Layer) {
	for _, l := range score.processing {
		if l == layer {
			return
		}
	}
	score.processing = append(score.processing, layer)
}

func (score *Score) ProcessingLayers() []*Layer {
	return score.processing
}

func (score *Score) ClearProcessingLists() {
	score.processing = score.processing[:0]
}

/* PerLayer visits every layer of the document in tree order. */
func (score *Score) PerLayer(f func(layer *Layer)) {
	for _, system := range score.systems {
		for _, measure := range system.measures {
			for _, staff := range measure.staves {
				for _, layer := range staff.layers {
					f(layer)
				}
			}
		}
	}
}

type System struct {
	score *Score
	measures []*Measure
}

func (system *System) Score() *Score {
	return system.score
}

func (system *System) Measures() []*Measure {
	return system.measures
}

func (system *System) AddMeasure() *Measure {
	measure := &Measure{system: system}
	system.measures = append(system.measures, measure)
	return measure
}
