package pass

import (
	"time"

	"github.com/pkg/errors"

	"sqweek.net/engrave/log"
	"sqweek.net/engrave/midi"
	"sqweek.net/engrave/score"
)

/* PassDone is published on the score's plumb port after each completed
 * pass. */
type PassDone struct {
	Pass string
	Elapsed time.Duration
	Diags int
}

/* Pipeline is an ordered sequence of passes; each runs to completion over
 * the whole tree before the next begins. Subtree diagnostics accumulate;
 * a terminated walk aborts the run and no further passes are issued. */
type Pipeline struct {
	name string
	passes []Pass
	diags []error
}

func MkPipeline(name string, passes ...Pass) *Pipeline {
	return &Pipeline{name: name, passes: passes}
}

func (pl *Pipeline) Run(sc *score.Score) error {
	for _, p := range pl.passes {
		t0 := time.Now()
		diags, err := Walk(sc, p)
		for _, d := range diags {
			log.PASS.Printf("%s: %s: %v", pl.name, p.Name(), d)
		}
		pl.diags = append(pl.diags, diags...)
		if err != nil {
			log.PASS.Printf("%s: %s: aborted: %v", pl.name, p.Name(), err)
			return errors.Wrapf(err, "%s: pass %s", pl.name, p.Name())
		}
		sc.Port().C <- PassDone{p.Name(), time.Since(t0), len(diags)}
	}
	return nil
}

/* Diags returns the subtree diagnostics accumulated over all runs. */
func (pl *Pipeline) Diags() []error {
	return pl.diags
}

/* Layout builds the standard layout pipeline: markup normalization,
 * definition-flag housekeeping, alignment reset, list registration, timing
 * and horizontal alignment. */
func Layout() *Pipeline {
	return MkPipeline("layout",
		&ConvertMarkup{},
		&ScoreDefUnset{},
		&ResetHorizontalAlignment{},
		&InitProcessingLists{},
		&InitOnsetOffset{},
		&PrepareRepeats{},
		&AlignHorizontally{},
	)
}

/* DeriveMIDI builds the event-derivation pipeline feeding sink. */
func DeriveMIDI(sink midi.Sink) *Pipeline {
	return MkPipeline("midi",
		&InitOnsetOffset{},
		&GenerateMIDI{Sink: sink},
	)
}
