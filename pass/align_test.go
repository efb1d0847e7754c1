package pass

import (
	"testing"

	"sqweek.net/engrave/score"
)

func TestAlignHorizontally(t *testing.T) {
	sc := score.MkScore(nil)
	measure := sc.AddSystem().AddMeasure()
	layer1 := measure.AddStaff(1).AddLayer(score.VoiceN{N: 1})
	layer2 := measure.AddStaff(2).AddLayer(score.VoiceN{N: 1})
	a := note(60, rat(1, 1))
	b := note(62, rat(1, 1))
	layer1.Append(a)
	layer1.Append(b)
	c := note(48, rat(2, 1))
	layer2.Append(c)

	if _, err := run(sc, &InitOnsetOffset{}, &AlignHorizontally{}); err != nil {
		t.Fatal(err)
	}
	aligner := measure.Aligner()
	if aligner == nil || !aligner.Final() {
		t.Fatalf("aligner missing or not finalized")
	}
	/* simultaneous events across staves share an alignment */
	if a.Alignment() != c.Alignment() {
		t.Errorf("a and c start together but aligned apart")
	}
	if a.Alignment() == b.Alignment() {
		t.Errorf("a and b aligned together")
	}
	if a.Alignment().X() != 0 || b.Alignment().X() != 1 {
		t.Errorf("x ordinals: got %d, %d", a.Alignment().X(), b.Alignment().X())
	}
}

func TestAlignTrailing(t *testing.T) {
	/* an element left without an onset closes out at the layer end */
	n := note(60, rat(2, 1))
	sc, layer := mkLayerScore(n)
	clef := &score.ClefChange{Clef: &score.BassClef}
	layer.Append(clef)
	n.SetOnsetOffset(rat(0, 1), rat(2, 1))
	layer.SetOnsetsValid(true)
	if _, err := run(sc, &AlignHorizontally{}); err != nil {
		t.Fatal(err)
	}
	if clef.Alignment() == nil {
		t.Fatalf("trailing element not aligned")
	}
	if clef.Alignment().Time().Cmp(rat(2, 1)) != 0 {
		t.Errorf("trailing element aligned at %v, want 2", clef.Alignment().Time())
	}
}

func TestAlignBeforeOnsets(t *testing.T) {
	sc, _ := mkLayerScore(note(60, rat(1, 1)))
	diags, err := run(sc, &AlignHorizontally{})
	if err != nil {
		t.Fatalf("ordering violation should be a diagnostic, not fatal: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
}

func TestResetHorizontalAlignment(t *testing.T) {
	sc, layer := mkLayerScore(note(60, rat(1, 1)))
	if _, err := run(sc, &InitOnsetOffset{}, &AlignHorizontally{}); err != nil {
		t.Fatal(err)
	}
	el := layer.Elements()[0]
	if el.Base().Alignment() == nil {
		t.Fatalf("element not aligned")
	}
	/* idempotent: run the reset twice */
	if _, err := run(sc, &ResetHorizontalAlignment{}, &ResetHorizontalAlignment{}); err != nil {
		t.Fatal(err)
	}
	if el.Base().Alignment() != nil {
		t.Errorf("alignment survived reset")
	}
	if sc.Systems()[0].Measures()[0].Aligner() != nil {
		t.Errorf("measure aligner survived reset")
	}
}
