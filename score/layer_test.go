package score

import (
	"math/big"
	"testing"

	"sqweek.net/engrave/midi"
)

func rat(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func mkMeasure() *Measure {
	sc := MkScore(nil)
	return sc.AddSystem().AddMeasure()
}

/* appends a note and assigns its measure-relative times from its siblings */
func addNote(layer *Layer, pitch uint8, dur *big.Rat) *Note {
	t := new(big.Rat)
	for _, el := range layer.Elements() {
		t.Add(t, el.Dur())
	}
	note := &Note{Pitch: pitch, Duration: dur}
	layer.Append(note)
	note.SetOnsetOffset(t, new(big.Rat).Add(t, dur))
	layer.SetOnsetsValid(true)
	return note
}

func TestStaffDefMerge(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	key := KeySig(2)
	layer.SetDrawingStaffDefValues(&StaffDef{Clef: &TrebleClef})
	layer.SetDrawingStaffDefValues(&StaffDef{KeySig: &key})
	if layer.GetCurrentClef() != &TrebleClef {
		t.Errorf("clef lost by disjoint merge")
	}
	if sig := layer.GetCurrentKeySig(); sig == nil || *sig != key {
		t.Errorf("key signature not merged")
	}
	if !layer.PendingRedisplay() {
		t.Errorf("merged slots should be pending redisplay")
	}
	layer.ClearPendingRedisplay()
	if layer.PendingRedisplay() {
		t.Errorf("ClearPendingRedisplay left flags set")
	}
	if layer.GetCurrentClef() == nil || layer.GetCurrentKeySig() == nil {
		t.Errorf("ClearPendingRedisplay should not touch cached values")
	}
}

func TestStaffDefReset(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	key := KeySig(-3)
	mensur := &Mensur{Sign: 'O', Tempus: 3, Prolatio: 2}
	meter := &MeterSig{6, 8}
	layer.SetDrawingStaffDefValues(&StaffDef{Clef: &BassClef, KeySig: &key, Mensur: mensur, MeterSig: meter, KeyCancel: true})
	layer.SetDrawingCautionValues(&StaffDef{Clef: &TrebleClef})
	if !layer.HasStaffDef() || !layer.HasCautionStaffDef() {
		t.Fatalf("staff definitions should be present before reset")
	}
	layer.ResetStaffDefObjects()
	if layer.GetCurrentClef() != nil || layer.GetCurrentKeySig() != nil ||
		layer.GetCurrentMensur() != nil || layer.GetCurrentMeterSig() != nil ||
		layer.GetCurrentMeterSigGrp() != nil || layer.DrawKeySigCancellation() {
		t.Errorf("current cache not fully cleared")
	}
	if layer.GetCautionClef() != nil || layer.HasCautionStaffDef() {
		t.Errorf("cautionary cache not cleared")
	}
}

func TestCautionIndependent(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	layer.SetDrawingCautionValues(&StaffDef{Clef: &AltoClef})
	if layer.GetCurrentClef() != nil {
		t.Errorf("caution merge leaked into current cache")
	}
	if layer.GetCautionClef() != &AltoClef {
		t.Errorf("caution clef not cached")
	}
}

func TestStemDirSingleLayer(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	note := addNote(layer, midi.PitchC5, rat(1, 1))
	if dir := layer.GetDrawingStemDir(note); dir != StemNone {
		t.Errorf("lone layer: got %v, want StemNone", dir)
	}
}

func TestStemDirTwoLayers(t *testing.T) {
	staff := mkMeasure().AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	n1 := addNote(layer1, midi.PitchC5, rat(1, 1))
	n2 := addNote(layer2, midi.PitchA4, rat(2, 1))
	if dir := layer1.GetDrawingStemDir(n1); dir != StemUp {
		t.Errorf("first layer: got %v, want StemUp", dir)
	}
	if dir := layer2.GetDrawingStemDir(n2); dir != StemDown {
		t.Errorf("second layer: got %v, want StemDown", dir)
	}
	/* second note of the longer voice sounds alone; no stem direction */
	solo := addNote(layer2, midi.PitchA4, rat(1, 1))
	if dir := layer2.GetDrawingStemDir(solo); dir != StemNone {
		t.Errorf("unopposed note: got %v, want StemNone", dir)
	}
}

func TestStemDirStable(t *testing.T) {
	staff := mkMeasure().AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	n1 := addNote(layer1, midi.PitchC5, rat(1, 1))
	addNote(layer2, midi.PitchA4, rat(1, 1))
	first := layer1.GetDrawingStemDir(n1)
	for i := 0; i < 3; i++ {
		if layer1.GetDrawingStemDir(n1) != first {
			t.Fatalf("stem direction changed across repeated queries")
		}
	}
}

func TestGetClef(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	layer.SetDrawingStaffDefValues(&StaffDef{Clef: &TrebleClef})
	for i := 0; i < 3; i++ {
		addNote(layer, midi.PitchC5, rat(1, 1))
	}
	layer.Append(&ClefChange{Clef: &BassClef}) /* index 3 */
	addNote(layer, midi.PitchD4, rat(1, 1))
	addNote(layer, midi.PitchD4, rat(1, 1)) /* index 5 */
	els := layer.Elements()
	if clef := layer.GetClef(els[5]); clef != &BassClef {
		t.Errorf("after change: got %v, want bass", clef)
	}
	if clef := layer.GetClef(els[1]); clef != nil {
		t.Errorf("before change: got %v, want nil (staff-inherited)", clef)
	}
	if off := layer.GetClefLocOffset(els[1]); off != TrebleClef.LocOffset() {
		t.Errorf("loc offset before change: got %d", off)
	}
	if off := layer.GetClefLocOffset(els[5]); off != BassClef.LocOffset() {
		t.Errorf("loc offset after change: got %d", off)
	}
}

func TestGetClefFacs(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	/* draw order disagrees with source order: the clef drawn later
	 * precedes the note in the source */
	note := &Note{Pitch: midi.PitchC5, Duration: rat(1, 1)}
	note.SetFacs(5)
	layer.Append(note)
	change := &ClefChange{Clef: &AltoClef}
	change.SetFacs(2)
	layer.Append(change)
	if layer.GetClef(note) != nil {
		t.Errorf("draw order: no clef precedes the note")
	}
	if layer.GetClefFacs(note) != &AltoClef {
		t.Errorf("source order: clef at facs 2 governs note at facs 5")
	}
}

func TestFacsAssignment(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	fresh := &Note{Pitch: midi.PitchC5, Duration: rat(1, 1)}
	if fresh.Facs() != -1 {
		t.Errorf("unappended note: facs %d, want -1", fresh.Facs())
	}
	/* an explicit facs of 0 survives appending in non-zero position */
	head := &Note{Pitch: midi.PitchA4, Duration: rat(1, 1)}
	head.SetFacs(0)
	layer.Append(fresh)
	layer.Append(head)
	if fresh.Facs() != 0 {
		t.Errorf("auto-numbered note: facs %d, want 0", fresh.Facs())
	}
	if head.Facs() != 0 {
		t.Errorf("explicit facs renumbered: got %d, want 0", head.Facs())
	}
}

func TestTimeSpanScenario(t *testing.T) {
	/* layer 1: quarter note at 0; layer 2: half note at 0 */
	measure := mkMeasure()
	staff := measure.AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	addNote(layer1, midi.PitchC5, rat(1, 1))
	addNote(layer2, midi.PitchA4, rat(2, 1))

	if n := layer1.GetLayerCountInTimeSpan(rat(0, 1), rat(1, 1), measure, 1); n != 2 {
		t.Errorf("span [0,1): got %d layers, want 2", n)
	}
	if n := layer1.GetLayerCountInTimeSpan(rat(1, 1), rat(1, 1), measure, 1); n != 1 {
		t.Errorf("span [1,2): got %d layers, want 1", n)
	}
	ns := layer1.GetLayersNInTimeSpan(rat(1, 1), rat(1, 1), measure, 1)
	if len(ns) != 1 || ns[0] != 2 {
		t.Errorf("span [1,2): got %v, want [2]", ns)
	}
}

func TestTimeSpanIdempotent(t *testing.T) {
	measure := mkMeasure()
	staff := measure.AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	addNote(layer1, midi.PitchC5, rat(1, 1))
	addNote(layer2, midi.PitchA4, rat(2, 1))
	first := layer1.GetLayersNInTimeSpan(rat(0, 1), rat(2, 1), measure, 1)
	for i := 0; i < 3; i++ {
		again := layer1.GetLayersNInTimeSpan(rat(0, 1), rat(2, 1), measure, 1)
		if len(again) != len(first) {
			t.Fatalf("query %d: got %v, want %v", i, again, first)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("query %d: got %v, want %v", i, again, first)
			}
		}
	}
}

func TestTimeSpanOfElement(t *testing.T) {
	measure := mkMeasure()
	staff := measure.AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	q1 := addNote(layer1, midi.PitchC5, rat(1, 1))
	addNote(layer1, midi.PitchB5, rat(1, 1))
	half := addNote(layer2, midi.PitchA4, rat(2, 1))

	els := layer1.GetLayerElementsForTimeSpanOf(q1, false)
	if len(els) != 1 || els[0] != Element(half) {
		t.Errorf("concurrent with q1: got %d elements, want just the half note", len(els))
	}
	els = layer2.GetLayerElementsForTimeSpanOf(half, true)
	if len(els) != 2 {
		t.Errorf("other-layer elements during half note: got %d, want 2", len(els))
	}
	if n := layer1.GetLayerCountForTimeSpanOf(q1); n != 2 {
		t.Errorf("layer count for q1: got %d, want 2", n)
	}
}

func TestCrossStaffAttribution(t *testing.T) {
	/* element logically owned by staff 2's cross layer, drawn on staff 1 */
	measure := mkMeasure()
	upper := measure.AddStaff(1)
	lower := measure.AddStaff(2)
	upperLayer := upper.AddLayer(VoiceN{N: 1})
	crossLayer := lower.AddLayer(VoiceN{N: 2, Cross: true})
	addNote(upperLayer, midi.PitchC5, rat(1, 1))
	crossed := addNote(crossLayer, midi.PitchD4, rat(1, 1))
	crossed.SetCrossStaff(upper)
	upperLayer.SetCrossStaffFromBelow(true)

	ns := upperLayer.GetLayersNInTimeSpan(rat(0, 1), rat(1, 1), measure, 1)
	want := []int{-2, 1}
	if len(ns) != len(want) || ns[0] != want[0] || ns[1] != want[1] {
		t.Errorf("staff 1 span: got %v, want %v", ns, want)
	}
}

func TestCrossStaffClefLocOffset(t *testing.T) {
	measure := mkMeasure()
	upper := measure.AddStaff(1)
	lower := measure.AddStaff(2)
	upperLayer := upper.AddLayer(VoiceN{N: 1})
	lowerLayer := lower.AddLayer(VoiceN{N: 1, Cross: true})
	upperLayer.SetDrawingStaffDefValues(&StaffDef{Clef: &TrebleClef})
	lowerLayer.SetDrawingStaffDefValues(&StaffDef{Clef: &BassClef})
	note := addNote(lowerLayer, midi.PitchD4, rat(1, 1))

	base := lowerLayer.GetClefLocOffset(note)
	if got := lowerLayer.GetCrossStaffClefLocOffset(note, base); got != base {
		t.Errorf("non-cross element: offset changed from %d to %d", base, got)
	}
	note.SetCrossStaff(upper)
	if got := lowerLayer.GetCrossStaffClefLocOffset(note, base); got != TrebleClef.LocOffset() {
		t.Errorf("cross element: got %d, want treble offset %d", got, TrebleClef.LocOffset())
	}
}

func TestGetPrevious(t *testing.T) {
	layer := mkMeasure().AddStaff(1).AddLayer(VoiceN{N: 1})
	a := addNote(layer, midi.PitchC5, rat(1, 1))
	b := addNote(layer, midi.PitchD4, rat(1, 1))
	if layer.GetPrevious(a) != nil {
		t.Errorf("first element has no predecessor")
	}
	if layer.GetPrevious(b) != Element(a) {
		t.Errorf("predecessor of b should be a")
	}
}

func TestResetData(t *testing.T) {
	staff := mkMeasure().AddStaff(1)
	layer := staff.AddLayer(VoiceN{N: 1})
	staff.AddLayer(VoiceN{N: 2})
	layer.SetDrawingStaffDefValues(&StaffDef{Clef: &TrebleClef})
	note := addNote(layer, midi.PitchC5, rat(1, 1))
	layer.SetDrawingStemDir(StemUp)
	layer.SetCrossStaffFromAbove(true)
	layer.SetCastOff(true)

	layer.ResetData()
	if layer.GetCurrentClef() != nil {
		t.Errorf("staff-def cache survived reset")
	}
	if layer.HasCrossStaffFromAbove() {
		t.Errorf("cross flag survived reset")
	}
	if layer.OnsetsValid() {
		t.Errorf("onset validity survived reset")
	}
	if note.Onset() != nil || note.Offset() != nil {
		t.Errorf("element times survived reset")
	}
	/* cast-off is structural: the element sequence itself is rewritten,
	 * so a data reset must not lie about it */
	if !layer.IsCastOff() {
		t.Errorf("cast-off flag should survive data reset")
	}
	if len(layer.Elements()) != 1 {
		t.Errorf("element sequence should survive reset")
	}
}

func TestZeroDurUnshared(t *testing.T) {
	/* mutating one element's duration must not leak into another's */
	bar := &BarLine{Style: BarSingle}
	change := &ClefChange{Clef: &BassClef}
	bar.Dur().SetInt64(7)
	if bar.Dur().Sign() != 0 {
		t.Errorf("barline duration mutated through Dur result: %v", bar.Dur())
	}
	if change.Dur().Sign() != 0 {
		t.Errorf("clef change duration aliased: %v", change.Dur())
	}
}

func TestVoiceN(t *testing.T) {
	if (VoiceN{N: 2, Cross: true}).Signed() != -2 {
		t.Errorf("cross voice should surface negative")
	}
	if (VoiceN{N: 2}).Signed() != 2 {
		t.Errorf("plain voice should surface positive")
	}
}

func TestLayerIdx(t *testing.T) {
	staff := mkMeasure().AddStaff(1)
	layer1 := staff.AddLayer(VoiceN{N: 1})
	layer2 := staff.AddLayer(VoiceN{N: 2})
	if layer1.Idx() != 0 || layer2.Idx() != 1 {
		t.Errorf("got idx %d, %d", layer1.Idx(), layer2.Idx())
	}
}
