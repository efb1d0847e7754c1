package score

import (
	"math/big"
)

/* Measure holds one bar's worth of content for every staff. The aligner is
 * shared by all staves of the measure so that simultaneous events line up;
 * it is not final until every staff's layers have been visited. */
type Measure struct {
	system *System
	staves []*Staff
	aligner *MeasureAligner

	/* absolute start time in beats, set by the onset/offset pass */
	onset *big.Rat
	dur *big.Rat
}

func (measure *Measure) System() *System {
	return measure.system
}

func (measure *Measure) Staves() []*Staff {
	return measure.staves
}

/* AddStaff appends a staff with logical number n (1-based, top to bottom). */
func (measure *Measure) AddStaff(n int) *Staff {
	staff := &Staff{measure: measure, n: n, velocity: 100}
	measure.staves = append(measure.staves, staff)
	return staff
}

/* Staff returns the staff with logical number n, or nil. */
func (measure *Measure) Staff(n int) *Staff {
	for _, staff := range measure.staves {
		if staff.n == n {
			return staff
		}
	}
	return nil
}

func (measure *Measure) Aligner() *MeasureAligner {
	return measure.aligner
}

func (measure *Measure) SetOnset(t *big.Rat) {
	measure.onset = t
}

func (measure *Measure) Onset() *big.Rat {
	return measure.onset
}

func (measure *Measure) SetDur(d *big.Rat) {
	measure.dur = d
}

func (measure *Measure) Dur() *big.Rat {
	return measure.dur
}

func (measure *Measure) staffAbove(staff *Staff) *Staff {
	return measure.Staff(staff.n - 1)
}

func (measure *Measure) staffBelow(staff *Staff) *Staff {
	return measure.Staff(staff.n + 1)
}

/* timeSpanStaves enumerates the staves whose content can sound on target
 * during a time-span query: the target itself plus any neighbour related to
 * it by cross-staff content, in either direction. */
func (measure *Measure) timeSpanStaves(target *Staff) []*Staff {
	staves := []*Staff{target}
	if above := measure.staffAbove(target); above != nil {
		if target.hasCrossFromAbove() || above.hasCrossFromBelow() {
			staves = append(staves, above)
		}
	}
	if below := measure.staffBelow(target); below != nil {
		if target.hasCrossFromBelow() || below.hasCrossFromAbove() {
			staves = append(staves, below)
		}
	}
	return staves
}

type Staff struct {
	measure *Measure
	n int
	name string
	velocity int
	inst int /* general midi program number */
	layers []*Layer
}

func (staff *Staff) Measure() *Measure {
	return staff.measure
}

func (staff *Staff) N() int {
	return staff.n
}

func (staff *Staff) Name() string {
	return staff.name
}

func (staff *Staff) SetName(name string) {
	staff.name = name
}

func (staff *Staff) Velocity() int {
	return staff.velocity
}

func (staff *Staff) SetVelocity(velocity int) {
	staff.velocity = velocity
}

func (staff *Staff) Instrument() int {
	return staff.inst
}

func (staff *Staff) SetInstrument(inst int) {
	staff.inst = inst
}

func (staff *Staff) Layers() []*Layer {
	return staff.layers
}

func (staff *Staff) LayerCount() int {
	return len(staff.layers)
}

/* AddLayer appends a layer with the given voice identity. */
func (staff *Staff) AddLayer(voice VoiceN) *Layer {
	layer := &Layer{staff: staff, voice: voice}
	staff.layers = append(staff.layers, layer)
	return layer
}

func (staff *Staff) hasCrossFromAbove() bool {
	for _, layer := range staff.layers {
		if layer.crossAbove {
			return true
		}
	}
	return false
}

func (staff *Staff) hasCrossFromBelow() bool {
	for _, layer := range staff.layers {
		if layer.crossBelow {
			return true
		}
	}
	return false
}

/* CurrentClef returns the first current clef cached by any of the staff's
 * layers, or nil if no staff definition has been propagated yet. */
func (staff *Staff) CurrentClef() *Clef {
	for _, layer := range staff.layers {
		if clef := layer.GetCurrentClef(); clef != nil {
			return clef
		}
	}
	return nil
}
