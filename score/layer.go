package score

import (
	"math/big"
	"sort"

	"sqweek.net/engrave/core/types"
)

/* Layer is one voice of notation within a staff. Everything below the
 * structural fields is drawing state: recomputed every layout run, reset by
 * the data-reset pass, never shared between layers. */
type Layer struct {
	staff *Staff
	voice VoiceN
	elements []Element

	stemDir StemDir
	stemDirSet bool

	/* this layer also hosts elements whose home staff is a neighbour */
	crossAbove, crossBelow bool

	cur staffCtx
	caution staffCtx

	/* definition slots pending redisplay, cleared by the scoredef-unset pass */
	pendClef, pendKeySig, pendMensur, pendMeter bool

	/* derived timing; onsets are valid only after the onset/offset pass */
	onsetsValid bool
	castOff bool
	repeats []types.Span
}

func (layer *Layer) Staff() *Staff {
	return layer.staff
}

func (layer *Layer) Voice() VoiceN {
	return layer.voice
}

/* N is the legacy signed voice number: negative for cross-staff layers. */
func (layer *Layer) N() int {
	return layer.voice.Signed()
}

/* Idx is the layer's 0-based position in its staff; derived, not stored. */
func (layer *Layer) Idx() int {
	for i, l := range layer.staff.layers {
		if l == layer {
			return i
		}
	}
	return -1
}

func (layer *Layer) Elements() []Element {
	return layer.elements
}

func (layer *Layer) Append(el Element) {
	el.Base().layer = layer
	if el.Base().facs == 0 {
		el.Base().SetFacs(len(layer.elements))
	}
	layer.elements = append(layer.elements, el)
}

/* SetElements replaces the element sequence wholesale; used by the
 * mensural cast-off/cast-on rewrites. */
func (layer *Layer) SetElements(elements []Element) {
	for _, el := range elements {
		el.Base().layer = layer
	}
	layer.elements = elements
}

/* GetPrevious returns the element drawn immediately before el, or nil. */
func (layer *Layer) GetPrevious(el Element) Element {
	for i, e := range layer.elements {
		if e == el {
			if i == 0 {
				return nil
			}
			return layer.elements[i-1]
		}
	}
	return nil
}

//---------------------------------------------------------------------------
// Drawing-context tracker
//---------------------------------------------------------------------------

/* SetDrawingStaffDefValues merges whichever definition slots def supplies
 * into the current cache and flags them for redisplay. Slots not mentioned
 * by def are left alone. */
func (layer *Layer) SetDrawingStaffDefValues(def *StaffDef) {
	if def == nil {
		return
	}
	if def.Clef != nil {
		layer.pendClef = true
	}
	if def.KeySig != nil {
		layer.pendKeySig = true
	}
	if def.Mensur != nil {
		layer.pendMensur = true
	}
	if def.MeterSig != nil || def.MeterSigGrp != nil {
		layer.pendMeter = true
	}
	layer.cur.merge(def, false)
}

/* SetDrawingCautionValues is the same merge targeting the cautionary
 * (end-of-system courtesy) cache. */
func (layer *Layer) SetDrawingCautionValues(def *StaffDef) {
	if def == nil {
		return
	}
	layer.caution.merge(def, true)
}

/* ResetStaffDefObjects clears both caches and their cancellation flags so
 * a fresh pass re-derives context from scratch. */
func (layer *Layer) ResetStaffDefObjects() {
	layer.cur.reset()
	layer.caution.reset()
}

/* ClearPendingRedisplay drops the pending-redisplay flags without touching
 * the accumulated definition values. */
func (layer *Layer) ClearPendingRedisplay() {
	layer.pendClef, layer.pendKeySig = false, false
	layer.pendMensur, layer.pendMeter = false, false
}

func (layer *Layer) PendingRedisplay() bool {
	return layer.pendClef || layer.pendKeySig || layer.pendMensur || layer.pendMeter
}

func (layer *Layer) GetCurrentClef() *Clef {
	return layer.cur.clef
}

func (layer *Layer) GetCurrentKeySig() *KeySig {
	return layer.cur.keySig
}

func (layer *Layer) GetCurrentMensur() *Mensur {
	return layer.cur.mensur
}

func (layer *Layer) GetCurrentMeterSig() *MeterSig {
	return layer.cur.meterSig
}

func (layer *Layer) GetCurrentMeterSigGrp() *MeterSigGrp {
	return layer.cur.meterSigGrp
}

func (layer *Layer) DrawKeySigCancellation() bool {
	return layer.cur.keyCancel
}

func (layer *Layer) SetDrawKeySigCancellation(cancel bool) {
	layer.cur.keyCancel = cancel
}

func (layer *Layer) HasStaffDef() bool {
	return layer.cur.any()
}

func (layer *Layer) GetCautionClef() *Clef {
	return layer.caution.clef
}

func (layer *Layer) GetCautionKeySig() *KeySig {
	return layer.caution.keySig
}

func (layer *Layer) GetCautionMensur() *Mensur {
	return layer.caution.mensur
}

func (layer *Layer) GetCautionMeterSig() *MeterSig {
	return layer.caution.meterSig
}

func (layer *Layer) DrawCautionKeySigCancel() bool {
	return layer.caution.keyCancel
}

func (layer *Layer) SetDrawCautionKeySigCancel(cancel bool) {
	layer.caution.keyCancel = cancel
}

func (layer *Layer) HasCautionStaffDef() bool {
	return layer.caution.any()
}

//---------------------------------------------------------------------------
// Stem direction & cross-staff flags
//---------------------------------------------------------------------------

func (layer *Layer) SetDrawingStemDir(dir StemDir) {
	layer.stemDir = dir
	layer.stemDirSet = true
}

/* drawingStemDir computes and caches the staff-level assignment: a lone
 * layer gets no direction; with concurrent voices the first layer points
 * up, later ones down. The computation inspects sibling layers, so it runs
 * at most once per layout pass. */
func (layer *Layer) drawingStemDir() StemDir {
	if !layer.stemDirSet {
		layer.stemDirSet = true
		switch {
		case layer.staff.LayerCount() <= 1:
			layer.stemDir = StemNone
		case layer.Idx() == 0:
			layer.stemDir = StemUp
		default:
			layer.stemDir = StemDown
		}
	}
	return layer.stemDir
}

/* GetDrawingStemDir resolves the stem direction for el. Even on a
 * multi-layer staff the direction is left unset when no other voice sounds
 * during el's time span. */
func (layer *Layer) GetDrawingStemDir(el Element) StemDir {
	dir := layer.drawingStemDir()
	if dir == StemNone {
		return StemNone
	}
	if layer.GetLayerCountForTimeSpanOf(el) < 2 {
		return StemNone
	}
	return dir
}

/* GetDrawingStemDirSpan is the coordinate-group form: it resolves the
 * direction over the union span of the given elements (a beam's notes). */
func (layer *Layer) GetDrawingStemDirSpan(els []Element) StemDir {
	dir := layer.drawingStemDir()
	if dir == StemNone || len(els) == 0 {
		return StemNone
	}
	var span types.Span
	for _, el := range els {
		s := el.Base().TimeSpan()
		if s.Empty() {
			continue
		}
		if span.Start == nil || s.Start.Cmp(span.Start) < 0 {
			span.Start = s.Start
		}
		if span.End == nil || s.End.Cmp(span.End) > 0 {
			span.End = s.End
		}
	}
	if span.Empty() {
		return StemNone
	}
	measure, staff := layer.staff.measure, layer.staff
	if layer.GetLayerCountInTimeSpan(span.Start, span.Dur(), measure, staff.n) < 2 {
		return StemNone
	}
	return dir
}

func (layer *Layer) SetCrossStaffFromAbove(cross bool) {
	layer.crossAbove = cross
}

func (layer *Layer) HasCrossStaffFromAbove() bool {
	return layer.crossAbove
}

func (layer *Layer) SetCrossStaffFromBelow(cross bool) {
	layer.crossBelow = cross
}

func (layer *Layer) HasCrossStaffFromBelow() bool {
	return layer.crossBelow
}

//---------------------------------------------------------------------------
// Clef / position lookup
//---------------------------------------------------------------------------

/* GetClef scans backward from test's draw position until a clef change is
 * found. Returns nil when no clef precedes test; the caller then inherits
 * from the enclosing staff definition. */
func (layer *Layer) GetClef(test Element) *Clef {
	i := layer.indexOf(test)
	if i < 0 {
		i = len(layer.elements)
	}
	for i--; i >= 0; i-- {
		if change, ok := layer.elements[i].(*ClefChange); ok {
			return change.Clef
		}
	}
	return nil
}

/* GetClefFacs is GetClef ordered by source/facsimile position instead of
 * draw order; the two can disagree before reordering passes have run. */
func (layer *Layer) GetClefFacs(test Element) *Clef {
	limit := test.Base().facs
	var best *ClefChange
	for _, el := range layer.elements {
		change, ok := el.(*ClefChange)
		if !ok || el == test {
			continue
		}
		if change.facs < limit && (best == nil || change.facs > best.facs) {
			best = change
		}
	}
	if best == nil {
		return nil
	}
	return best.Clef
}

/* GetClefLocOffset returns the vertical offset (staff-line units) implied
 * by the clef governing test, falling back on the staff-definition clef. */
func (layer *Layer) GetClefLocOffset(test Element) int {
	clef := layer.GetClef(test)
	if clef == nil {
		clef = layer.GetCurrentClef()
	}
	if clef == nil {
		return 0
	}
	return clef.LocOffset()
}

/* GetCrossStaffClefLocOffset adjusts locOffset when el is drawn on a
 * neighbouring staff whose governing clef differs from this layer's. */
func (layer *Layer) GetCrossStaffClefLocOffset(el Element, locOffset int) int {
	eff := el.Base().crossStaff
	if eff == nil || eff == layer.staff {
		return locOffset
	}
	clef := eff.CurrentClef()
	if clef == nil || clef == layer.GetCurrentClef() {
		return locOffset
	}
	return clef.LocOffset()
}

func (layer *Layer) indexOf(el Element) int {
	for i, e := range layer.elements {
		if e == el {
			return i
		}
	}
	return -1
}

//---------------------------------------------------------------------------
// Time-span / cross-staff resolver
//---------------------------------------------------------------------------

/* GetLayersNInTimeSpan returns the sorted set of signed layer numbers with
 * any element sounding during [time, time+dur) on staff staffN of measure.
 * Elements drawn cross-staff contribute under their logical layer's number
 * regardless of the staff they appear on. */
func (layer *Layer) GetLayersNInTimeSpan(time, dur *big.Rat, measure *Measure, staffN int) []int {
	ns := make(map[int]bool)
	layer.eachInTimeSpan(time, dur, measure, staffN, func(l *Layer, el Element) {
		ns[l.N()] = true
	})
	set := make([]int, 0, len(ns))
	for n := range ns {
		set = append(set, n)
	}
	sort.Ints(set)
	return set
}

func (layer *Layer) GetLayerCountInTimeSpan(time, dur *big.Rat, measure *Measure, staffN int) int {
	return len(layer.GetLayersNInTimeSpan(time, dur, measure, staffN))
}

/* GetLayersNForTimeSpanOf is the convenience form taking the window from
 * an element's own onset and duration. */
func (layer *Layer) GetLayersNForTimeSpanOf(el Element) []int {
	span := el.Base().TimeSpan()
	if span.Empty() {
		return nil
	}
	staff := layer.staff
	return layer.GetLayersNInTimeSpan(span.Start, span.Dur(), staff.measure, staff.n)
}

func (layer *Layer) GetLayerCountForTimeSpanOf(el Element) int {
	return len(layer.GetLayersNForTimeSpanOf(el))
}

/* GetLayerElementsInTimeSpan returns the overlapping elements themselves.
 * excludeCurrent omits elements belonging to this layer. */
func (layer *Layer) GetLayerElementsInTimeSpan(time, dur *big.Rat, measure *Measure, staffN int, excludeCurrent bool) []Element {
	els := make([]Element, 0)
	layer.eachInTimeSpan(time, dur, measure, staffN, func(l *Layer, el Element) {
		if excludeCurrent && l == layer {
			return
		}
		els = append(els, el)
	})
	return els
}

func (layer *Layer) GetLayerElementsForTimeSpanOf(el Element, excludeCurrent bool) []Element {
	span := el.Base().TimeSpan()
	if span.Empty() {
		return nil
	}
	staff := layer.staff
	els := layer.GetLayerElementsInTimeSpan(span.Start, span.Dur(), staff.measure, staff.n, excludeCurrent)
	/* the query element itself is never part of its own answer */
	for i, e := range els {
		if e == el {
			els = append(els[:i], els[i+1:]...)
			break
		}
	}
	return els
}

/* eachInTimeSpan enumerates candidate staves (the target plus cross-staff
 * neighbours) and yields every element overlapping the half-open window,
 * paired with its logical (owning) layer. */
func (layer *Layer) eachInTimeSpan(time, dur *big.Rat, measure *Measure, staffN int, f func(l *Layer, el Element)) {
	if measure == nil {
		return
	}
	target := measure.Staff(staffN)
	if target == nil {
		return
	}
	span := types.MkSpan(time, dur)
	for _, staff := range measure.timeSpanStaves(target) {
		for _, l := range staff.layers {
			for _, el := range l.elements {
				if !el.Base().TimeSpan().Overlaps(span) {
					continue
				}
				/* attribution: content the target owns, or content drawn
				 * onto the target from a neighbour */
				if staff == target || el.Base().crossStaff == target {
					f(l, el)
				}
			}
		}
	}
}

//---------------------------------------------------------------------------
// Pass-scoped derived state
//---------------------------------------------------------------------------

func (layer *Layer) SetOnsetsValid(valid bool) {
	layer.onsetsValid = valid
}

func (layer *Layer) OnsetsValid() bool {
	return layer.onsetsValid
}

func (layer *Layer) SetCastOff(castOff bool) {
	layer.castOff = castOff
}

func (layer *Layer) IsCastOff() bool {
	return layer.castOff
}

func (layer *Layer) SetRepeats(repeats []types.Span) {
	layer.repeats = repeats
}

func (layer *Layer) Repeats() []types.Span {
	return layer.repeats
}

/* ResetHorizontal drops computed alignment references. Idempotent. */
func (layer *Layer) ResetHorizontal() {
	for _, el := range layer.elements {
		el.Base().SetAlignment(nil)
	}
}

/* ResetData returns the layer to its post-construction state: strictly
 * more than ResetStaffDefObjects. Structural fields (staff, voice, element
 * sequence) survive; every derived field is cleared. */
func (layer *Layer) ResetData() {
	layer.ResetStaffDefObjects()
	layer.ClearPendingRedisplay()
	layer.stemDir, layer.stemDirSet = StemNone, false
	layer.crossAbove, layer.crossBelow = false, false
	layer.onsetsValid = false
	layer.repeats = nil
	for _, el := range layer.elements {
		el.Base().resetData()
	}
}
