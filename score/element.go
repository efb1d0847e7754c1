package score

import (
	"math/big"

	"sqweek.net/engrave/core/types"
)

type StemDir int

const (
	StemNone StemDir = iota
	StemUp
	StemDown
)

/* VoiceN is a layer's logical voice identity. Cross marks a layer whose
 * content is drawn on a neighbouring staff; such layers surface with a
 * negative number wherever the legacy signed encoding is expected. */
type VoiceN struct {
	N int
	Cross bool
}

func (v VoiceN) Signed() int {
	if v.Cross {
		return -v.N
	}
	return v.N
}

type TieFlag int

const (
	TieStart TieFlag = 1 << iota
	TieStop
)

/* Element is one notational item within a layer. Concrete types embed
 * ElemBase, which carries the transient drawing and timing state. */
type Element interface {
	Base() *ElemBase
	/* notated duration in beats; zero for non-durational elements */
	Dur() *big.Rat
}

type ElemBase struct {
	layer *Layer

	/* source/facsimile ordering position, stored off by one so the zero
	 * value means unassigned; Facs gives -1 when the source has none */
	facs int

	/* visual host staff when the element is drawn cross-staff */
	crossStaff *Staff

	/* absolute-within-measure times, set by the onset/offset pass */
	onset, offset *big.Rat

	/* horizontal alignment handle, set by the alignment pass */
	alignment *Alignment
}

func (base *ElemBase) Base() *ElemBase {
	return base
}

func (base *ElemBase) Layer() *Layer {
	return base.layer
}

func (base *ElemBase) Facs() int {
	return base.facs - 1
}

func (base *ElemBase) SetFacs(facs int) {
	base.facs = facs + 1
}

func (base *ElemBase) CrossStaff() *Staff {
	return base.crossStaff
}

func (base *ElemBase) SetCrossStaff(staff *Staff) {
	base.crossStaff = staff
}

func (base *ElemBase) Onset() *big.Rat {
	return base.onset
}

func (base *ElemBase) Offset() *big.Rat {
	return base.offset
}

func (base *ElemBase) SetOnsetOffset(onset, offset *big.Rat) {
	base.onset, base.offset = onset, offset
}

func (base *ElemBase) TimeSpan() types.Span {
	return types.Span{Start: base.onset, End: base.offset}
}

func (base *ElemBase) Alignment() *Alignment {
	return base.alignment
}

func (base *ElemBase) SetAlignment(alignment *Alignment) {
	base.alignment = alignment
}

/* resetData returns the base to its post-construction state, keeping only
 * the structural fields (owning layer, facsimile position, cross staff). */
func (base *ElemBase) resetData() {
	base.onset, base.offset = nil, nil
	base.alignment = nil
}

type Note struct {
	ElemBase
	Pitch uint8 /* midi pitch */
	Duration *big.Rat
	Tie TieFlag
	Artics []string

	/* second half of a note split by mensural cast-off */
	castSplit bool
}

func (note *Note) Dur() *big.Rat {
	return note.Duration
}

func (note *Note) CastSplit() bool {
	return note.castSplit
}

func (note *Note) SetCastSplit(split bool) {
	note.castSplit = split
}

type Rest struct {
	ElemBase
	Duration *big.Rat

	castSplit bool
}

func (rest *Rest) Dur() *big.Rat {
	return rest.Duration
}

func (rest *Rest) CastSplit() bool {
	return rest.castSplit
}

func (rest *Rest) SetCastSplit(split bool) {
	rest.castSplit = split
}

type BarLineStyle int

const (
	BarSingle BarLineStyle = iota
	BarRepeatStart
	BarRepeatEnd
)

type BarLine struct {
	ElemBase
	Style BarLineStyle

	/* inserted by mensural cast-off, removed by cast-on */
	generated bool
}

func (bar *BarLine) Dur() *big.Rat {
	return new(big.Rat)
}

func (bar *BarLine) Generated() bool {
	return bar.generated
}

func (bar *BarLine) SetGenerated(generated bool) {
	bar.generated = generated
}

/* Artic is a transient markup annotation attached to the nearest preceding
 * note; the markup-normalization pass folds it into Note.Artics. */
type Artic struct {
	ElemBase
	Names []string
}

func (artic *Artic) Dur() *big.Rat {
	return new(big.Rat)
}

/* ClefChange switches the governing clef mid-layer. */
type ClefChange struct {
	ElemBase
	Clef *Clef
}

func (clef *ClefChange) Dur() *big.Rat {
	return new(big.Rat)
}

type KeyChange struct {
	ElemBase
	Sig KeySig
	Cancel bool /* draw naturals cancelling the previous key */
}

func (key *KeyChange) Dur() *big.Rat {
	return new(big.Rat)
}

type MensurChange struct {
	ElemBase
	Mensur *Mensur
}

func (mensur *MensurChange) Dur() *big.Rat {
	return new(big.Rat)
}

type MeterChange struct {
	ElemBase
	Meter *MeterSig
}

func (meter *MeterChange) Dur() *big.Rat {
	return new(big.Rat)
}
