package score

import (
	"math/big"

	"sqweek.net/engrave/midi"
)

/* Clef maps staff positions to pitches. Origin is the midi pitch of the
 * note sitting on the middle staff line. */
type Clef struct {
	Name string
	Sign byte /* 'G', 'F' or 'C' */
	Line int /* staff line carrying the sign, bottom line = 1 */
	Origin uint8
}

var TrebleClef = Clef{"treble", 'G', 2, midi.PitchB5 - 12}
var BassClef = Clef{"bass", 'F', 4, midi.PitchD4}
var AltoClef = Clef{"alto", 'C', 3, midi.PitchC5}

var clefs = []*Clef{&TrebleClef, &BassClef, &AltoClef}

func FindClef(origin uint8) *Clef {
	for _, clef := range clefs {
		if clef.Origin == origin {
			return clef
		}
	}
	return nil
}

func FindClefByName(name string) *Clef {
	for _, clef := range clefs {
		if clef.Name == name {
			return clef
		}
	}
	return nil
}

/* letter pitch classes C D E F G A B */
var letterPc = [7]int{0, 2, 4, 5, 7, 9, 11}

/* order in which sharps/flats accumulate in a key signature */
var sharpOrder = [7]int{3, 0, 4, 1, 5, 2, 6} /* F C G D A E B */
var flatOrder = [7]int{6, 2, 5, 1, 4, 0, 3} /* B E A D G C F */

/* KeySig counts sharps; negative for flats. */
type KeySig int

func (key KeySig) alter() (alt [7]int) {
	if key > 0 {
		for i := 0; i < int(key) && i < 7; i++ {
			alt[sharpOrder[i]] = 1
		}
	} else {
		for i := 0; i < int(-key) && i < 7; i++ {
			alt[flatOrder[i]] = -1
		}
	}
	return alt
}

func mod7(n int) int {
	r := n % 7
	if r < 0 {
		r += 7
	}
	return r
}

func mod12(n int) int {
	r := n % 12
	if r < 0 {
		r += 12
	}
	return r
}

/* diatonic index of the clef's middle-line note; 7 per octave */
func (clef *Clef) originD() int {
	pitch := int(clef.Origin)
	pc := pitch % 12
	for L := 0; L < 7; L++ {
		if letterPc[L] == pc {
			return (pitch / 12) * 7 + L
		}
	}
	panic("clef origin is not a natural pitch")
}

/* LocOffset is the clef's vertical offset in staff-line units relative to
 * the treble clef; subtracting two offsets converts a line/space position
 * under one clef into the equivalent position under another. */
func (clef *Clef) LocOffset() int {
	return clef.originD() - TrebleClef.originD()
}

/* LineForPitch returns the staff position of pitch under this clef and key,
 * counted in diatonic steps from the middle line. The second result is nil
 * when the pitch lies in the key; otherwise it is the accidental required
 * (-2..2, 0 meaning a natural sign). */
func (clef *Clef) LineForPitch(key KeySig, pitch uint8) (int, *int) {
	alt := key.alter()
	pc := int(pitch) % 12
	for L := 0; L < 7; L++ {
		v := letterPc[L] + alt[L]
		if mod12(v) == pc {
			oct := (int(pitch) - v) / 12
			return oct * 7 + L - clef.originD(), nil
		}
	}
	/* not in key: prefer respelling the key's own altered letter */
	for L := 0; L < 7; L++ {
		if letterPc[L] == pc && alt[L] != 0 {
			ax := new(int)
			oct := (int(pitch) - letterPc[L]) / 12
			return oct * 7 + L - clef.originD(), ax
		}
	}
	ax := new(int)
	if key >= 0 {
		*ax = 1
	} else {
		*ax = -1
	}
	for L := 0; L < 7; L++ {
		v := letterPc[L] + *ax
		if mod12(v) == pc {
			oct := (int(pitch) - v) / 12
			return oct * 7 + L - clef.originD(), ax
		}
	}
	/* unreachable: every pitch class is within a semitone of a letter */
	panic("no spelling for pitch")
}

/* PitchForLine inverts LineForPitch for in-key positions. */
func (clef *Clef) PitchForLine(key KeySig, line int) uint8 {
	alt := key.alter()
	D := clef.originD() + line
	L := mod7(D)
	oct := (D - L) / 7
	return uint8(oct * 12 + letterPc[L] + alt[L])
}

/* accidentalLines returns the staff positions (diatonic steps from the
 * middle line) on which the key signature's accidentals are drawn. */
func (clef *Clef) accidentalLines(key KeySig) []int {
	n := int(key)
	order := sharpOrder
	if n < 0 {
		n = -n
		order = flatOrder
	}
	if n > 7 {
		n = 7
	}
	lines := make([]int, 0, n)
	for i := 0; i < n; i++ {
		l := mod7(order[i] - clef.originD())
		if l > 4 {
			l -= 7
		}
		lines = append(lines, l)
	}
	return lines
}

func (staff *Staff) KeyAccidentalLines() (KeySig, []int) {
	clef := staff.CurrentClef()
	if clef == nil {
		clef = &TrebleClef
	}
	var key KeySig
	for _, layer := range staff.layers {
		if sig := layer.GetCurrentKeySig(); sig != nil {
			key = *sig
			break
		}
	}
	return key, clef.accidentalLines(key)
}

/* Mensur carries the mensuration in force for mensural notation. Tempus
 * and Prolatio are each 2 or 3; their product is the length of the
 * barline-equivalent grouping in beats. */
type Mensur struct {
	Sign byte /* 'O' or 'C' */
	Tempus int
	Prolatio int
}

func (mensur *Mensur) BarDur() *big.Rat {
	return big.NewRat(int64(mensur.Tempus * mensur.Prolatio), 1)
}

type MeterSig struct {
	Num, Den int
}

/* Beats is the measure length in quarter-note beats. */
func (meter *MeterSig) Beats() *big.Rat {
	return big.NewRat(int64(meter.Num * 4), int64(meter.Den))
}

/* MeterSigGrp is an ordered set of alternating meter signatures. */
type MeterSigGrp struct {
	Sigs []*MeterSig
}

func (grp *MeterSigGrp) Beats() *big.Rat {
	total := new(big.Rat)
	for _, sig := range grp.Sigs {
		total.Add(total, sig.Beats())
	}
	return total
}
