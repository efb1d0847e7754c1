package score

/* StaffDef is a staff-definition change object encountered while walking a
 * layer's ancestor staff. It owns the definition values; layers cache
 * non-owning references to whichever slots are present. */
type StaffDef struct {
	N int
	Clef *Clef
	KeySig *KeySig
	Mensur *Mensur
	MeterSig *MeterSig
	MeterSigGrp *MeterSigGrp

	/* the key change requires drawing a cancellation of the previous key */
	KeyCancel bool
}

/* staffCtx is one of a layer's two staff-definition caches (current and
 * cautionary). Slots are independently optional; nil means "inherit from
 * an enclosing scope". */
type staffCtx struct {
	clef *Clef
	keySig *KeySig
	mensur *Mensur
	meterSig *MeterSig
	meterSigGrp *MeterSigGrp /* unused in the cautionary cache */
	keyCancel bool
}

/* merge copies forward whichever slots def supplies, leaving the rest
 * untouched. Returns true if anything changed. */
func (ctx *staffCtx) merge(def *StaffDef, caution bool) bool {
	changed := false
	if def.Clef != nil && ctx.clef != def.Clef {
		ctx.clef = def.Clef
		changed = true
	}
	if def.KeySig != nil && ctx.keySig != def.KeySig {
		ctx.keySig = def.KeySig
		ctx.keyCancel = def.KeyCancel
		changed = true
	}
	if def.Mensur != nil && ctx.mensur != def.Mensur {
		ctx.mensur = def.Mensur
		changed = true
	}
	if def.MeterSig != nil && ctx.meterSig != def.MeterSig {
		ctx.meterSig = def.MeterSig
		changed = true
	}
	if !caution && def.MeterSigGrp != nil && ctx.meterSigGrp != def.MeterSigGrp {
		ctx.meterSigGrp = def.MeterSigGrp
		changed = true
	}
	return changed
}

func (ctx *staffCtx) reset() {
	*ctx = staffCtx{}
}

func (ctx *staffCtx) any() bool {
	return ctx.clef != nil || ctx.keySig != nil || ctx.mensur != nil ||
		ctx.meterSig != nil || ctx.meterSigGrp != nil
}
