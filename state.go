package main

import (
	"fmt"
	"math/big"

	"sqweek.net/engrave/plumb"
	"sqweek.net/engrave/score"
)

/* Saved* types are the on-disk JSON form of a score. Durations stay
 * rational so a save/load cycle is exact. */

type SavedScore struct {
	Version int
	Systems []SavedSystem
}

type SavedSystem struct {
	Measures []SavedMeasure
}

type SavedMeasure struct {
	Staves []SavedStaff
}

type SavedStaff struct {
	N int
	Name string `json:",omitempty"`
	Velocity int `json:",omitempty"`
	Inst int `json:",omitempty"` /* general midi program */
	Clef string `json:",omitempty"`
	Nsharps int `json:",omitempty"`
	Meter *SavedMeter `json:",omitempty"`
	Mensur *SavedMensur `json:",omitempty"`
	Layers []SavedLayer
}

type SavedMeter struct {
	Num, Den int
}

type SavedMensur struct {
	Sign string
	Tempus, Prolatio int
}

type SavedLayer struct {
	N int
	Cross bool `json:",omitempty"`
	Elements []SavedElement
}

type SavedElement struct {
	Type string /* note rest clef key barline artic */
	Pitch uint8 `json:",omitempty"`
	Duration *big.Rat `json:",omitempty"`
	Tie string `json:",omitempty"` /* start stop both */
	Artics []string `json:",omitempty"`
	Clef string `json:",omitempty"`
	Nsharps int `json:",omitempty"`
	Cancel bool `json:",omitempty"`
	Style string `json:",omitempty"` /* rptstart rptend */
	CrossStaff int `json:",omitempty"` /* N of the staff it is drawn on */
}

const currentVersion = 1

/* MkScoreFromSaved rebuilds the layout tree. Staff definitions are pushed
 * into each layer's current cache; cross-staff references are resolved
 * within the owning measure and the host layers flagged. */
func MkScoreFromSaved(saved *SavedScore, port *plumb.Port) (*score.Score, error) {
	sc := score.MkScore(port)
	for _, ssys := range saved.Systems {
		system := sc.AddSystem()
		for _, smeas := range ssys.Measures {
			measure := system.AddMeasure()
			type crossRef struct {
				el score.Element
				owner *score.Staff
				hostN int
			}
			var crossRefs []crossRef
			for _, sstaff := range smeas.Staves {
				staff := measure.AddStaff(sstaff.N)
				staff.SetName(sstaff.Name)
				if sstaff.Velocity != 0 {
					staff.SetVelocity(sstaff.Velocity)
				}
				staff.SetInstrument(sstaff.Inst)
				def, err := staffDef(&sstaff)
				if err != nil {
					return nil, err
				}
				for _, slayer := range sstaff.Layers {
					layer := staff.AddLayer(score.VoiceN{N: slayer.N, Cross: slayer.Cross})
					layer.SetDrawingStaffDefValues(def)
					for _, sel := range slayer.Elements {
						el, err := element(&sel)
						if err != nil {
							return nil, err
						}
						layer.Append(el)
						if sel.CrossStaff != 0 {
							crossRefs = append(crossRefs, crossRef{el, staff, sel.CrossStaff})
						}
					}
				}
			}
			for _, ref := range crossRefs {
				host := measure.Staff(ref.hostN)
				if host == nil {
					return nil, fmt.Errorf("cross-staff reference to missing staff %d", ref.hostN)
				}
				ref.el.Base().SetCrossStaff(host)
				if len(host.Layers()) > 0 {
					if ref.owner.N() < host.N() {
						host.Layers()[0].SetCrossStaffFromAbove(true)
					} else {
						host.Layers()[0].SetCrossStaffFromBelow(true)
					}
				}
			}
		}
	}
	return sc, nil
}

func staffDef(sstaff *SavedStaff) (*score.StaffDef, error) {
	def := &score.StaffDef{N: sstaff.N}
	if sstaff.Clef != "" {
		def.Clef = score.FindClefByName(sstaff.Clef)
		if def.Clef == nil {
			return nil, fmt.Errorf("unknown clef %q", sstaff.Clef)
		}
	}
	if sstaff.Nsharps != 0 {
		sig := score.KeySig(sstaff.Nsharps)
		def.KeySig = &sig
	}
	if sstaff.Meter != nil {
		def.MeterSig = &score.MeterSig{Num: sstaff.Meter.Num, Den: sstaff.Meter.Den}
	}
	if sstaff.Mensur != nil {
		sign := byte('O')
		if sstaff.Mensur.Sign != "" {
			sign = sstaff.Mensur.Sign[0]
		}
		def.Mensur = &score.Mensur{Sign: sign, Tempus: sstaff.Mensur.Tempus, Prolatio: sstaff.Mensur.Prolatio}
	}
	return def, nil
}

func element(sel *SavedElement) (score.Element, error) {
	switch sel.Type {
	case "note":
		if sel.Duration == nil {
			return nil, fmt.Errorf("note without duration")
		}
		note := &score.Note{Pitch: sel.Pitch, Duration: sel.Duration, Artics: sel.Artics}
		switch sel.Tie {
		case "start":
			note.Tie = score.TieStart
		case "stop":
			note.Tie = score.TieStop
		case "both":
			note.Tie = score.TieStart | score.TieStop
		}
		return note, nil
	case "rest":
		if sel.Duration == nil {
			return nil, fmt.Errorf("rest without duration")
		}
		return &score.Rest{Duration: sel.Duration}, nil
	case "clef":
		clef := score.FindClefByName(sel.Clef)
		if clef == nil {
			return nil, fmt.Errorf("unknown clef %q", sel.Clef)
		}
		return &score.ClefChange{Clef: clef}, nil
	case "key":
		return &score.KeyChange{Sig: score.KeySig(sel.Nsharps), Cancel: sel.Cancel}, nil
	case "barline":
		style := score.BarSingle
		switch sel.Style {
		case "rptstart":
			style = score.BarRepeatStart
		case "rptend":
			style = score.BarRepeatEnd
		}
		return &score.BarLine{Style: style}, nil
	case "artic":
		return &score.Artic{Names: sel.Artics}, nil
	}
	return nil, fmt.Errorf("unknown element type %q", sel.Type)
}

/* SavedFromScore is the inverse of MkScoreFromSaved. Staff definitions
 * are read back from the first layer's current cache. */
func SavedFromScore(sc *score.Score) *SavedScore {
	saved := &SavedScore{Version: currentVersion}
	for _, system := range sc.Systems() {
		ssys := SavedSystem{}
		for _, measure := range system.Measures() {
			smeas := SavedMeasure{}
			for _, staff := range measure.Staves() {
				sstaff := SavedStaff{N: staff.N(), Name: staff.Name(), Velocity: staff.Velocity(), Inst: staff.Instrument()}
				if len(staff.Layers()) > 0 {
					first := staff.Layers()[0]
					if clef := first.GetCurrentClef(); clef != nil {
						sstaff.Clef = clef.Name
					}
					if sig := first.GetCurrentKeySig(); sig != nil {
						sstaff.Nsharps = int(*sig)
					}
					if meter := first.GetCurrentMeterSig(); meter != nil {
						sstaff.Meter = &SavedMeter{meter.Num, meter.Den}
					}
					if mensur := first.GetCurrentMensur(); mensur != nil {
						sstaff.Mensur = &SavedMensur{string(mensur.Sign), mensur.Tempus, mensur.Prolatio}
					}
				}
				for _, layer := range staff.Layers() {
					slayer := SavedLayer{N: layer.Voice().N, Cross: layer.Voice().Cross}
					for _, el := range layer.Elements() {
						slayer.Elements = append(slayer.Elements, savedElement(el))
					}
					sstaff.Layers = append(sstaff.Layers, slayer)
				}
				smeas.Staves = append(smeas.Staves, sstaff)
			}
			ssys.Measures = append(ssys.Measures, smeas)
		}
		saved.Systems = append(saved.Systems, ssys)
	}
	return saved
}

func savedElement(el score.Element) SavedElement {
	var sel SavedElement
	if cross := el.Base().CrossStaff(); cross != nil {
		sel.CrossStaff = cross.N()
	}
	switch el := el.(type) {
	case *score.Note:
		sel.Type = "note"
		sel.Pitch = el.Pitch
		sel.Duration = el.Duration
		sel.Artics = el.Artics
		switch el.Tie {
		case score.TieStart:
			sel.Tie = "start"
		case score.TieStop:
			sel.Tie = "stop"
		case score.TieStart | score.TieStop:
			sel.Tie = "both"
		}
	case *score.Rest:
		sel.Type = "rest"
		sel.Duration = el.Duration
	case *score.ClefChange:
		sel.Type = "clef"
		sel.Clef = el.Clef.Name
	case *score.KeyChange:
		sel.Type = "key"
		sel.Nsharps = int(el.Sig)
		sel.Cancel = el.Cancel
	case *score.BarLine:
		sel.Type = "barline"
		switch el.Style {
		case score.BarRepeatStart:
			sel.Style = "rptstart"
		case score.BarRepeatEnd:
			sel.Style = "rptend"
		}
	case *score.Artic:
		sel.Type = "artic"
		sel.Artics = el.Names
	}
	return sel
}
