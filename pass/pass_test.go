package pass

import (
	"math/big"

	"sqweek.net/engrave/score"
)

func rat(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func note(pitch uint8, dur *big.Rat) *score.Note {
	return &score.Note{Pitch: pitch, Duration: dur}
}

func rest(dur *big.Rat) *score.Rest {
	return &score.Rest{Duration: dur}
}

func bar(style score.BarLineStyle) *score.BarLine {
	return &score.BarLine{Style: style}
}

/* one system, one measure, one staff, one layer holding els */
func mkLayerScore(els ...score.Element) (*score.Score, *score.Layer) {
	sc := score.MkScore(nil)
	staff := sc.AddSystem().AddMeasure().AddStaff(1)
	layer := staff.AddLayer(score.VoiceN{N: 1})
	for _, el := range els {
		layer.Append(el)
	}
	return sc, layer
}

func run(sc *score.Score, passes ...Pass) ([]error, error) {
	var diags []error
	for _, p := range passes {
		d, err := Walk(sc, p)
		diags = append(diags, d...)
		if err != nil {
			return diags, err
		}
	}
	return diags, nil
}
