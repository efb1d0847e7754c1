package pass

import (
	"sqweek.net/engrave/score"
)

/* ConvertMarkup folds transient articulation markup into canonical note
 * attributes once a layer's children have all been visited. Reapplying is
 * a no-op: the markup elements are consumed by the first run. */
type ConvertMarkup struct {
	base
}

func (p *ConvertMarkup) Name() string {
	return "convert-markup"
}

func (p *ConvertMarkup) Before(n Node) (Code, error) {
	if _, ok := n.(*score.Layer); ok {
		return Skip, nil /* all the work happens at end of scope */
	}
	return Continue, nil
}

func (p *ConvertMarkup) After(n Node) (Code, error) {
	layer, ok := n.(*score.Layer)
	if !ok {
		return Continue, nil
	}
	els := layer.Elements()
	out := make([]score.Element, 0, len(els))
	var target *score.Note
	changed := false
	for _, el := range els {
		switch el := el.(type) {
		case *score.Note:
			target = el
		case *score.Artic:
			if target != nil {
				for _, name := range el.Names {
					addArtic(target, name)
				}
				changed = true
				continue /* consumed */
			}
			/* markup with no preceding note has nothing to fold into */
		}
		out = append(out, el)
	}
	if changed {
		layer.SetElements(out)
	}
	return Continue, nil
}

func addArtic(note *score.Note, name string) {
	for _, have := range note.Artics {
		if have == name {
			return
		}
	}
	note.Artics = append(note.Artics, name)
}
