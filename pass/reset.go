package pass

import (
	"sqweek.net/engrave/score"
)

/* ScoreDefUnset clears "definition pending redisplay" flags so the next
 * layout only redraws definitions that actually changed. The accumulated
 * current/cautionary values themselves are left alone. */
type ScoreDefUnset struct {
	base
}

func (p *ScoreDefUnset) Name() string {
	return "scoredef-unset"
}

func (p *ScoreDefUnset) Before(n Node) (Code, error) {
	if layer, ok := n.(*score.Layer); ok {
		layer.ClearPendingRedisplay()
		return Skip, nil
	}
	return Continue, nil
}

/* ResetData clears all drawing state and derived timing, returning every
 * layer to its post-construction state. Runs between independent layout
 * runs on the same tree; clears strictly more than ResetStaffDefObjects. */
type ResetData struct {
	base
}

func (p *ResetData) Name() string {
	return "reset-data"
}

func (p *ResetData) Before(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Score:
		n.ClearProcessingLists()
	case *score.Measure:
		n.SetOnset(nil)
		n.SetDur(nil)
		n.SetAligner(nil)
	case *score.Layer:
		n.ResetData()
		return Skip, nil
	}
	return Continue, nil
}

/* InitProcessingLists registers every layer into the per-document lists
 * later passes use instead of re-walking the whole tree. Registration is
 * append-only and duplicate-free within a run. */
type InitProcessingLists struct {
	base
	score *score.Score
}

func (p *InitProcessingLists) Name() string {
	return "init-processing-lists"
}

func (p *InitProcessingLists) Before(n Node) (Code, error) {
	switch n := n.(type) {
	case *score.Score:
		p.score = n
	case *score.Layer:
		p.score.RegisterLayer(n)
		return Skip, nil
	}
	return Continue, nil
}
