package types

import (
	"math/big"
)

/* Times are rational beat counts measured from the start of a measure.
 * A quarter note in 4/4 occupies one beat. */

/* Span is a half-open time interval [Start, End).
 * If Start >= End the span is considered empty. */
type Span struct {
	Start, End *big.Rat
}

func MkSpan(t, dur *big.Rat) Span {
	end := new(big.Rat).Add(t, dur)
	return Span{t, end}
}

func (s Span) Empty() bool {
	return s.Start == nil || s.End == nil || s.Start.Cmp(s.End) >= 0
}

func (s Span) Dur() *big.Rat {
	return new(big.Rat).Sub(s.End, s.Start)
}

/* half-open intersection; empty spans never overlap anything */
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start.Cmp(o.End) < 0 && s.End.Cmp(o.Start) > 0
}

func (s Span) Contains(t *big.Rat) bool {
	if s.Empty() || t == nil {
		return false
	}
	return s.Start.Cmp(t) <= 0 && t.Cmp(s.End) < 0
}
