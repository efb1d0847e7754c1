package pass

import (
	"fmt"

	"sqweek.net/engrave/score"
)

/* Code is the continuation returned by every pass hook. Skip abandons the
 * current subtree but lets the walk continue with siblings; Terminate is
 * reserved for unrecoverable failures and stops the whole walk. */
type Code int

const (
	Continue Code = iota
	Skip
	Terminate
)

/* Node is one of *score.Score, *score.System, *score.Measure,
 * *score.Staff, *score.Layer or score.Element. */
type Node interface{}

/* Pass visits every node of the tree once, in document order. Before runs
 * pre-order, After post-order; After still runs for a node whose children
 * were skipped. An error with code Skip is a subtree diagnostic; an error
 * with Terminate aborts the walk. */
type Pass interface {
	Name() string
	Before(n Node) (Code, error)
	After(n Node) (Code, error)
}

/* base provides no-op hooks so passes only spell out the ones they need. */
type base struct{}

func (base) Before(n Node) (Code, error) {
	return Continue, nil
}

func (base) After(n Node) (Code, error) {
	return Continue, nil
}

/* Walk drives one pass over the whole tree. Subtree diagnostics are
 * collected and returned; a Terminate stops the walk and is returned as
 * the error. */
func Walk(sc *score.Score, p Pass) ([]error, error) {
	w := walker{p: p}
	w.node(sc)
	return w.diags, w.err
}

type walker struct {
	p Pass
	diags []error
	err error
}

func (w *walker) hook(f func(Node) (Code, error), n Node) Code {
	code, err := f(n)
	if err != nil {
		if code == Terminate {
			w.err = err
		} else {
			w.diags = append(w.diags, err)
		}
	}
	return code
}

func (w *walker) node(n Node) Code {
	code := w.hook(w.p.Before, n)
	if code == Terminate {
		return Terminate
	}
	if code == Continue {
		for _, child := range children(n) {
			if w.node(child) == Terminate {
				return Terminate
			}
		}
	}
	if w.hook(w.p.After, n) == Terminate {
		return Terminate
	}
	return Continue
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *score.Score:
		kids := make([]Node, 0, len(n.Systems()))
		for _, system := range n.Systems() {
			kids = append(kids, system)
		}
		return kids
	case *score.System:
		kids := make([]Node, 0, len(n.Measures()))
		for _, measure := range n.Measures() {
			kids = append(kids, measure)
		}
		return kids
	case *score.Measure:
		kids := make([]Node, 0, len(n.Staves()))
		for _, staff := range n.Staves() {
			kids = append(kids, staff)
		}
		return kids
	case *score.Staff:
		kids := make([]Node, 0, len(n.Layers()))
		for _, layer := range n.Layers() {
			kids = append(kids, layer)
		}
		return kids
	case *score.Layer:
		kids := make([]Node, 0, len(n.Elements()))
		for _, el := range n.Elements() {
			kids = append(kids, el)
		}
		return kids
	case score.Element:
		return nil
	}
	panic(fmt.Sprintf("walk: unexpected node type %T", n))
}
