package libvitrite

import (
	"github.com/alecthomas/participle/v2"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// GraphExpr is a compact text form of a graph: comma-separated edge runs,
// semicolon-separated parts.  "1-2-3-1,2-4" walks an undirected triangle and
// hangs node 4 off node 2.  ">" and "<" give runs a direction, and an edge
// may carry a lattice offset: "1>2@0:0:1".
type GraphExpr struct {
	Parts []*Part `parser:"(@@ (\";\" @@)*)?"`
}

type Part struct {
	EdgeRuns []*EdgeRun `parser:"(@@ (\",\" @@)*)?"`
}

type EdgeRun struct {
	StartVtx *Vtx       `parser:"@@"`
	Edges    []*EdgeDst `parser:"@@*"`
}

type EdgeDst struct {
	Kind   string      `parser:"@( \"-\" | \">\" | \"<\" )"`
	EndVtx *Vtx        `parser:"@@"`
	Offset *OffsetExpr `parser:"@@?"`
}

type Vtx struct {
	ID int64 `parser:"@Int"`
}

type OffsetExpr struct {
	X *SignedInt `parser:"\"@\" @@"`
	Y *SignedInt `parser:"\":\" @@"`
	Z *SignedInt `parser:"\":\" @@"`
}

type SignedInt struct {
	Neg bool  `parser:"@\"-\"?"`
	Val int64 `parser:"@Int"`
}

func (si *SignedInt) Value() int8 {
	v := int8(si.Val)
	if si.Neg {
		v = -v
	}
	return v
}

func (o *OffsetExpr) Value() govitrite.Offset {
	if o == nil {
		return govitrite.Offset{}
	}
	return govitrite.Offset{o.X.Value(), o.Y.Value(), o.Z.Value()}
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

type exprEdge struct {
	from, to govitrite.NodeID
	directed bool
	reversed bool
	offset   govitrite.Offset
}

func appendExprEdges(edges []exprEdge, expr string) ([]exprEdge, error) {
	Xexpr, err := parseGraphExpr.ParseString("", expr)
	if err != nil {
		return nil, err
	}

	for _, part := range Xexpr.Parts {
		for _, run := range part.EdgeRuns {
			onVtx := run.StartVtx
			for _, dst := range run.Edges {
				from := govitrite.NodeID(onVtx.ID)
				to := govitrite.NodeID(dst.EndVtx.ID)
				if from == 0 || to == 0 {
					return nil, govitrite.ErrBadNodeID
				}
				edges = append(edges, exprEdge{
					from:     from,
					to:       to,
					directed: dst.Kind != "-",
					reversed: dst.Kind == "<",
					offset:   dst.Offset.Value(),
				})
				onVtx = dst.EndVtx
			}
		}
	}

	return edges, nil
}

// ParseGraph builds an undirected Graph from a GraphExpr string.
// Directed run markers are accepted and their direction discarded.
func ParseGraph(expr string) (*Graph, error) {
	edges, err := appendExprEdges(nil, expr)
	if err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, e := range edges {
		err := g.AddEdgeWithOffset(e.from, e.to, e.offset)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParseDiGraph builds a DiGraph from a GraphExpr string.  Every run marker
// must carry a direction (">" or "<"); a plain "-" is rejected since the
// expression would be ambiguous.
func ParseDiGraph(expr string) (*DiGraph, error) {
	edges, err := appendExprEdges(nil, expr)
	if err != nil {
		return nil, err
	}

	dg := NewDiGraph()
	for _, e := range edges {
		if !e.directed {
			return nil, govitrite.ErrInvalidGraph
		}
		from, to, offset := e.from, e.to, e.offset
		if e.reversed {
			from, to = to, from
			offset = offset.Negate()
		}
		err := dg.AddArcWithOffset(from, to, offset)
		if err != nil {
			return nil, err
		}
	}
	return dg, nil
}
