package railroad

import (
	"fmt"

	"github.com/matzehuels/railyard/pkg/ast"
)

// envelope is the box a nested chain is centered in, together with the
// shared point its first member splits from and its last member combines
// into. The top-level chain has no envelope.
type envelope struct {
	width     float64
	height    float64
	convergeY float64
	slot      string // owner ID and chain index, names connectors of empty chains
}

// place positions the chain starting at chain with its envelope's top-left
// corner (or the chain's own, without an envelope) at x, y.
func (r *run) place(chain ast.Node, x, y float64, env *envelope) {
	originX := x
	cw, ch := r.aggregate(chain)
	if env != nil {
		x += (env.width - cw) / 2
		y += (env.height - ch) / 2
	}
	centerY := y + ch/2

	if chain == nil {
		if env != nil {
			r.bypass(originX, centerY, env)
		}
		return
	}

	var trail *Point
	if env != nil {
		trail = &Point{X: originX, Y: env.convergeY}
	}

	for cur := chain; cur != nil; cur = cur.Info().Next {
		s := r.size(cur)
		top := y + (ch-s.OffsetHeight)/2
		left := x + (s.OffsetWidth-s.Width)/2
		id := cur.Info().ID

		if trail != nil {
			r.connect(id+"split", Split, *trail, Point{X: left, Y: centerY})
		}
		r.record(cur, x, top, s)
		r.placeNode(cur, x, top)

		trail = &Point{X: left + s.Width, Y: centerY}
		if env != nil && cur.Info().Next == nil {
			r.connect(id+"combine", Combine, *trail, Point{X: originX + env.width, Y: env.convergeY})
		}
		x += s.OffsetWidth + r.cfg.NodeMarginH
	}
}

// bypass joins the convergence points of an empty chain through the middle
// of its slot, so every alternative of a choice has a split and a combine.
func (r *run) bypass(originX, centerY float64, env *envelope) {
	mid := Point{X: originX + env.width/2, Y: centerY}
	r.connect(env.slot+"split", Split, Point{X: originX, Y: env.convergeY}, mid)
	r.connect(env.slot+"combine", Combine, mid, Point{X: originX + env.width, Y: env.convergeY})
}

// placeNode lays out the interior of composite nodes whose offset box has
// its top-left corner at x, y.
func (r *run) placeNode(n ast.Node, x, y float64) {
	switch v := n.(type) {
	case *ast.Root, *ast.Leaf:
	case *ast.Choice:
		r.placeChoice(v, x, y)
	case *ast.Group:
		r.placeGroup(v, v.Chain, x, y)
	case *ast.Lookaround:
		r.placeGroup(v, v.Chain, x, y)
	default:
		panic(unknownVariant(n))
	}
}

// placeChoice stacks the alternatives inside the content box of c. Every
// alternative splits from and combines into the vertical center of c.
func (r *run) placeChoice(c *ast.Choice, x, y float64) {
	s := r.size(c)
	centerY := y + s.OffsetHeight/2
	y += (s.OffsetHeight - s.Height) / 2

	for i, alt := range c.Chains {
		_, ah := r.aggregate(alt)
		slot := ah + r.cfg.BranchMargin
		r.place(alt, x, y, &envelope{
			width:     s.OffsetWidth,
			height:    slot,
			convergeY: centerY,
			slot:      slotID(c, i),
		})
		y += slot
	}
}

// placeGroup centers the nested chain of a group or lookaround in the
// node's offset box.
func (r *run) placeGroup(n ast.Node, chain ast.Node, x, y float64) {
	s := r.size(n)
	r.place(chain, x, y, &envelope{
		width:     s.OffsetWidth,
		height:    s.OffsetHeight,
		convergeY: y + s.OffsetHeight/2,
		slot:      slotID(n, 0),
	})
}

func slotID(owner ast.Node, i int) string {
	return fmt.Sprintf("%s.%d", owner.Info().ID, i)
}

func (r *run) connect(id string, typ ConnectorType, start, end Point) {
	r.connects = append(r.connects, Connector{ID: id, Type: typ, Start: start, End: end})
}

// record appends the content box of n, centered in its offset box.
func (r *run) record(n ast.Node, x, y float64, s Size) {
	info := n.Info()
	b := Box{
		ID:     info.ID,
		X:      x + (s.OffsetWidth-s.Width)/2,
		Y:      y + (s.OffsetHeight-s.Height)/2,
		Width:  s.Width,
		Height: s.Height,
		Text:   ast.Text(n),
		Type:   boxType(n),
		Kind:   n.Kind(),
		Name:   info.Name,
	}
	if q := info.Quantifier; q != nil {
		qc := *q
		b.Quantifier = &qc
	}
	switch v := n.(type) {
	case *ast.Leaf:
		b.Assertion = v.Assertion
	case *ast.Lookaround:
		b.Label = v.Label()
	}
	r.boxes = append(r.boxes, b)
}

func boxType(n ast.Node) BoxType {
	switch n.(type) {
	case *ast.Root:
		return BoxRoot
	case *ast.Leaf:
		return BoxBasic
	case *ast.Choice:
		return BoxChoice
	case *ast.Group, *ast.Lookaround:
		return BoxGroup
	default:
		panic(unknownVariant(n))
	}
}

func unknownVariant(n ast.Node) string {
	return fmt.Sprintf("railroad: unknown node variant %T", n)
}
