package railroad

import "github.com/matzehuels/railyard/pkg/ast"

// Walk returns the members of the chain starting at start, in order.
// The chain must not loop.
func Walk(start ast.Node) []ast.Node {
	var nodes []ast.Node
	for cur := start; cur != nil; cur = cur.Info().Next {
		nodes = append(nodes, cur)
	}
	return nodes
}

// aggregate returns the extent of a chain: offset widths summed with margin
// between consecutive members, and the largest offset height.
func aggregate(start ast.Node, margin float64, size func(ast.Node) Size) (w, h float64) {
	for cur := start; cur != nil; cur = cur.Info().Next {
		s := size(cur)
		if cur != start {
			w += margin
		}
		w += s.OffsetWidth
		h = max(h, s.OffsetHeight)
	}
	return w, h
}

func (r *run) aggregate(start ast.Node) (w, h float64) {
	return aggregate(start, r.cfg.NodeMarginH, r.size)
}
