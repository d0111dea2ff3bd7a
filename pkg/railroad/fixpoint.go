package railroad

import (
	"fmt"

	"github.com/matzehuels/railyard/pkg/ast"
)

// Resolve computes the size of every node reachable from root without
// recursion. Each node waits for the members of its nested chains; nodes
// with nothing to wait for seed a worklist, and a node is enqueued once
// its last pending member resolves. Each size is computed exactly once,
// with the same formulas as Layout.
func (e *Engine) Resolve(root ast.Node) map[string]Size {
	pending := make(map[ast.Node]int)
	parent := make(map[ast.Node]ast.Node)
	var queue []ast.Node

	ast.Inspect(root, func(n ast.Node, _ int) bool {
		members := 0
		for _, chain := range ast.Chains(n) {
			for m := chain; m != nil; m = m.Info().Next {
				parent[m] = n
				members++
			}
		}
		pending[n] = members
		if members == 0 {
			queue = append(queue, n)
		}
		return true
	})

	s := e.sizer()
	sizes := make(map[string]Size, len(pending))
	lookup := func(n ast.Node) Size {
		size, ok := sizes[n.Info().ID]
		if !ok {
			panic(fmt.Sprintf("railroad: size of %q used before it resolved", n.Info().ID))
		}
		return size
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		w, h := s.content(n, lookup)
		sizes[n.Info().ID] = s.decorate(n, w, h)

		if p, ok := parent[n]; ok {
			pending[p]--
			if pending[p] == 0 {
				queue = append(queue, p)
			}
		}
	}
	return sizes
}
