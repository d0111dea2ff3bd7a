package ast

import (
	"github.com/matzehuels/railyard/pkg/errors"
)

// Validate checks the structural invariants the layout engine relies on but
// never verifies itself:
//
//   - every node has a non-empty ID, unique across the tree
//   - no node is reachable from two places (shared subtrees)
//   - no Next or nesting relation loops back (cycles)
//   - quantifier bounds are consistent
//
// Errors carry [errors.ErrCodeDuplicateID], [errors.ErrCodeCycle] or
// [errors.ErrCodeInvalidTree].
func Validate(root Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidTree, "tree is empty")
	}
	v := validator{
		ids:    make(map[string]Node),
		active: make(map[Node]bool),
		done:   make(map[Node]bool),
	}
	return v.chain(root)
}

type validator struct {
	ids    map[string]Node
	active map[Node]bool // on the current chain or an enclosing one
	done   map[Node]bool
}

func (v *validator) chain(head Node) error {
	var members []Node
	defer func() {
		for _, m := range members {
			delete(v.active, m)
		}
	}()

	for cur := head; cur != nil; cur = cur.Info().Next {
		info := cur.Info()
		if v.active[cur] {
			return errors.New(errors.ErrCodeCycle, "node %q is reachable from itself", info.ID)
		}
		if v.done[cur] {
			return errors.New(errors.ErrCodeDuplicateID, "node %q is shared between chains", info.ID)
		}
		if err := v.node(cur); err != nil {
			return err
		}
		v.active[cur] = true
		members = append(members, cur)

		for _, nested := range Chains(cur) {
			if err := v.chain(nested); err != nil {
				return err
			}
		}
		v.done[cur] = true
	}
	return nil
}

func (v *validator) node(n Node) error {
	info := n.Info()
	if info.ID == "" {
		return errors.New(errors.ErrCodeInvalidTree, "%s node has no id", n.Kind())
	}
	if prev, ok := v.ids[info.ID]; ok && prev != n {
		return errors.New(errors.ErrCodeDuplicateID, "id %q is used by more than one node", info.ID)
	}
	v.ids[info.ID] = n

	if q := info.Quantifier; q != nil {
		if q.Min < 0 {
			return errors.New(errors.ErrCodeInvalidTree, "node %q: quantifier min %d is negative", info.ID, q.Min)
		}
		if q.Max != Unbounded && q.Max < q.Min {
			return errors.New(errors.ErrCodeInvalidTree, "node %q: quantifier max %d is below min %d", info.ID, q.Max, q.Min)
		}
	}
	return nil
}

// Inspect calls fn for every node reachable from root in depth-first order,
// visiting a node before the chains nested inside it. depth is 0 for the
// root chain. If fn returns false the nested chains of that node are skipped.
// The tree must be acyclic.
func Inspect(root Node, fn func(n Node, depth int) bool) {
	inspect(root, 0, fn)
}

func inspect(head Node, depth int, fn func(Node, int) bool) {
	for cur := head; cur != nil; cur = cur.Info().Next {
		if !fn(cur, depth) {
			continue
		}
		for _, nested := range Chains(cur) {
			inspect(nested, depth+1, fn)
		}
	}
}

// Count returns the number of nodes reachable from root.
func Count(root Node) int {
	n := 0
	Inspect(root, func(Node, int) bool {
		n++
		return true
	})
	return n
}
