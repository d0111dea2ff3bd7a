// Package railroad lays out expression trees as railroad diagrams.
//
// A layout is two passes over an [ast.Node] tree:
//
//  1. Sizes are computed bottom-up and memoized by node ID. Every node has a
//     content box and an offset box; the offset box adds room above and
//     below for quantifier curves, quantifier text and name labels, and is
//     widened to fit those labels.
//  2. Positions are assigned top-down. Each chain is centered in the box it
//     is placed in; composite nodes place their nested chains inside their
//     own offset box.
//
// The result is a [Diagram]: content boxes in absolute coordinates and the
// connectors that join them. A choice fans out from one point at its
// vertical center into each alternative (split connectors) and merges the
// alternatives back into one point on its right edge (combine connectors).
// Consecutive nodes of a chain are joined by a split from the right edge of
// one node to the left edge of the next.
//
// # Usage
//
//	tree, _ := ast.FromPattern(`(?P<word>\w+)@(com|org)`, "")
//	d := railroad.New().Layout(tree)
//	for _, b := range d.Nodes {
//	    fmt.Println(b.ID, b.X, b.Y, b.Width, b.Height)
//	}
//
// Text is measured through a [measure.Measurer]; the default measures with
// the Go Regular font. Layout constants come from [Config].
//
// # Ordering
//
// [Diagram.Nodes] lists every container before the boxes nested inside it,
// so a painter that draws in order puts contents on top of containers.
//
// # Concurrency
//
// An [Engine] holds only configuration. Every call to [Engine.Layout] gets
// a fresh size cache, so layouts of different trees may run in parallel.
//
// # Fixed Point Sizing
//
// [Engine.Resolve] computes the same sizes with an explicit worklist: a node
// is sized once all members of its nested chains are sized. [WithFixedPoint]
// makes Layout use it.
package railroad
