// Package ast defines the expression trees that railroad diagrams are laid
// out from.
//
// A tree is a chain of nodes linked through [Base.Next]. Composite nodes
// ([Choice], [Group], [Lookaround]) hold the heads of nested chains, so a
// whole regular expression is a chain of chains:
//
//	start -> "a" -> group( "b" -> choice( "c" | "d" ) ) -> end
//
// # Building Trees
//
// Trees come from two places:
//
//   - [FromPattern] parses regular expression source with Go's regexp/syntax
//     package and wraps the result in start and end [Root] terminals.
//   - [ReadFile] and [Decode] load trees stored as JSON or YAML, where each
//     chain is an array. This is the way to diagram constructs RE2 does not
//     parse, such as lookarounds.
//
// # Invariants
//
// The layout engine caches sizes by node ID and walks chains without cycle
// detection. [Validate] checks both invariants (unique IDs, acyclic
// relations) and is called by [Decode]; callers building trees by hand
// should call it themselves.
//
// # Variants
//
// [Node] is a closed set. Code that switches over variants should cover
// all five and panic on anything else; see [Text] and [Chains].
package ast
