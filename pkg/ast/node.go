package ast

import "fmt"

// Kind identifies the variant of a [Node].
type Kind string

// Node kinds.
const (
	KindRoot       Kind = "root"
	KindLeaf       Kind = "leaf"
	KindChoice     Kind = "choice"
	KindGroup      Kind = "group"
	KindLookaround Kind = "lookaround"
)

// Unbounded is the Quantifier.Max value for repetitions without an upper bound.
const Unbounded = -1

// Node is an element of an expression tree. The set of implementations is
// closed: *Root, *Leaf, *Choice, *Group and *Lookaround.
type Node interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Info returns the fields shared by every variant.
	Info() *Base

	sealed()
}

// Base holds the fields every node carries. Next links a node to its
// sequential successor and is nil at the end of a chain.
type Base struct {
	ID         string
	Quantifier *Quantifier
	Name       string
	Next       Node
}

// Info returns b itself so embedding types satisfy [Node].
func (b *Base) Info() *Base { return b }

func (*Base) sealed() {}

// Quantifier describes repeat bounds. Max is [Unbounded] for "no limit".
// Text is an optional literal label such as "2-4 times".
type Quantifier struct {
	Min    int    `json:"min" yaml:"min"`
	Max    int    `json:"max" yaml:"max"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Greedy bool   `json:"greedy" yaml:"greedy"`
}

// Optional reports whether the quantified node may be skipped entirely.
func (q Quantifier) Optional() bool { return q.Min == 0 }

// Repeats reports whether the quantified node may occur more than once.
func (q Quantifier) Repeats() bool { return q.Max == Unbounded || q.Max > 1 }

// Root is a start or end terminal of a diagram.
type Root struct {
	Base
	Text string
}

// Leaf is a literal, character class, escape or boundary assertion.
type Leaf struct {
	Base
	Text      string
	Assertion bool
}

// Choice is an alternation. Each element of Chains is the head of one
// alternative; a nil head is an empty alternative.
type Choice struct {
	Base
	Chains []Node
}

// Group wraps one nested chain.
type Group struct {
	Base
	Chain     Node
	Capturing bool
}

// Lookaround is a zero-width assertion over a nested chain.
type Lookaround struct {
	Base
	Chain  Node
	Ahead  bool
	Negate bool
}

func (*Root) Kind() Kind       { return KindRoot }
func (*Leaf) Kind() Kind       { return KindLeaf }
func (*Choice) Kind() Kind     { return KindChoice }
func (*Group) Kind() Kind      { return KindGroup }
func (*Lookaround) Kind() Kind { return KindLookaround }

// Label returns a short human readable description of the lookaround.
func (l *Lookaround) Label() string {
	switch {
	case l.Ahead && !l.Negate:
		return "lookahead"
	case l.Ahead && l.Negate:
		return "negative lookahead"
	case !l.Ahead && !l.Negate:
		return "lookbehind"
	default:
		return "negative lookbehind"
	}
}

// Text returns the label text of n: the literal for roots and leaves and an
// empty string for composite nodes.
func Text(n Node) string {
	switch v := n.(type) {
	case *Root:
		return v.Text
	case *Leaf:
		return v.Text
	case *Choice, *Group, *Lookaround:
		return ""
	default:
		panic(unknownVariant(n))
	}
}

// Chains returns the heads of the chains nested directly inside n.
// Leaves and roots have none.
func Chains(n Node) []Node {
	switch v := n.(type) {
	case *Root, *Leaf:
		return nil
	case *Choice:
		return v.Chains
	case *Group:
		return []Node{v.Chain}
	case *Lookaround:
		return []Node{v.Chain}
	default:
		panic(unknownVariant(n))
	}
}

// Composite reports whether n contains nested chains.
func Composite(n Node) bool {
	switch n.(type) {
	case *Choice, *Group, *Lookaround:
		return true
	default:
		return false
	}
}

func unknownVariant(n Node) string {
	return fmt.Sprintf("ast: unknown node variant %T", n)
}
