package ast

import (
	"fmt"
	"regexp/syntax"
	"strconv"

	"github.com/matzehuels/railyard/pkg/errors"
)

// IDs of the terminals FromPattern places around the expression.
const (
	StartID = "start"
	EndID   = "end"
)

// FromPattern parses a regular expression with Go's RE2 syntax and converts
// it into a tree: a start root, the expression chain, and an end root.
//
// flags is a subset of "imsU" (see [errors.ValidateFlags]). Node IDs are
// "n1", "n2", ... in conversion order, so the same pattern always yields the
// same tree.
//
// The RE2 parser factors some alternations on its own: "a|b" becomes the
// character class [a-b] and "abc|abd" becomes ab[c-d]. Lookarounds and
// backreferences are not part of RE2; trees containing them can still be
// loaded from files.
func FromPattern(pattern, flags string) (Node, error) {
	if err := errors.ValidatePattern(pattern); err != nil {
		return nil, err
	}
	if err := errors.ValidateFlags(flags); err != nil {
		return nil, err
	}

	re, err := syntax.Parse(pattern, parseFlags(flags))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "parse %q", pattern)
	}

	var c converter
	nodes := []Node{&Root{Base: Base{ID: StartID}}}
	nodes = append(nodes, c.chain(re)...)
	nodes = append(nodes, &Root{Base: Base{ID: EndID}})
	return Link(nodes...), nil
}

func parseFlags(flags string) syntax.Flags {
	f := syntax.Perl
	for _, r := range flags {
		switch r {
		case 'i':
			f |= syntax.FoldCase
		case 's':
			f |= syntax.DotNL
		case 'm':
			f &^= syntax.OneLine
		case 'U':
			f |= syntax.NonGreedy
		}
	}
	return f
}

type converter struct {
	seq int
}

func (c *converter) id() string {
	c.seq++
	return "n" + strconv.Itoa(c.seq)
}

// chain flattens concatenations into a slice of sibling nodes.
func (c *converter) chain(re *syntax.Regexp) []Node {
	switch re.Op {
	case syntax.OpConcat:
		var out []Node
		for _, sub := range re.Sub {
			out = append(out, c.chain(sub)...)
		}
		return out
	case syntax.OpEmptyMatch:
		return nil
	default:
		return []Node{c.node(re)}
	}
}

func (c *converter) node(re *syntax.Regexp) Node {
	switch re.Op {
	case syntax.OpLiteral:
		return &Leaf{Base: Base{ID: c.id()}, Text: string(re.Rune)}
	case syntax.OpCharClass:
		return &Leaf{Base: Base{ID: c.id()}, Text: re.String()}
	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		return &Leaf{Base: Base{ID: c.id()}, Text: "any character"}
	case syntax.OpBeginLine:
		return assertion(c.id(), "start of line")
	case syntax.OpEndLine:
		return assertion(c.id(), "end of line")
	case syntax.OpBeginText:
		return assertion(c.id(), "start of text")
	case syntax.OpEndText:
		return assertion(c.id(), "end of text")
	case syntax.OpWordBoundary:
		return assertion(c.id(), "word boundary")
	case syntax.OpNoWordBoundary:
		return assertion(c.id(), "non-word boundary")
	case syntax.OpNoMatch:
		return &Leaf{Base: Base{ID: c.id()}, Text: "no match"}
	case syntax.OpCapture:
		g := &Group{Base: Base{ID: c.id(), Name: re.Name}, Capturing: true}
		g.Chain = Link(c.chain(re.Sub[0])...)
		return g
	case syntax.OpAlternate:
		ch := &Choice{Base: Base{ID: c.id()}}
		for _, sub := range re.Sub {
			ch.Chains = append(ch.Chains, Link(c.chain(sub)...))
		}
		return ch
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		return c.quantified(re)
	case syntax.OpConcat, syntax.OpEmptyMatch:
		g := &Group{Base: Base{ID: c.id()}}
		g.Chain = Link(c.chain(re)...)
		return g
	default:
		return &Leaf{Base: Base{ID: c.id()}, Text: re.String()}
	}
}

// quantified converts a repetition. A quantifier attaches to exactly one
// node, so multi-node or already quantified operands are wrapped in a
// non-capturing group.
func (c *converter) quantified(re *syntax.Regexp) Node {
	q := &Quantifier{Greedy: re.Flags&syntax.NonGreedy == 0}
	switch re.Op {
	case syntax.OpStar:
		q.Min, q.Max = 0, Unbounded
	case syntax.OpPlus:
		q.Min, q.Max = 1, Unbounded
	case syntax.OpQuest:
		q.Min, q.Max = 0, 1
	case syntax.OpRepeat:
		q.Min, q.Max = re.Min, re.Max
		if q.Max < 0 {
			q.Max = Unbounded
		}
		q.Text = repeatText(q.Min, q.Max)
	}
	if !q.Greedy {
		if q.Text == "" {
			q.Text = "lazy"
		} else {
			q.Text += ", lazy"
		}
	}

	members := c.chain(re.Sub[0])
	var target Node
	if len(members) == 1 && members[0].Info().Quantifier == nil {
		target = members[0]
	} else {
		target = &Group{Base: Base{ID: c.id()}, Chain: Link(members...)}
	}
	target.Info().Quantifier = q
	return target
}

func repeatText(min, max int) string {
	switch {
	case max == Unbounded:
		return fmt.Sprintf("%d+ times", min)
	case min == max && min == 1:
		return "once"
	case min == max:
		return fmt.Sprintf("%d times", min)
	default:
		return fmt.Sprintf("%d-%d times", min, max)
	}
}

func assertion(id, text string) *Leaf {
	return &Leaf{Base: Base{ID: id}, Text: text, Assertion: true}
}
