package railroad

import (
	"math"
	"testing"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/measure"
)

// fixed measures from a table and falls back to 10 pixels per byte at a
// height of 16.
func fixed(table map[string]measure.Size) measure.Measurer {
	return measure.Func(func(text string, _ float64) measure.Size {
		if s, ok := table[text]; ok {
			return s
		}
		return measure.Size{Width: float64(10 * len(text)), Height: 16}
	})
}

func leaf(id, text string) *ast.Leaf {
	return &ast.Leaf{Base: ast.Base{ID: id}, Text: text}
}

func quantified(n ast.Node, q ast.Quantifier) ast.Node {
	n.Info().Quantifier = &q
	return n
}

func TestSizeLeaf(t *testing.T) {
	e := New(WithMeasurer(fixed(nil)))

	tests := []struct {
		name string
		node ast.Node
		want Size
	}{
		{
			name: "Plain",
			node: leaf("a", "a"),
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 22},
		},
		{
			name: "Optional",
			node: quantified(leaf("a", "a"), ast.Quantifier{Min: 0, Max: 1}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 38},
		},
		{
			name: "Repeated",
			node: quantified(leaf("a", "a"), ast.Quantifier{Min: 1, Max: ast.Unbounded}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 38},
		},
		{
			name: "Star",
			node: quantified(leaf("a", "a"), ast.Quantifier{Min: 0, Max: ast.Unbounded}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 38},
		},
		{
			name: "Once",
			node: quantified(leaf("a", "a"), ast.Quantifier{Min: 1, Max: 1}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 22},
		},
		{
			// bottom: curve 8 + label 20; label is 9 bytes -> 90 + 6
			name: "QuantifierText",
			node: quantified(leaf("a", "a"), ast.Quantifier{Min: 2, Max: 4, Text: "2-4 times"}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 96, OffsetHeight: 22 + 2*28},
		},
		{
			name: "Name",
			node: &ast.Leaf{Base: ast.Base{ID: "a", Name: "x"}, Text: "a"},
			want: Size{Width: 20, Height: 22, OffsetWidth: 20, OffsetHeight: 22 + 2*20},
		},
		{
			name: "NameAndOptional",
			node: quantified(&ast.Leaf{Base: ast.Base{ID: "a", Name: "year"}, Text: "a"}, ast.Quantifier{Min: 0, Max: 1}),
			want: Size{Width: 20, Height: 22, OffsetWidth: 46, OffsetHeight: 22 + 2*28},
		},
		{
			name: "EmptyText",
			node: leaf("a", ""),
			want: Size{Width: 10, Height: 22, OffsetWidth: 10, OffsetHeight: 22},
		},
		{
			name: "Root",
			node: &ast.Root{Base: ast.Base{ID: "r"}},
			want: Size{Width: 10, Height: 10, OffsetWidth: 10, OffsetHeight: 10},
		},
		{
			name: "RootWithText",
			node: &ast.Root{Base: ast.Base{ID: "r"}, Text: "go"},
			want: Size{Width: 30, Height: 30, OffsetWidth: 30, OffsetHeight: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Sizes(tt.node)[tt.node.Info().ID]
			if got != tt.want {
				t.Errorf("size = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSymmetricCentering(t *testing.T) {
	cfg := DefaultConfig()
	e := New(WithMeasurer(fixed(nil)), WithConfig(cfg))

	topOnly := quantified(leaf("a", "a"), ast.Quantifier{Min: 0, Max: 1})
	bottomOnly := quantified(leaf("b", "a"), ast.Quantifier{Min: 1, Max: 5})

	top := e.Sizes(topOnly)["a"]
	bottom := e.Sizes(bottomOnly)["b"]
	want := top.Height + 2*cfg.QuantifierHeight
	if top.OffsetHeight != want || bottom.OffsetHeight != want {
		t.Errorf("offset heights = %v (top) %v (bottom), want %v for both", top.OffsetHeight, bottom.OffsetHeight, want)
	}
}

func TestSizeChoice(t *testing.T) {
	// Leaf content is measured size + (10, 6), so these give offset sizes
	// (30, 20) and (40, 25).
	m := fixed(map[string]measure.Size{
		"x": {Width: 20, Height: 14},
		"y": {Width: 30, Height: 19},
	})
	c := &ast.Choice{Base: ast.Base{ID: "c"}, Chains: []ast.Node{leaf("a", "x"), leaf("b", "y")}}

	got := New(WithMeasurer(m)).Sizes(c)["c"]
	if got.Width != 60 || got.Height != 55 {
		t.Errorf("choice size = %vx%v, want 60x55", got.Width, got.Height)
	}
}

func TestSizeChoiceMultiNode(t *testing.T) {
	// "ab" then "c": 30 + 20 margin + 20 = 70 wide, 22 high.
	c := &ast.Choice{Base: ast.Base{ID: "c"}, Chains: []ast.Node{
		ast.Link(leaf("a", "ab"), leaf("b", "c")),
		leaf("d", "d"),
		nil,
	}}
	got := New(WithMeasurer(fixed(nil))).Sizes(c)["c"]
	want := Size{Width: 70 + 20, Height: (22 + 5) + (22 + 5) + (0 + 5)}
	want.OffsetWidth, want.OffsetHeight = want.Width, want.Height
	if got != want {
		t.Errorf("choice size = %+v, want %+v", got, want)
	}
}

func TestSizeGroup(t *testing.T) {
	tall := quantified(leaf("b", "b"), ast.Quantifier{Min: 0, Max: 1}) // offset height 38
	g := &ast.Group{Base: ast.Base{ID: "g"}, Chain: ast.Link(leaf("a", "a"), tall, leaf("c", "c"))}
	la := &ast.Lookaround{Base: ast.Base{ID: "l"}, Chain: ast.Link(leaf("d", "d"), leaf("e", "e"))}
	empty := &ast.Group{Base: ast.Base{ID: "e0"}}

	sizes := New(WithMeasurer(fixed(nil))).Sizes(ast.Link(g, la, empty))

	if got, want := sizes["g"], (Size{Width: 100, Height: 48, OffsetWidth: 100, OffsetHeight: 48}); got != want {
		t.Errorf("group size = %+v, want %+v", got, want)
	}
	if got, want := sizes["l"], (Size{Width: 60, Height: 32, OffsetWidth: 60, OffsetHeight: 32}); got != want {
		t.Errorf("lookaround size = %+v, want %+v", got, want)
	}
	if got, want := sizes["e0"], (Size{Width: 0, Height: 10, OffsetWidth: 0, OffsetHeight: 10}); got != want {
		t.Errorf("empty group size = %+v, want %+v", got, want)
	}
}

func TestZeroMeasurer(t *testing.T) {
	e := New(WithMeasurer(nil))
	sizes := e.Sizes(ast.Link(&ast.Root{Base: ast.Base{ID: "s"}, Text: "start"}, leaf("a", "abc")))
	if got := sizes["s"]; got.Width != 10 || got.Height != 10 {
		t.Errorf("root size = %+v, want 10x10", got)
	}
	if got := sizes["a"]; got.Width != 10 || got.Height != 6 {
		t.Errorf("leaf size = %+v, want 10x6", got)
	}
}

func TestWalk(t *testing.T) {
	if got := Walk(nil); len(got) != 0 {
		t.Errorf("Walk(nil) = %v, want empty", got)
	}
	chain := ast.Link(leaf("a", "a"), leaf("b", "b"), leaf("c", "c"))
	nodes := Walk(chain)
	if len(nodes) != 3 {
		t.Fatalf("Walk() returned %d nodes, want 3", len(nodes))
	}
	for i, id := range []string{"a", "b", "c"} {
		if nodes[i].Info().ID != id {
			t.Errorf("node %d = %s, want %s", i, nodes[i].Info().ID, id)
		}
	}
}

func TestAggregate(t *testing.T) {
	size := func(n ast.Node) Size {
		return map[string]Size{
			"a": {OffsetWidth: 10, OffsetHeight: 5},
			"b": {OffsetWidth: 20, OffsetHeight: 15},
			"c": {OffsetWidth: 30, OffsetHeight: 10},
		}[n.Info().ID]
	}
	tests := []struct {
		name  string
		chain ast.Node
		w, h  float64
	}{
		{"Empty", nil, 0, 0},
		{"Single", leaf("a", ""), 10, 5},
		{"Three", ast.Link(leaf("a", ""), leaf("b", ""), leaf("c", "")), 10 + 20 + 30 + 2*7, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := aggregate(tt.chain, 7, size)
			if w != tt.w || h != tt.h {
				t.Errorf("aggregate() = (%v, %v), want (%v, %v)", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Negative", func(c *Config) { c.NodeMarginH = -1 }},
		{"ZeroFont", func(c *Config) { c.FontSize = 0 }},
		{"ZeroLabelFont", func(c *Config) { c.LabelFontSize = 0 }},
		{"Infinite", func(c *Config) { c.BranchMargin = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
