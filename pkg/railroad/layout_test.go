package railroad

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/measure"
)

// complexTree exercises every variant and decoration.
func complexTree() ast.Node {
	return ast.Link(
		&ast.Root{Base: ast.Base{ID: "start"}},
		leaf("n1", "a"),
		&ast.Group{
			Base:      ast.Base{ID: "n2", Name: "word", Quantifier: &ast.Quantifier{Min: 1, Max: ast.Unbounded, Greedy: true}},
			Capturing: true,
			Chain: ast.Link(
				&ast.Choice{Base: ast.Base{ID: "n3"}, Chains: []ast.Node{
					ast.Link(leaf("n4", "cat"), quantified(leaf("n5", "s"), ast.Quantifier{Min: 0, Max: 1})),
					leaf("n6", "dog"),
					nil,
				}},
				leaf("n7", "!"),
			),
		},
		&ast.Lookaround{Base: ast.Base{ID: "n8"}, Ahead: true, Chain: leaf("n9", "[0-9]")},
		quantified(&ast.Group{Base: ast.Base{ID: "n10"}}, ast.Quantifier{Min: 2, Max: 3, Text: "2-3 times"}),
		&ast.Root{Base: ast.Base{ID: "end"}},
	)
}

func engines() map[string]*Engine {
	m := fixed(nil)
	return map[string]*Engine{
		"memo":       New(WithMeasurer(m)),
		"fixedpoint": New(WithMeasurer(m), WithFixedPoint()),
	}
}

func TestLayoutDeterministic(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			a := e.Layout(complexTree())
			b := e.Layout(complexTree())
			if !reflect.DeepEqual(a, b) {
				t.Error("two layouts of the same tree differ")
			}
		})
	}
}

func TestLayoutFixedPointMatchesMemo(t *testing.T) {
	es := engines()
	memo := es["memo"].Layout(complexTree())
	fp := es["fixedpoint"].Layout(complexTree())
	if !reflect.DeepEqual(memo, fp) {
		t.Error("fixed point layout differs from memoized layout")
	}
}

// uncached computes a size without any cache, recursing into nested chains.
func uncached(s sizer, n ast.Node) Size {
	var lookup func(ast.Node) Size
	lookup = func(n ast.Node) Size {
		w, h := s.content(n, lookup)
		return s.decorate(n, w, h)
	}
	return lookup(n)
}

func TestCacheTransparency(t *testing.T) {
	e := New(WithMeasurer(fixed(nil)))
	tree := complexTree()

	memo := e.Sizes(tree)
	resolved := e.Resolve(tree)
	if !reflect.DeepEqual(memo, resolved) {
		t.Errorf("Resolve() = %v\nwant %v", resolved, memo)
	}

	count := 0
	ast.Inspect(tree, func(n ast.Node, _ int) bool {
		count++
		id := n.Info().ID
		if got := uncached(e.sizer(), n); got != memo[id] {
			t.Errorf("node %s: uncached size %+v, memoized %+v", id, got, memo[id])
		}
		return true
	})
	if len(memo) != count {
		t.Errorf("cached %d sizes, tree has %d nodes", len(memo), count)
	}
}

func TestLayoutDoesNotMutate(t *testing.T) {
	tree := complexTree()
	before, err := ast.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	d := New(WithMeasurer(fixed(nil))).Layout(tree)
	after, _ := ast.Marshal(tree)
	if string(before) != string(after) {
		t.Error("Layout modified the tree")
	}

	// Quantifiers in the output are copies.
	for _, b := range d.Nodes {
		if b.Quantifier != nil {
			b.Quantifier.Min = 99
		}
	}
	again, _ := ast.Marshal(tree)
	if string(before) != string(again) {
		t.Error("diagram quantifiers alias the tree")
	}
}

func TestLayoutEveryNodeOnce(t *testing.T) {
	tree := complexTree()
	d := New(WithMeasurer(fixed(nil))).Layout(tree)

	seen := make(map[string]int)
	for _, b := range d.Nodes {
		seen[b.ID]++
	}
	ast.Inspect(tree, func(n ast.Node, _ int) bool {
		if seen[n.Info().ID] != 1 {
			t.Errorf("node %s appears %d times", n.Info().ID, seen[n.Info().ID])
		}
		return true
	})
	if len(d.Nodes) != ast.Count(tree) {
		t.Errorf("got %d boxes, want %d", len(d.Nodes), ast.Count(tree))
	}
}

func TestContainmentOrdering(t *testing.T) {
	tree := complexTree()
	d := New(WithMeasurer(fixed(nil))).Layout(tree)

	index := make(map[string]int)
	for i, b := range d.Nodes {
		index[b.ID] = i
	}

	ast.Inspect(tree, func(n ast.Node, _ int) bool {
		if !ast.Composite(n) {
			return true
		}
		parent := index[n.Info().ID]
		for _, chain := range ast.Chains(n) {
			ast.Inspect(chain, func(desc ast.Node, _ int) bool {
				if index[desc.Info().ID] <= parent {
					t.Errorf("descendant %s (index %d) precedes container %s (index %d)",
						desc.Info().ID, index[desc.Info().ID], n.Info().ID, parent)
				}
				return true
			})
		}
		return true
	})
}

func TestContentBoxesNested(t *testing.T) {
	tree := complexTree()
	d := New(WithMeasurer(fixed(nil))).Layout(tree)

	for _, b := range d.Nodes {
		if b.X < 0 || b.Y < 0 || b.X+b.Width > d.Width || b.Y+b.Height > d.Height {
			t.Errorf("box %s %+v outside %vx%v diagram", b.ID, b, d.Width, d.Height)
		}
	}

	g, _ := d.Box("n2")
	ast.Inspect(tree.Info().Next.Info().Next.(*ast.Group).Chain, func(n ast.Node, _ int) bool {
		b, _ := d.Box(n.Info().ID)
		if b.X < g.X || b.X+b.Width > g.X+g.Width || b.Y < g.Y || b.Y+b.Height > g.Y+g.Height {
			t.Errorf("box %s %+v escapes group %+v", b.ID, b, g)
		}
		return true
	})
}

func TestConnectorEndpoints(t *testing.T) {
	d := New(WithMeasurer(fixed(nil))).Layout(complexTree())

	checked := 0
	for _, c := range d.Connects {
		switch c.Type {
		case Split:
			b, ok := d.Box(strings.TrimSuffix(c.ID, "split"))
			if !ok {
				continue // empty chain
			}
			checked++
			if c.End.Y != b.Center().Y {
				t.Errorf("split %s ends at y=%v, target center is %v", c.ID, c.End.Y, b.Center().Y)
			}
			if c.End.X != b.X {
				t.Errorf("split %s ends at x=%v, target left edge is %v", c.ID, c.End.X, b.X)
			}
		case Combine:
			b, ok := d.Box(strings.TrimSuffix(c.ID, "combine"))
			if !ok {
				continue
			}
			checked++
			if c.Start.Y != b.Center().Y {
				t.Errorf("combine %s starts at y=%v, source center is %v", c.ID, c.Start.Y, b.Center().Y)
			}
			if c.Start.X != b.X+b.Width {
				t.Errorf("combine %s starts at x=%v, source right edge is %v", c.ID, c.Start.X, b.X+b.Width)
			}
		default:
			t.Errorf("unexpected connector type %q", c.Type)
		}
	}
	if checked == 0 {
		t.Fatal("no connectors checked")
	}
}

func TestConnectorIDsUnique(t *testing.T) {
	d := New(WithMeasurer(fixed(nil))).Layout(complexTree())
	seen := make(map[string]bool)
	for _, c := range d.Connects {
		if seen[c.ID] {
			t.Errorf("duplicate connector id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestChoiceFan(t *testing.T) {
	tree := complexTree()
	d := New(WithMeasurer(fixed(nil))).Layout(tree)

	byID := make(map[string]Connector)
	for _, c := range d.Connects {
		byID[c.ID] = c
	}

	ast.Inspect(tree, func(n ast.Node, _ int) bool {
		c, ok := n.(*ast.Choice)
		if !ok {
			return true
		}
		var splits, combines []Connector
		for i, alt := range c.Chains {
			splitID, combineID := slotID(c, i)+"split", slotID(c, i)+"combine"
			if alt != nil {
				nodes := Walk(alt)
				splitID = nodes[0].Info().ID + "split"
				combineID = nodes[len(nodes)-1].Info().ID + "combine"
			}
			s, ok1 := byID[splitID]
			cb, ok2 := byID[combineID]
			if !ok1 || !ok2 {
				t.Fatalf("alternative %d of %s: split %v combine %v", i, c.ID, ok1, ok2)
			}
			splits = append(splits, s)
			combines = append(combines, cb)
		}

		if len(splits) != len(c.Chains) || len(combines) != len(c.Chains) {
			t.Fatalf("choice %s: %d splits, %d combines, want %d", c.ID, len(splits), len(combines), len(c.Chains))
		}
		box, _ := d.Box(c.ID)
		for i := range splits {
			if splits[i].Start != splits[0].Start {
				t.Errorf("split %d starts at %+v, want %+v", i, splits[i].Start, splits[0].Start)
			}
			if combines[i].End != combines[0].End {
				t.Errorf("combine %d ends at %+v, want %+v", i, combines[i].End, combines[0].End)
			}
		}
		if splits[0].Start.Y != box.Center().Y || combines[0].End.Y != box.Center().Y {
			t.Errorf("choice %s converges at y=%v/%v, center is %v", c.ID, splits[0].Start.Y, combines[0].End.Y, box.Center().Y)
		}
		return true
	})
}

func TestLayoutChoiceScenario(t *testing.T) {
	m := fixed(map[string]measure.Size{
		"x": {Width: 20, Height: 14},
		"y": {Width: 30, Height: 19},
	})
	c := &ast.Choice{Base: ast.Base{ID: "c"}, Chains: []ast.Node{leaf("a", "x"), leaf("b", "y")}}
	d := New(WithMeasurer(m)).Layout(c)

	if d.Width != 100 || d.Height != 95 {
		t.Errorf("diagram = %vx%v, want 100x95", d.Width, d.Height)
	}

	wantBoxes := []Box{
		{ID: "c", X: 20, Y: 20, Width: 60, Height: 55, Type: BoxChoice, Kind: ast.KindChoice},
		{ID: "a", X: 35, Y: 22.5, Width: 30, Height: 20, Text: "x", Type: BoxBasic, Kind: ast.KindLeaf},
		{ID: "b", X: 30, Y: 47.5, Width: 40, Height: 25, Text: "y", Type: BoxBasic, Kind: ast.KindLeaf},
	}
	if !reflect.DeepEqual(d.Nodes, wantBoxes) {
		t.Errorf("boxes =\n%+v\nwant\n%+v", d.Nodes, wantBoxes)
	}

	wantConnects := []Connector{
		{ID: "asplit", Type: Split, Start: Point{20, 47.5}, End: Point{35, 32.5}},
		{ID: "acombine", Type: Combine, Start: Point{65, 32.5}, End: Point{80, 47.5}},
		{ID: "bsplit", Type: Split, Start: Point{20, 47.5}, End: Point{30, 60}},
		{ID: "bcombine", Type: Combine, Start: Point{70, 60}, End: Point{80, 47.5}},
	}
	if !reflect.DeepEqual(d.Connects, wantConnects) {
		t.Errorf("connects =\n%+v\nwant\n%+v", d.Connects, wantConnects)
	}
}

func TestLayoutEmptyAlternative(t *testing.T) {
	c := &ast.Choice{Base: ast.Base{ID: "c"}, Chains: []ast.Node{leaf("a", "a"), nil}}
	d := New(WithMeasurer(fixed(nil))).Layout(c)

	// choice content: width 20+20 = 40, height (22+5)+(0+5) = 32, at (20, 20).
	// center y = 36; empty slot spans y 47..52 so its middle is 49.5.
	var split, combine Connector
	for _, cn := range d.Connects {
		switch cn.ID {
		case "c.1split":
			split = cn
		case "c.1combine":
			combine = cn
		}
	}
	if want := (Connector{ID: "c.1split", Type: Split, Start: Point{20, 36}, End: Point{40, 49.5}}); split != want {
		t.Errorf("split = %+v, want %+v", split, want)
	}
	if want := (Connector{ID: "c.1combine", Type: Combine, Start: Point{40, 49.5}, End: Point{60, 36}}); combine != want {
		t.Errorf("combine = %+v, want %+v", combine, want)
	}
}

func TestLayoutGroupConvergence(t *testing.T) {
	// A wide name label makes the group's offset box wider than its content;
	// the interior still splits from the offset box's left edge at its center.
	g := &ast.Group{Base: ast.Base{ID: "g", Name: "identifier"}, Chain: leaf("a", "a")}
	d := New(WithMeasurer(fixed(nil))).Layout(g)

	// name label: 10 bytes at 10px + 6 = 106 wide; content 20x32.
	// offset box 106x72 at (20,20); center y = 56.
	box, _ := d.Box("g")
	if box.Width != 20 || box.Height != 32 || box.X != 63 || box.Y != 40 {
		t.Errorf("group box = %+v", box)
	}
	inner, _ := d.Box("a")
	if inner.Center().Y != 56 {
		t.Errorf("inner center y = %v, want 56", inner.Center().Y)
	}
	if len(d.Connects) != 2 {
		t.Fatalf("got %d connectors, want 2", len(d.Connects))
	}
	if d.Connects[0].Start != (Point{20, 56}) || d.Connects[1].End != (Point{126, 56}) {
		t.Errorf("connectors = %+v", d.Connects)
	}
}

func TestLayoutNilTree(t *testing.T) {
	d := New().Layout(nil)
	if d.Width != 40 || d.Height != 40 {
		t.Errorf("empty diagram = %vx%v, want 40x40", d.Width, d.Height)
	}
	if len(d.Nodes) != 0 || len(d.Connects) != 0 {
		t.Errorf("empty diagram has %d nodes and %d connectors", len(d.Nodes), len(d.Connects))
	}
}

func TestLayoutConcurrent(t *testing.T) {
	e := New()
	trees := []string{`a|b`, `(?P<x>\d+)-\w*`, `^(foo|bar)+baz$`, `x{2,5}?y`}
	want := make([]Diagram, len(trees))
	for i, p := range trees {
		tree, err := ast.FromPattern(p, "")
		if err != nil {
			t.Fatal(err)
		}
		want[i] = e.Layout(tree)
	}

	var wg sync.WaitGroup
	for i, p := range trees {
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tree, _ := ast.FromPattern(p, "")
				if got := e.Layout(tree); !reflect.DeepEqual(got, want[i]) {
					t.Errorf("concurrent layout of %q differs", p)
				}
			}()
		}
	}
	wg.Wait()
}

func TestLayoutUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChartPaddingH = 0
	cfg.ChartPaddingV = 0
	d := New(WithConfig(cfg), WithMeasurer(fixed(nil))).Layout(leaf("a", "a"))
	if d.Width != 20 || d.Height != 22 {
		t.Errorf("diagram = %vx%v, want 20x22", d.Width, d.Height)
	}
	if b := d.Nodes[0]; b.X != 0 || b.Y != 0 {
		t.Errorf("box at (%v, %v), want origin", b.X, b.Y)
	}
}

func TestLayoutDecoratedChoiceAlternativesInsideContent(t *testing.T) {
	choice := &ast.Choice{
		Base: ast.Base{
			ID:         "c",
			Name:       "animal",
			Quantifier: &ast.Quantifier{Min: 0, Max: ast.Unbounded, Text: "any number", Greedy: true},
		},
		Chains: []ast.Node{
			leaf("c1", "cat"),
			ast.Link(leaf("c2", "dog"), quantified(leaf("c3", "s"), ast.Quantifier{Min: 0, Max: 1})),
			&ast.Group{Base: ast.Base{ID: "c4", Name: "inner"}, Chain: leaf("c5", "bird")},
		},
	}
	tree := ast.Link(
		&ast.Root{Base: ast.Base{ID: "start"}},
		choice,
		&ast.Root{Base: ast.Base{ID: "end"}},
	)

	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			d := e.Layout(tree)
			c, ok := d.Box("c")
			if !ok {
				t.Fatal("choice box missing")
			}
			s := e.Sizes(tree)["c"]
			if s.OffsetHeight <= s.Height {
				t.Fatalf("choice has no decoration space: %+v", s)
			}

			for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
				b, ok := d.Box(id)
				if !ok {
					t.Fatalf("box %s missing", id)
				}
				if b.X < c.X || b.X+b.Width > c.X+c.Width || b.Y < c.Y || b.Y+b.Height > c.Y+c.Height {
					t.Errorf("box %s %+v escapes choice content box %+v", id, b, c)
				}
			}

			for _, conn := range d.Connects {
				if !strings.HasPrefix(conn.ID, "c1") && !strings.HasPrefix(conn.ID, "c2") && !strings.HasPrefix(conn.ID, "c4") {
					continue
				}
				for _, p := range []Point{conn.Start, conn.End} {
					if p.Y < c.Y || p.Y > c.Y+c.Height {
						t.Errorf("connector %s point %+v outside choice content box %+v", conn.ID, p, c)
					}
				}
			}
		})
	}
}
