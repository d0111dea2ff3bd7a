package railroad_test

import (
	"fmt"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/railroad"
)

func ExampleEngine_Layout() {
	tree := ast.Link(
		&ast.Root{Base: ast.Base{ID: "start"}},
		&ast.Leaf{Base: ast.Base{ID: "n1"}, Text: "ab"},
		&ast.Root{Base: ast.Base{ID: "end"}},
	)

	e := railroad.New(railroad.WithMeasurer(measure.Mono{CharWidth: 0.5}))
	d := e.Layout(tree)

	fmt.Printf("diagram %gx%g\n", d.Width, d.Height)
	for _, b := range d.Nodes {
		fmt.Printf("%s %s at (%g,%g) %gx%g\n", b.Type, b.ID, b.X, b.Y, b.Width, b.Height)
	}
	for _, c := range d.Connects {
		fmt.Printf("%s %s (%g,%g) -> (%g,%g)\n", c.Type, c.ID, c.Start.X, c.Start.Y, c.End.X, c.End.Y)
	}
	// Output:
	// diagram 126x62
	// root start at (20,26) 10x10
	// basic n1 at (50,20) 26x22
	// root end at (96,26) 10x10
	// split n1split (30,31) -> (50,31)
	// split endsplit (76,31) -> (96,31)
}

func ExampleEngine_Resolve() {
	tree, _ := ast.FromPattern(`x?`, "")
	e := railroad.New(railroad.WithMeasurer(measure.Mono{CharWidth: 0.5}))

	for _, id := range []string{"start", "n1", "end"} {
		s := e.Resolve(tree)[id]
		fmt.Printf("%s content %gx%g offset %gx%g\n", id, s.Width, s.Height, s.OffsetWidth, s.OffsetHeight)
	}
	// Output:
	// start content 10x10 offset 10x10
	// n1 content 18x22 offset 18x38
	// end content 10x10 offset 10x10
}
