package pipeline

import (
	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// NewEngine builds a layout engine from the layout options.
func NewEngine(opts Options) (*railroad.Engine, error) {
	opts.SetLayoutDefaults()
	m, err := measure.ByName(opts.Measurer)
	if err != nil {
		return nil, err
	}
	return railroad.New(railroad.WithConfig(*opts.Config), railroad.WithMeasurer(m)), nil
}

// GenerateLayout lays out a tree and wraps the diagram together with the
// inputs it was computed from. The tree is validated first since the engine
// trusts its input.
func GenerateLayout(tree ast.Node, opts Options) (diagram.Document, error) {
	if err := ast.Validate(tree); err != nil {
		return diagram.Document{}, err
	}
	engine, err := NewEngine(opts)
	if err != nil {
		return diagram.Document{}, err
	}

	doc := diagram.New(engine.Layout(tree), engine.Config())
	doc.Measurer = opts.Measurer
	if doc.Measurer == "" {
		doc.Measurer = DefaultMeasurer
	}
	applySource(&doc, opts)
	return doc, nil
}

func applySource(doc *diagram.Document, opts Options) {
	if opts.Tree == nil && opts.TreeFile == "" {
		doc.Pattern = opts.Pattern
		doc.Flags = opts.Flags
	} else {
		doc.Pattern, doc.Flags = "", ""
	}
}
