package pipeline

import (
	"github.com/matzehuels/railyard/pkg/ast"
)

// Parse builds the expression tree selected by opts: an explicit tree, a
// tree file, or the regular expression in Pattern. The result is validated.
func Parse(opts Options) (ast.Node, error) {
	switch {
	case opts.Tree != nil:
		if err := ast.Validate(opts.Tree); err != nil {
			return nil, err
		}
		return opts.Tree, nil
	case opts.TreeFile != "":
		return ast.ReadFile(opts.TreeFile)
	default:
		return ast.FromPattern(opts.Pattern, opts.Flags)
	}
}
