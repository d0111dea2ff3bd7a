package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

// parseCommand creates the parse command for converting a pattern into a tree.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		flags   string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "parse [pattern]",
		Short: "Convert a regular expression into a syntax tree",
		Long: `Convert a regular expression into a syntax tree.

The pattern uses Go's RE2 syntax. The tree is written as JSON, or as YAML
when the output file ends in .yaml or .yml. Without -o the tree is printed
to stdout.

The tree file can be edited by hand (for example to add lookarounds, which
RE2 does not support) and passed to 'layout' or 'render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Pattern = args[0]
			opts.Flags = flags
			return c.runParse(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&flags, "flags", "", "regular expression flags: i, m, s, U")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runParse parses the pattern and writes the tree.
func (c *CLI) runParse(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	tree, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d nodes", ast.Count(tree)))

	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer out.Close()

	format := ast.FormatJSON
	if output != "" {
		format = ast.FormatForPath(output)
	}
	if err := ast.Encode(out, tree, format); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	if output == "" || output == "-" {
		return nil
	}
	printSuccess("Parsed %s", StyleHighlight.Render(opts.Pattern))
	printFile(output)
	printStats(0, 0, cacheHit)
	printNewline()
	printNextStep("Lay out", "railyard layout "+output)
	return nil
}
