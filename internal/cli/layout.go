package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		src     sourceFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute a railroad diagram layout",
		Long: `Compute a railroad diagram layout.

The layout command takes a tree file (produced by 'parse') or a pattern given
with -p and computes the position of every box and connector. The output is a
diagram document (same format as 'render -f json') that can be rendered to
SVG/PNG/PDF using the 'visualize' command. Documents ending in .msgpack are
written in MessagePack.

Layout constants come from the [layout] section of the config file.
Results are cached for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := src.apply(cmd, &opts, firstArg(args)); err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.diagram.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// runLayout parses the input, computes the layout, and writes the document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	tree, _, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Parse failed")
		return err
	}
	doc, cacheHit, err := runner.LayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.TreeFile) + ".diagram.json"
	}
	if err := diagram.WriteFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Diagram.Nodes), len(doc.Diagram.Connects), cacheHit)
	printBoxTypes(doc.Diagram.Count())
	printNewline()
	printNextStep("Render", "railyard visualize "+outputPath)

	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}
