package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a diagram document.
func (c *CLI) visualizeCommand() *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "visualize [diagram.json]",
		Short: "Render a computed diagram document",
		Long: `Render a computed diagram document.

The visualize command takes a diagram document (produced by 'layout', in JSON
or MessagePack) and renders it to SVG, PNG, PDF or a data format. The
document contains all positioning information, so this step is purely about
painting. The dot format is not available here because it needs the tree.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from a pattern to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, rf)
		},
	}

	rf.bind(cmd)

	return cmd
}

// runVisualize loads the document and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, rf renderFlags) error {
	doc, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	opts.SetRenderDefaults()

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, nil, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		stem:      diagramStem(input),
		output:    rf.output,
		cacheHit:  cacheHit,
		boxes:     len(doc.Diagram.Nodes),
		connects:  len(doc.Diagram.Connects),
	})
}
