package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/pipeline"
)

// renderCommand creates the render command, a shortcut for parse, layout
// and visualize in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src         sourceFlags
		rf          renderFlags
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json...]",
		Short: "Render diagrams from patterns or tree files",
		Long: `Render diagrams from patterns or tree files.

With -p the pattern is parsed, laid out and rendered. With a single tree
file the same happens for the file. Several files or glob patterns such as
'trees/**/*.json' are rendered concurrently; -o then names the output
directory.

Formats: svg, png, pdf, json, msgpack, dot. The dot format draws the
expression tree itself rather than the railroad diagram.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}

			if len(args) > 1 || (len(args) == 1 && isGlob(args[0])) {
				if cmd.Flags().Changed("pattern") {
					return fmt.Errorf("--pattern cannot be combined with multiple tree files")
				}
				if cmd.Flags().Changed("measurer") {
					opts.Measurer = src.measurer
				}
				opts.Concurrency = concurrency
				return c.runBatch(cmd.Context(), args, opts, rf)
			}

			if err := src.apply(cmd, &opts, firstArg(args)); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, rf)
		},
	}

	src.bind(cmd)
	rf.bind(cmd)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "files rendered at once (default: number of CPUs)")

	return cmd
}

// runRender runs the full pipeline for one input and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, rf renderFlags) error {
	opts.SetRenderDefaults()
	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		stem:      basePath("", opts.TreeFile),
		output:    rf.output,
		cacheHit:  result.CacheInfo.RenderHit,
		boxes:     result.Stats.BoxCount,
		connects:  result.Stats.ConnectorCount,
	})
}

// runBatch renders every file matched by args. Each file's artifacts are
// written next to it, or into the -o directory when given.
func (c *CLI) runBatch(ctx context.Context, args []string, opts pipeline.Options, rf renderFlags) error {
	files, err := pipeline.ExpandInputs(args)
	if err != nil {
		return err
	}
	opts.SetRenderDefaults()

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d files...", len(files)))
	spinner.Start()

	results, err := runner.Batch(ctx, opts, files)
	if err != nil {
		spinner.StopWithError("Batch render failed")
		return err
	}
	spinner.Stop()

	cached := 0
	for i, res := range results {
		base := basePath("", files[i])
		if rf.output != "" {
			base = filepath.Join(rf.output, filepath.Base(base))
		}
		for _, format := range opts.Formats {
			if err := writeFile(base+"."+pipeline.FileExtension(format), res.Artifacts[format]); err != nil {
				return err
			}
		}
		if res.CacheInfo.RenderHit {
			cached++
		}
	}
	prog.done(fmt.Sprintf("Rendered %d diagrams", len(results)))

	printSuccess("Rendered %d files", len(results))
	if rf.output != "" {
		printFile(rf.output)
	}
	if cached > 0 {
		printDetail("%d of %d served from cache", cached, len(results))
	}
	return nil
}

func isGlob(arg string) bool {
	for _, r := range arg {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
