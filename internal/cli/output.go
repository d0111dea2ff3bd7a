package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/pipeline"
)

// =============================================================================
// Shared Flags
// =============================================================================

// renderFlags are the flags shared by render and visualize. They are applied
// over the config file defaults only when set on the command line.
type renderFlags struct {
	formats    string
	style      string
	scale      float64
	seed       uint64
	showLabels bool
	output     string
	noCache    bool
	refresh    bool
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")

	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, msgpack, dot (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "visual style: simple (default), handdrawn")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed for the handdrawn style")
	cmd.Flags().BoolVar(&f.showLabels, "ids", false, "label boxes with their node IDs")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if flags.Changed("style") {
		opts.Style = f.style
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	if flags.Changed("seed") {
		opts.Seed = f.seed
	}
	if flags.Changed("ids") {
		opts.ShowLabels = f.showLabels
	}
	opts.Refresh = f.refresh

	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if opts.Style != "" {
		return pipeline.ValidateStyle(opts.Style)
	}
	return nil
}

// sourceFlags select the expression a command starts from.
type sourceFlags struct {
	pattern  string
	flags    string
	measurer string
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", "", "regular expression to lay out instead of a tree file")
	cmd.Flags().StringVar(&f.flags, "flags", "", "regular expression flags: i, m, s, U")
	cmd.Flags().StringVar(&f.measurer, "measurer", "", "text measurer: font (default), mono, zero")
}

// apply sets the pattern or tree file. input is the positional argument,
// empty when none was given.
func (f *sourceFlags) apply(cmd *cobra.Command, opts *pipeline.Options, input string) error {
	hasPattern := cmd.Flags().Changed("pattern")
	switch {
	case hasPattern && input != "":
		return fmt.Errorf("pass either a tree file or --pattern, not both")
	case !hasPattern && input == "":
		return fmt.Errorf("a tree file or --pattern is required")
	case hasPattern:
		opts.Pattern = f.pattern
		opts.Flags = f.flags
	default:
		opts.TreeFile = input
	}
	if cmd.Flags().Changed("measurer") {
		opts.Measurer = f.measurer
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// defaultStem is the output name used when the input is a pattern.
const defaultStem = "diagram"

// artifactWriteParams groups everything needed to write rendered outputs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	stem      string // default base path, used when output is empty
	output    string
	cacheHit  bool
	boxes     int
	connects  int
}

// writeArtifacts writes each format to disk and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	paths, err := artifactPaths(p.formats, p.stem, p.output)
	if err != nil {
		return err
	}

	for _, format := range p.formats {
		path := paths[format]
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", strings.Join(p.formats, ", "))
	for _, format := range p.formats {
		printFile(paths[format])
	}
	printStats(p.boxes, p.connects, p.cacheHit)
	return nil
}

// artifactPaths maps each format to its output file. A single format with
// an explicit output writes exactly there; otherwise output (or stem) is a
// base path that receives one extension per format.
func artifactPaths(formats []string, stem, output string) (map[string]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output formats")
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths, nil
	}
	base := stem
	if output != "" {
		base = basePath(output, "")
	}
	for _, format := range formats {
		paths[format] = base + "." + pipeline.FileExtension(format)
	}
	return paths, nil
}

// basePath strips the extension from output, or from input when output is
// empty. A pattern input (empty) falls back to defaultStem.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input == "" {
		return defaultStem
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// diagramStem strips the document extension and a ".diagram" suffix, so
// "re.diagram.json" renders to "re.svg" next to the tree it came from.
func diagramStem(path string) string {
	return strings.TrimSuffix(basePath("", path), ".diagram")
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when path
// is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
