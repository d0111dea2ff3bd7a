// Package pipeline provides the parse → layout → render pipeline for railyard.
//
// The CLI and the HTTP API both run diagrams through this package, so they
// share defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: turn a regular expression (or a tree file) into an expression tree
//  2. Layout: compute the railroad diagram for the tree
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, ...)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Pattern: `\d{3}-\d{4}`,
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	tree, err := runner.Parse(ctx, opts)
//	doc, err := runner.Layout(ctx, tree, opts)
//	artifacts, err := runner.Render(ctx, doc, tree, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultSeed seeds the hand-drawn style so output is reproducible.
	DefaultSeed = uint64(42)

	// DefaultMeasurer measures text with the bundled Go Regular font.
	DefaultMeasurer = measure.KindFont
)

// Visual styles.
const (
	StyleSimple    = "simple"
	StyleHanddrawn = "handdrawn"
)

// DefaultStyle is the default visual style.
const DefaultStyle = StyleSimple

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatDOT     = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatJSON:    true,
	FormatMsgpack: true,
	FormatDOT:     true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple:    true,
	StyleHanddrawn: true,
}

// FileExtension maps an output format to the file extension it is written with.
func FileExtension(format string) string {
	if format == FormatDOT {
		return "dot.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options. Exactly one source is used: Tree, then TreeFile, then
	// Pattern. An empty pattern is valid and yields start and end only.
	Pattern  string `json:"pattern,omitempty"`
	Flags    string `json:"flags,omitempty"`
	TreeFile string `json:"tree_file,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Layout options
	Config   *railroad.Config `json:"config,omitempty"`
	Measurer string           `json:"measurer,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Seed       uint64   `json:"seed,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"` // label boxes with their node IDs

	// Runtime options (not serialized)
	Tree        ast.Node    `json:"-"`
	Logger      *log.Logger `json:"-"`
	Concurrency int         `json:"-"` // Batch workers; 0 means one per CPU

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed expression tree.
	Tree ast.Node

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Document is the laid out diagram with its layout inputs.
	Document diagram.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	BoxCount       int
	ConnectorCount int
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the tree came from cache
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, msgpack, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, handdrawn)", style)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the tree source.
func (o *Options) ValidateForParse() error {
	if o.TreeFile != "" && o.Pattern != "" {
		return errors.New(errors.ErrCodeInvalidInput, "pattern and tree file are mutually exclusive")
	}
	if o.Tree == nil && o.TreeFile == "" {
		if err := errors.ValidatePattern(o.Pattern); err != nil {
			return err
		}
		if err := errors.ValidateFlags(o.Flags); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Config == nil {
		cfg := railroad.DefaultConfig()
		o.Config = &cfg
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	_, err := measure.ByName(o.Measurer)
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Source describes where the tree comes from, for logs and hooks.
func (o *Options) Source() string {
	switch {
	case o.Tree != nil:
		return "tree"
	case o.TreeFile != "":
		return o.TreeFile
	default:
		return o.Pattern
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := railroad.DefaultConfig()
	if o.Config != nil {
		cfg = *o.Config
	}
	// Validated configs never contain NaN, the only value JSON rejects.
	hash, _ := cache.HashJSON(cfg)
	return cache.LayoutKeyOpts{
		ConfigHash: hash,
		Measurer:   o.Measurer,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		ShowLabels: o.ShowLabels,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	if o.Style == StyleHanddrawn {
		opts.Seed = o.Seed
	}
	return opts
}
