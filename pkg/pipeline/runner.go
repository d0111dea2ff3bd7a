package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	tree, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = tree
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = ast.Count(tree)
	result.CacheInfo.ParseHit = parseHit
	result.TreeHash, _ = hashTree(tree)

	opts.Logger.Info("parsed expression",
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	doc, layoutHit, err := r.LayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BoxCount = len(doc.Diagram.Nodes)
	result.Stats.ConnectorCount = len(doc.Diagram.Connects)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"boxes", result.Stats.BoxCount,
		"connectors", result.Stats.ConnectorCount,
		"size", fmt.Sprintf("%.0fx%.0f", doc.Diagram.Width, doc.Diagram.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo builds the expression tree and returns cache hit info.
// Only pattern sources are cached; tree files are read every time.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (tree ast.Node, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}

	source := opts.Source()
	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, source)
	defer func() {
		n := 0
		if tree != nil {
			n = ast.Count(tree)
		}
		observability.Pipeline().OnParseComplete(ctx, source, n, time.Since(start), err)
	}()

	cacheable := opts.Tree == nil && opts.TreeFile == ""
	cacheKey := r.Keyer.TreeKey(opts.Pattern, opts.Flags)

	// Try cache first (unless refresh requested)
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := ast.Unmarshal(data); err == nil {
				opts.Logger.Debug("tree cache hit", "pattern", opts.Pattern)
				return cached, true, nil
			}
		}
	}

	tree, err = Parse(opts)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := ast.Marshal(tree); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTree); err != nil {
				opts.Logger.Warn("cache tree", "error", err)
			}
		}
	}

	return tree, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (ast.Node, error) {
	tree, _, err := r.ParseWithCacheInfo(ctx, opts)
	return tree, err
}

// LayoutWithCacheInfo lays out a tree with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, tree ast.Node, opts Options) (doc diagram.Document, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return diagram.Document{}, false, err
	}
	if err := ast.Validate(tree); err != nil {
		return diagram.Document{}, false, err
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, ast.Count(tree))
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, len(doc.Diagram.Nodes), time.Since(start), err)
	}()

	treeHash, err := hashTree(tree)
	if err != nil {
		return diagram.Document{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := diagram.Unmarshal(data); err == nil {
				// Equal trees may come from different patterns.
				applySource(&cached, opts)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	doc, err = GenerateLayout(tree, opts)
	if err != nil {
		return diagram.Document{}, false, err
	}

	if data, err := diagram.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache layout", "error", err)
		}
	}

	return doc, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, tree ast.Node, opts Options) (diagram.Document, error) {
	doc, _, err := r.LayoutWithCacheInfo(ctx, tree, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// tree may be nil unless the dot format is requested.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc diagram.Document, tree ast.Node, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from document data
	docData, err := diagram.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts = make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			allCached = false
			break
		}
		artifacts[format] = data
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(doc, tree, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc diagram.Document, tree ast.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, tree, opts)
	return artifacts, err
}

// Batch runs the pipeline for every tree file concurrently, with base
// supplying all other options. At most base.Concurrency files are processed
// at once. Results are returned in input order; the first failure cancels
// the remaining work.
func (r *Runner) Batch(ctx context.Context, base Options, treeFiles []string) ([]*Result, error) {
	limit := base.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]*Result, len(treeFiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range treeFiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := base
			opts.Pattern, opts.Flags, opts.Tree = "", "", nil
			opts.TreeFile = path
			opts.Formats = append([]string(nil), base.Formats...)

			res, err := r.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExpandInputs resolves glob arguments such as "trees/**/*.json" to the
// files they match. Arguments without glob characters are kept as given.
// The result is sorted and free of duplicates.
func ExpandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashTree(tree ast.Node) (string, error) {
	data, err := ast.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("hash tree: %w", err)
	}
	return cache.Hash(data), nil
}
