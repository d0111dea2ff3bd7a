// Package pkg provides the core libraries for railyard railroad diagrams.
//
// # Overview
//
// Railyard turns regular expressions into railroad diagrams: boxes for the
// pieces of the expression, joined by a path that splits at alternatives and
// loops around repetitions. The pkg directory is organized into four areas:
//
//  1. Domain: [ast] (expression trees), [railroad] (the layout engine),
//     [measure] (text measurement) and [diagram] (the serialized result)
//  2. Rendering: [render], [render/sink], [render/styles] and
//     [render/nodelink]
//  3. Infrastructure: [cache], [config], [errors], [observability] and
//     [buildinfo]
//  4. Orchestration: [pipeline] (parse → layout → render)
//
// # Architecture
//
// The typical data flow through railyard:
//
//	Regular expression or tree file
//	         ↓
//	    [ast] package (parse + validate)
//	         ↓
//	    [railroad] package (measure + position)
//	         ↓
//	    [diagram] package (versioned document)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON/MessagePack)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/railyard/pkg/ast"
//	    "github.com/matzehuels/railyard/pkg/diagram"
//	    "github.com/matzehuels/railyard/pkg/measure"
//	    "github.com/matzehuels/railyard/pkg/railroad"
//	    "github.com/matzehuels/railyard/pkg/render/sink"
//	)
//
//	// 1. Parse the expression
//	tree, _ := ast.FromPattern(`[a-z]+@[a-z]+\.com`, "i")
//
//	// 2. Compute the layout
//	cfg := railroad.DefaultConfig()
//	engine := railroad.New(railroad.WithConfig(cfg), railroad.WithMeasurer(measure.Mono{}))
//	d := engine.Layout(tree)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(diagram.New(d, cfg))
//
// Most callers use [pipeline.Runner] instead, which adds caching, logging
// and hooks around the same steps.
//
// # Main Packages
//
// [railroad] - The layout engine. It walks a tree once, sizing every box
// from its text and the [railroad.Config] constants, then places boxes and
// emits split and combine connectors. The engine knows nothing about
// rendering.
//
// [render/sink] - Painters for laid out diagrams. SVG is written by hand,
// PNG is rasterized natively and PDF goes through rsvg-convert.
//
// [render/nodelink] - A Graphviz view of the expression tree itself, useful
// for debugging patterns.
//
// [cache] - File (zstd), Redis, MongoDB and null backends keyed by content
// hashes, shared by the CLI and the HTTP server.
package pkg
