// Package render turns computed railroad layouts into artifacts.
//
// # Overview
//
// Rendering is split the same way the layout is: the engine in
// [railroad] decides where things go, and the packages below decide what
// they look like. This package provides:
//
//   - Generic format conversion (SVG to PDF/PNG via rsvg-convert)
//   - Output sinks for diagrams (in [sink] subpackage)
//   - Visual styles (in [styles] subpackage)
//   - Expression tree views via Graphviz (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(doc, sink.WithStyle(styles.Simple{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink.RenderPNG] does not need librsvg: it rasterizes the diagram
// directly.
//
// [railroad]: github.com/matzehuels/railyard/pkg/railroad
// [sink]: github.com/matzehuels/railyard/pkg/render/sink
// [sink.RenderPNG]: github.com/matzehuels/railyard/pkg/render/sink#RenderPNG
// [styles]: github.com/matzehuels/railyard/pkg/render/styles
// [nodelink]: github.com/matzehuels/railyard/pkg/render/nodelink
package render
