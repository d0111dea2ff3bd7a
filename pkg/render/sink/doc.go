// Package sink provides output format renderers for railroad diagrams.
//
// # Overview
//
// A "sink" transforms a laid out [diagram.Document] into a final output
// format. This package provides renderers for:
//
//   - SVG: Scalable vector graphics, painted by a [styles.Style]
//   - PNG: Raster image output, drawn natively (no external tools)
//   - PDF: Print-ready output (requires rsvg-convert)
//   - JSON and MessagePack: Layout data export for external tools
//
// # SVG Output
//
//	svg := sink.RenderSVG(doc,
//	    sink.WithStyle(handdrawn.New(seed)),
//	    sink.WithIDs(),
//	)
//
// Boxes are painted in document order, so containers are drawn before the
// boxes nested inside them. Track segments, quantifier curves and text
// follow in that order.
//
// # Decorations
//
// The layout engine reserves space around a box for its quantifier and
// name but does not position them. Sinks derive their positions from the
// document's constants:
//
//   - a skip curve above the box when the node is optional
//   - a repeat loop below the box when the node repeats
//   - the quantifier text under the loop
//   - the capture name directly above the box
//
// [diagram.Document]: github.com/matzehuels/railyard/pkg/diagram#Document
// [styles.Style]: github.com/matzehuels/railyard/pkg/render/styles#Style
package sink
