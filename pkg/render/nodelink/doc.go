// Package nodelink draws the expression tree behind a railroad diagram as a
// node-and-edge graph using Graphviz.
//
// # Overview
//
// The railroad layout shows how a pattern matches; the node-link view
// shows how it is built. Every tree node becomes a DOT node. Solid edges
// follow the sequence of a chain, dashed edges lead from a choice, group or
// lookaround to the head of each chain nested inside it.
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// Graphviz runs in-process (compiled to WebAssembly), so SVG output needs
// no system install. PDF and PNG go through [render.ToPDF] and
// [render.ToPNG] and need librsvg.
//
// [render.ToPDF]: github.com/matzehuels/railyard/pkg/render#ToPDF
// [render.ToPNG]: github.com/matzehuels/railyard/pkg/render#ToPNG
package nodelink
