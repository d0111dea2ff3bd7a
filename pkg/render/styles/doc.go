// Package styles defines visual styles for railroad diagram rendering.
//
// # Overview
//
// A style controls how the elements of a laid out diagram are painted.
// This package provides:
//
//   - [Style]: The interface that all styles implement
//   - [Simple]: A clean, minimal style with solid strokes
//   - [handdrawn]: A sketchy, hand-drawn aesthetic (in subpackage)
//
// # The Style Interface
//
// Sinks hand styles one element at a time, in painting order:
//
//   - RenderDefs: SVG <defs> section (filters, markers)
//   - RenderBox: container and node shapes
//   - RenderConnector: track segments between nodes
//   - RenderCurve: quantifier skip and repeat curves
//   - RenderText: node text
//   - RenderLabel: names, quantifier text and lookaround labels
//
// # Paint Data
//
// Styles never see the layout engine's types. Sinks convert boxes and
// connectors into [Box], [Connector], [Curve] and [Label] values that carry
// plain coordinates, so a style only has to know about SVG.
//
// [handdrawn]: github.com/matzehuels/railyard/pkg/render/styles/handdrawn
package styles
