package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/render"
)

// Options configures node-link rendering.
type Options struct {
	// Detailed adds node kinds, IDs and quantifier bounds to labels.
	// When false, only the node text (or kind, for containers) is shown.
	Detailed bool
}

// ToDOT converts an expression tree to Graphviz DOT format. The result can
// be rendered with [RenderSVG], [RenderPDF] or [RenderPNG]. Output is
// deterministic: nodes and edges appear in tree order.
func ToDOT(root ast.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	ast.Inspect(root, func(n ast.Node, _ int) bool {
		id := n.Info().ID
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))

		if next := n.Info().Next; next != nil {
			edges = append(edges, fmt.Sprintf("  %q -> %q;", id, next.Info().ID))
		}
		for i, head := range ast.Chains(n) {
			if head == nil {
				empty := fmt.Sprintf("%s.%d", id, i)
				fmt.Fprintf(&buf, "  %q [shape=point, width=0.08];\n", empty)
				edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed];", id, empty))
				continue
			}
			edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed, label=\"%d\"];", id, head.Info().ID, i))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ast.Node, detailed bool) string {
	info := n.Info()
	label := ast.Text(n)
	switch v := n.(type) {
	case *ast.Root:
		if label == "" {
			label = info.ID
		}
	case *ast.Lookaround:
		label = v.Label()
	case *ast.Choice, *ast.Group:
		label = string(n.Kind())
	}
	if info.Name != "" {
		label += " <" + info.Name + ">"
	}
	if q := info.Quantifier; q != nil {
		label += " " + fmtQuantifier(*q)
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s: %s", label, n.Kind(), info.ID)
}

func fmtQuantifier(q ast.Quantifier) string {
	max := "∞"
	if q.Max != ast.Unbounded {
		max = strconv.Itoa(q.Max)
	}
	s := fmt.Sprintf("{%d,%s}", q.Min, max)
	if !q.Greedy {
		s += "?"
	}
	return s
}

func fmtAttrs(n ast.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch v := n.(type) {
	case *ast.Root:
		attrs = append(attrs, "shape=circle", "fillcolor=\"#333333\"", "fontcolor=white", "fontsize=10")
	case *ast.Leaf:
		if v.Assertion {
			attrs = append(attrs, "fillcolor=\"#f0f0f0\"", "fontname=\"Helvetica-Oblique\"")
		}
	case *ast.Choice:
		attrs = append(attrs, "shape=diamond", "style=filled")
	case *ast.Group, *ast.Lookaround:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
