package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/render/styles"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      styles.Style
	showIDs    bool
	background string
}

// WithStyle sets the visual style (default [styles.Simple]).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithIDs labels every box with its node ID.
func WithIDs() SVGOption { return func(r *svgRenderer) { r.showIDs = true } }

// WithBackground fills the canvas with a color. The default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders the document as a standalone SVG image.
func RenderSVG(doc diagram.Document, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	s := buildScene(doc, r.showIDs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if doc.Pattern != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(doc.Pattern))
	}

	r.style.RenderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", styles.EscapeXML(r.background))
	}
	renderContent(&buf, r.style, s)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderContent(buf *bytes.Buffer, style styles.Style, s scene) {
	for _, b := range s.boxes {
		style.RenderBox(buf, b)
	}
	for _, c := range s.connectors {
		style.RenderConnector(buf, c)
	}
	for _, c := range s.curves {
		style.RenderCurve(buf, c)
	}
	for _, b := range s.boxes {
		style.RenderText(buf, b)
	}
	for _, l := range s.labels {
		style.RenderLabel(buf, l)
	}
}
