package styles

import (
	"bytes"
	"fmt"
)

// Simple is a clean style: white boxes with dark outlines, dashed groups
// and a plain sans-serif font.
type Simple struct{}

const (
	simpleStroke = "#333"
	simpleFont   = "Helvetica, Arial, sans-serif"
)

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBox(buf *bytes.Buffer, b Box) {
	id := EscapeXML(b.ID)
	switch b.Type {
	case BoxRoot:
		r := min(b.W, b.H) / 2
		fmt.Fprintf(buf, `  <circle id="box-%s" class="box root" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			id, b.CX, b.CY, r, simpleStroke)
	case BoxChoice:
		fmt.Fprintf(buf, `  <rect id="box-%s" class="box choice" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="none"/>`+"\n",
			id, b.X, b.Y, b.W, b.H)
	case BoxGroup:
		fmt.Fprintf(buf, `  <rect id="box-%s" class="box group" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f" fill="none" stroke="#999" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
			id, b.X, b.Y, b.W, b.H, cornerRadius(b), cornerRadius(b))
	default:
		fill := "white"
		if b.Assertion {
			fill = "#f0f0f0"
		}
		fmt.Fprintf(buf, `  <rect id="box-%s" class="box basic" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			id, b.X, b.Y, b.W, b.H, cornerRadius(b), cornerRadius(b), fill, simpleStroke)
	}
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `  <path id="conn-%s" class="connector %s" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		EscapeXML(c.ID), c.Type, ConnectorPath(c), simpleStroke)
}

func (Simple) RenderCurve(buf *bytes.Buffer, c Curve) {
	class := "skip"
	if c.Loop {
		class = "loop"
	}
	fmt.Fprintf(buf, `  <path class="curve %s" data-box="%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		class, EscapeXML(c.BoxID), CurvePath(c), simpleStroke)
}

func (Simple) RenderText(buf *bytes.Buffer, b Box) {
	if b.Text == "" || b.Type != BoxBasic {
		return
	}
	style := ""
	if b.Assertion {
		style = ` font-style="italic"`
	}
	fmt.Fprintf(buf, `  <text class="box-text" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="%.1f"%s fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, Baseline(b.CY, b.FontSize), simpleFont, b.FontSize, style, simpleStroke, EscapeXML(b.Text))
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	fmt.Fprintf(buf, `  <text class="label %s" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="#666">%s</text>`+"\n",
		l.Class, EscapeXML(l.BoxID), l.X, l.Y, simpleFont, l.Size, EscapeXML(l.Text))
}

func cornerRadius(b Box) float64 {
	return min(6, b.W/4, b.H/4)
}

var _ Style = Simple{}
