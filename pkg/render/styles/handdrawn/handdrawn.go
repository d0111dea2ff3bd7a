package handdrawn

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/railyard/pkg/render/styles"
)

const fontFamily = `'xkcd Script', 'Comic Neue', 'Comic Sans MS', cursive`

// HandDrawn is the sketchy style. Create one with [New].
type HandDrawn struct {
	seed uint64
}

// New returns a hand-drawn style whose jitter is derived from seed.
func New(seed uint64) *HandDrawn {
	return &HandDrawn{seed: seed}
}

func (h *HandDrawn) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="pencil" x="-5%" y="-5%" width="110%" height="110%">
      <feTurbulence type="fractalNoise" baseFrequency="0.03" numOctaves="2" result="noise"/>
      <feDisplacementMap in="SourceGraphic" in2="noise" scale="1.5"/>
    </filter>
  </defs>
`)
}

func (h *HandDrawn) RenderBox(buf *bytes.Buffer, b styles.Box) {
	id := styles.EscapeXML(b.ID)
	switch b.Type {
	case styles.BoxRoot:
		path := wobbledRect(b.X, b.Y, b.W, b.H, h.seed, b.ID)
		fmt.Fprintf(buf, `  <path id="box-%s" class="box root" d="%s" fill="%s" stroke="%s" filter="url(#pencil)"/>`+"\n",
			id, path, rootColor, ink)
	case styles.BoxChoice:
		fmt.Fprintf(buf, `  <rect id="box-%s" class="box choice" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="none"/>`+"\n",
			id, b.X, b.Y, b.W, b.H)
	case styles.BoxGroup:
		path := wobbledRect(b.X, b.Y, b.W, b.H, h.seed, b.ID)
		fmt.Fprintf(buf, `  <path id="box-%s" class="box group" d="%s" fill="none" stroke="#888" stroke-width="1.2" stroke-dasharray="6 4"/>`+"\n",
			id, path)
	default:
		fill := greyForID(b.ID)
		if b.Assertion {
			fill = "white"
		}
		path := wobbledRect(b.X, b.Y, b.W, b.H, h.seed, b.ID)
		fmt.Fprintf(buf, `  <path id="box-%s" class="box basic" d="%s" fill="%s" stroke="%s" stroke-width="1.8" stroke-linejoin="round" filter="url(#pencil)"/>`+"\n",
			id, path, fill, ink)
	}
}

func (h *HandDrawn) RenderConnector(buf *bytes.Buffer, c styles.Connector) {
	fmt.Fprintf(buf, `  <path id="conn-%s" class="connector %s" d="%s" fill="none" stroke="%s" stroke-width="1.8" stroke-linecap="round"/>`+"\n",
		styles.EscapeXML(c.ID), c.Type, wobbledConnector(c, h.seed), ink)
}

func (h *HandDrawn) RenderCurve(buf *bytes.Buffer, c styles.Curve) {
	class := "skip"
	dash := ""
	if c.Loop {
		class = "loop"
	} else {
		dash = ` stroke-dasharray="5 3"`
	}
	fmt.Fprintf(buf, `  <path class="curve %s" data-box="%s" d="%s" fill="none" stroke="%s" stroke-width="1.6"%s/>`+"\n",
		class, styles.EscapeXML(c.BoxID), wobbledCurve(c, h.seed), ink, dash)
}

func (h *HandDrawn) RenderText(buf *bytes.Buffer, b styles.Box) {
	if b.Text == "" || b.Type != styles.BoxBasic {
		return
	}
	rot := rotationFor(b.ID, b.W, b.H)
	fmt.Fprintf(buf, `  <text class="box-text" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="%s" transform="rotate(%.2f %.2f %.2f)">%s</text>`+"\n",
		styles.EscapeXML(b.ID), b.CX, styles.Baseline(b.CY, b.FontSize), fontFamily, b.FontSize, ink,
		rot, b.CX, b.CY, styles.EscapeXML(b.Text))
}

func (h *HandDrawn) RenderLabel(buf *bytes.Buffer, l styles.Label) {
	fmt.Fprintf(buf, `  <text class="label %s" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="#555">%s</text>`+"\n",
		l.Class, styles.EscapeXML(l.BoxID), l.X, l.Y, fontFamily, l.Size, styles.EscapeXML(l.Text))
}

var _ styles.Style = (*HandDrawn)(nil)
