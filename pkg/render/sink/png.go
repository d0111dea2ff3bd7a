package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	showIDs bool
	font    *measure.Font
	faces   map[float64]font.Face
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGIDs labels every box with its node ID.
func WithPNGIDs() PNGOption { return func(r *pngRenderer) { r.showIDs = true } }

// WithFont sets the font used for text (default [measure.Default]). Use the
// font the layout was measured with so text fits its boxes.
func WithFont(f *measure.Font) PNGOption { return func(r *pngRenderer) { r.font = f } }

var (
	pngInk    = color.RGBA{0x33, 0x33, 0x33, 0xff}
	pngMuted  = color.RGBA{0x66, 0x66, 0x66, 0xff}
	pngGroup  = color.RGBA{0x99, 0x99, 0x99, 0xff}
	pngAssert = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
)

// RenderPNG rasterizes the document. Unlike [RenderPDF] it needs no
// external tools.
func RenderPNG(doc diagram.Document, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.font == nil {
		r.font = measure.Default()
	}

	s := buildScene(doc, r.showIDs)
	w := max(1, int(math.Ceil(s.width*r.scale)))
	h := max(1, int(math.Ceil(s.height*r.scale)))

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	for _, b := range s.boxes {
		r.drawBox(dc, b)
	}
	dc.SetLineWidth(1.5 * r.scale)
	dc.SetColor(pngInk)
	for _, c := range s.connectors {
		r.drawConnector(dc, c)
	}
	for _, c := range s.curves {
		r.drawCurve(dc, c)
	}
	for _, b := range s.boxes {
		if b.Type != styles.BoxBasic || b.Text == "" {
			continue
		}
		if err := r.drawText(dc, b.Text, b.CX, b.CY, b.FontSize, pngInk); err != nil {
			return nil, err
		}
	}
	for _, l := range s.labels {
		// Labels are anchored at their baseline; drawText centers vertically.
		cy := l.Y - l.Size*0.35
		if err := r.drawText(dc, l.Text, l.X, cy, l.Size, pngMuted); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// p converts a diagram coordinate to pixels.
func (r *pngRenderer) p(v float64) float64 { return v * r.scale }

func (r *pngRenderer) drawBox(dc *gg.Context, b styles.Box) {
	x, y, w, h := r.p(b.X), r.p(b.Y), r.p(b.W), r.p(b.H)
	radius := r.p(min(6, b.W/4, b.H/4))

	switch b.Type {
	case styles.BoxRoot:
		dc.DrawCircle(r.p(b.CX), r.p(b.CY), min(w, h)/2)
		dc.SetColor(pngInk)
		dc.Fill()
	case styles.BoxChoice:
	case styles.BoxGroup:
		dc.DrawRoundedRectangle(x, y, w, h, radius)
		dc.SetColor(pngGroup)
		dc.SetLineWidth(r.scale)
		dc.SetDash(4*r.scale, 3*r.scale)
		dc.Stroke()
		dc.SetDash()
	default:
		dc.DrawRoundedRectangle(x, y, w, h, radius)
		if b.Assertion {
			dc.SetColor(pngAssert)
		} else {
			dc.SetColor(color.White)
		}
		dc.FillPreserve()
		dc.SetColor(pngInk)
		dc.SetLineWidth(1.5 * r.scale)
		dc.Stroke()
	}
}

func (r *pngRenderer) drawConnector(dc *gg.Context, c styles.Connector) {
	dc.MoveTo(r.p(c.X1), r.p(c.Y1))
	if c.Y1 == c.Y2 {
		dc.LineTo(r.p(c.X2), r.p(c.Y2))
	} else {
		mx := r.p((c.X1 + c.X2) / 2)
		dc.CubicTo(mx, r.p(c.Y1), mx, r.p(c.Y2), r.p(c.X2), r.p(c.Y2))
	}
	dc.Stroke()
}

func (r *pngRenderer) drawCurve(dc *gg.Context, c styles.Curve) {
	radius := max(0, min(math.Abs(c.Y-c.BaseY), (c.X2-c.X1)/2))
	dc.MoveTo(r.p(c.X1), r.p(c.BaseY))
	dc.QuadraticTo(r.p(c.X1), r.p(c.Y), r.p(c.X1+radius), r.p(c.Y))
	dc.LineTo(r.p(c.X2-radius), r.p(c.Y))
	dc.QuadraticTo(r.p(c.X2), r.p(c.Y), r.p(c.X2), r.p(c.BaseY))
	dc.Stroke()
}

func (r *pngRenderer) drawText(dc *gg.Context, text string, cx, cy, size float64, c color.Color) error {
	face, ok := r.faces[size]
	if !ok {
		var err error
		if face, err = r.font.Face(size * r.scale); err != nil {
			return fmt.Errorf("font face: %w", err)
		}
		r.faces[size] = face
	}
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(text, r.p(cx), r.p(cy), 0.5, 0.5)
	return nil
}
