package railroad

import (
	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/measure"
)

// Size is the extent of a node. Width and Height describe the content box;
// OffsetWidth and OffsetHeight add the space reserved for quantifier curves,
// quantifier text and name labels.
type Size struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	OffsetWidth  float64 `json:"offset_width"`
	OffsetHeight float64 `json:"offset_height"`
}

// sizer holds the size formulas. It has no state of its own; sizes of
// nested chain members come from the lookup passed to content.
type sizer struct {
	cfg Config
	m   measure.Measurer
}

// content returns the content box of n before decorations.
func (s sizer) content(n ast.Node, lookup func(ast.Node) Size) (w, h float64) {
	switch v := n.(type) {
	case *ast.Root:
		w = s.m.Measure(v.Text, s.cfg.FontSize).Width + 2*s.cfg.RootPadding
		h = w
	case *ast.Leaf:
		ts := s.m.Measure(v.Text, s.cfg.FontSize)
		w = ts.Width + 2*s.cfg.NodePaddingH
		h = ts.Height + 2*s.cfg.NodePaddingV
	case *ast.Choice:
		for _, alt := range v.Chains {
			aw, ah := aggregate(alt, s.cfg.NodeMarginH, lookup)
			w = max(w, aw)
			h += ah + s.cfg.BranchMargin
		}
		w += 2 * s.cfg.ChoicePaddingH
	case *ast.Group:
		w, h = aggregate(v.Chain, s.cfg.NodeMarginH, lookup)
		h += 2 * s.cfg.GroupPaddingV
	case *ast.Lookaround:
		w, h = aggregate(v.Chain, s.cfg.NodeMarginH, lookup)
		h += 2 * s.cfg.GroupPaddingV
	default:
		panic(unknownVariant(n))
	}
	return w, h
}

// decorate reserves room for quantifier and name decorations around a
// content box. Both sides get the larger reservation so the content box
// stays vertically centered in its offset box.
func (s sizer) decorate(n ast.Node, w, h float64) Size {
	info := n.Info()
	var top, bottom, decoW float64

	if q := info.Quantifier; q != nil {
		if q.Min == 0 {
			top += s.cfg.QuantifierHeight
		}
		if q.Max == ast.Unbounded || q.Max > 1 {
			bottom += s.cfg.QuantifierHeight
		}
		if q.Text != "" {
			bottom += s.cfg.LabelHeight
			decoW = max(decoW, s.labelWidth(q.Text))
		}
	}
	if info.Name != "" {
		top += s.cfg.LabelHeight
		decoW = max(decoW, s.labelWidth(info.Name))
	}

	return Size{
		Width:        w,
		Height:       h,
		OffsetWidth:  max(w, decoW),
		OffsetHeight: h + 2*max(top, bottom),
	}
}

func (s sizer) labelWidth(text string) float64 {
	return s.m.Measure(text, s.cfg.LabelFontSize).Width + 2*s.cfg.LabelPaddingH
}

// size returns the memoized size of n, computing it on first use.
func (r *run) size(n ast.Node) Size {
	id := n.Info().ID
	if s, ok := r.sizes[id]; ok {
		return s
	}
	w, h := r.content(n, r.size)
	s := r.decorate(n, w, h)
	r.sizes[id] = s
	return s
}
