package sink

import (
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/railroad"
	"github.com/matzehuels/railyard/pkg/render/styles"
)

// scene is a document converted to paint data, in painting order.
type scene struct {
	width, height float64
	boxes         []styles.Box
	connectors    []styles.Connector
	curves        []styles.Curve
	labels        []styles.Label
}

func buildScene(doc diagram.Document, showIDs bool) scene {
	cfg := doc.Config
	d := doc.Diagram
	s := scene{
		width:      d.Width,
		height:     d.Height,
		boxes:      make([]styles.Box, 0, len(d.Nodes)),
		connectors: make([]styles.Connector, 0, len(d.Connects)),
	}

	for _, b := range d.Nodes {
		c := b.Center()
		s.boxes = append(s.boxes, styles.Box{
			ID:        b.ID,
			Type:      string(b.Type),
			Kind:      string(b.Kind),
			Text:      b.Text,
			X:         b.X,
			Y:         b.Y,
			W:         b.Width,
			H:         b.Height,
			CX:        c.X,
			CY:        c.Y,
			FontSize:  cfg.FontSize,
			Assertion: b.Assertion,
		})
		s.decorate(b, cfg, showIDs)
	}

	for _, c := range d.Connects {
		s.connectors = append(s.connectors, styles.Connector{
			ID:   c.ID,
			Type: string(c.Type),
			X1:   c.Start.X, Y1: c.Start.Y,
			X2: c.End.X, Y2: c.End.Y,
		})
	}
	return s
}

// decorate adds the curves and labels of b. Above the box the name sits
// closest to the content with the skip curve beyond it; below, the repeat
// loop comes first and the quantifier text after it.
func (s *scene) decorate(b railroad.Box, cfg railroad.Config, showIDs bool) {
	c := b.Center()
	top := b.Y
	bottom := b.Y + b.Height

	if b.Name != "" {
		s.labels = append(s.labels, styles.Label{
			BoxID: b.ID, Class: styles.LabelName, Text: b.Name,
			X: c.X, Y: styles.Baseline(top-cfg.LabelHeight/2, cfg.LabelFontSize),
			Size: cfg.LabelFontSize,
		})
		top -= cfg.LabelHeight
	}

	if q := b.Quantifier; q != nil {
		if q.Optional() {
			s.curves = append(s.curves, styles.Curve{
				BoxID: b.ID, X1: b.X, X2: b.X + b.Width,
				BaseY: c.Y, Y: top - cfg.QuantifierHeight/2,
			})
		}
		if q.Repeats() {
			s.curves = append(s.curves, styles.Curve{
				BoxID: b.ID, Loop: true, X1: b.X, X2: b.X + b.Width,
				BaseY: c.Y, Y: bottom + cfg.QuantifierHeight/2,
			})
			bottom += cfg.QuantifierHeight
		}
		if q.Text != "" {
			s.labels = append(s.labels, styles.Label{
				BoxID: b.ID, Class: styles.LabelQuantifier, Text: q.Text,
				X: c.X, Y: styles.Baseline(bottom+cfg.LabelHeight/2, cfg.LabelFontSize),
				Size: cfg.LabelFontSize,
			})
		}
	}

	if b.Label != "" {
		// Lookaround labels get no reserved space; they sit on the top
		// border of the group.
		s.labels = append(s.labels, styles.Label{
			BoxID: b.ID, Class: styles.LabelLookaround, Text: b.Label,
			X: c.X, Y: styles.Baseline(b.Y, cfg.LabelFontSize),
			Size: cfg.LabelFontSize,
		})
	}

	if showIDs && b.Type != railroad.BoxRoot {
		size := cfg.LabelFontSize * 0.75
		s.labels = append(s.labels, styles.Label{
			BoxID: b.ID, Class: styles.LabelID, Text: b.ID,
			X: b.X + b.Width, Y: b.Y - 2, Size: size,
		})
	}
}
