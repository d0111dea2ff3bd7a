package styles

import "bytes"

// Style defines the visual appearance of a railroad diagram.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, markers, fonts).
	RenderDefs(buf *bytes.Buffer)
	// RenderBox writes the shape of a single box.
	RenderBox(buf *bytes.Buffer, b Box)
	// RenderConnector writes one track segment.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderCurve writes a quantifier skip or repeat curve.
	RenderCurve(buf *bytes.Buffer, c Curve)
	// RenderText writes the text inside a box.
	RenderText(buf *bytes.Buffer, b Box)
	// RenderLabel writes a label painted next to a box.
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Box types, mirroring the layout engine's painting categories.
const (
	BoxRoot   = "root"
	BoxBasic  = "basic"
	BoxChoice = "choice"
	BoxGroup  = "group"
)

// Box contains all data needed to render a single positioned node.
type Box struct {
	ID         string  // Node identifier
	Type       string  // Painting category (BoxRoot, BoxBasic, ...)
	Kind       string  // Node kind (leaf, group, lookaround, ...)
	Text       string  // Display text, empty for containers
	X, Y, W, H float64 // Content box
	CX, CY     float64 // Center coordinates (for text)
	FontSize   float64
	Assertion  bool // Zero-width leaf, painted distinctly
}

// Connector contains positioning data for one track segment.
type Connector struct {
	ID             string
	Type           string // split or combine
	X1, Y1, X2, Y2 float64
}

// Curve is a quantifier path around a box. It leaves the track at
// (X1, BaseY), runs at height Y and rejoins the track at (X2, BaseY).
// Skip curves run above the box, loops below it.
type Curve struct {
	BoxID  string
	Loop   bool
	X1, X2 float64
	BaseY  float64
	Y      float64
}

// Label classes.
const (
	LabelName       = "name"
	LabelQuantifier = "quantifier"
	LabelLookaround = "lookaround"
	LabelID         = "id"
)

// Label is text painted outside a box's content. The text is centered on
// X with its baseline at Y.
type Label struct {
	BoxID string
	Class string
	Text  string
	X, Y  float64
	Size  float64
}
