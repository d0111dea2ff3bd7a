package railroad

import "github.com/matzehuels/railyard/pkg/ast"

// Point is a position in diagram coordinates: origin top-left, y down.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// BoxType is the painting category of a box.
type BoxType string

// Box types. Leaves paint as basic boxes and lookarounds as groups.
const (
	BoxRoot   BoxType = "root"
	BoxBasic  BoxType = "basic"
	BoxChoice BoxType = "choice"
	BoxGroup  BoxType = "group"
)

// Box is a positioned node. X, Y, Width and Height describe the content
// box; decorations are painted in the space around it.
type Box struct {
	ID     string  `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Text   string  `json:"text,omitempty" bson:"text,omitempty"`
	Type   BoxType `json:"type" bson:"type"`

	Kind       ast.Kind        `json:"kind" bson:"kind"`
	Name       string          `json:"name,omitempty" bson:"name,omitempty"`
	Label      string          `json:"label,omitempty" bson:"label,omitempty"` // lookaround kind
	Assertion  bool            `json:"assertion,omitempty" bson:"assertion,omitempty"`
	Quantifier *ast.Quantifier `json:"quantifier,omitempty" bson:"quantifier,omitempty"`
}

// Center returns the center of the content box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// ConnectorType describes how a connector joins the path.
type ConnectorType string

// Connector types. Straight is reserved for painters; the engine emits only
// splits and combines.
const (
	Split    ConnectorType = "split"
	Combine  ConnectorType = "combine"
	Straight ConnectorType = "straight"
)

// Connector is a directed segment of the diagram's path.
type Connector struct {
	ID    string        `json:"id" bson:"id"`
	Type  ConnectorType `json:"type" bson:"type"`
	Start Point         `json:"start" bson:"start"`
	End   Point         `json:"end" bson:"end"`
}

// Diagram is the result of a layout. Nodes lists every container before
// the boxes nested inside it, so painting in order draws containers first.
type Diagram struct {
	Width    float64     `json:"width" bson:"width"`
	Height   float64     `json:"height" bson:"height"`
	Nodes    []Box       `json:"nodes" bson:"nodes"`
	Connects []Connector `json:"connects" bson:"connects"`
}

// Box returns the box with the given node ID.
func (d Diagram) Box(id string) (Box, bool) {
	for _, b := range d.Nodes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// Count returns the number of boxes of each type.
func (d Diagram) Count() map[BoxType]int {
	counts := make(map[BoxType]int)
	for _, b := range d.Nodes {
		counts[b.Type]++
	}
	return counts
}
