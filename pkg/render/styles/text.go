package styles

import (
	"bytes"
	"encoding/xml"
)

// EscapeXML escapes text for use in SVG content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Baseline returns the baseline y for text of the given size vertically
// centered on cy.
func Baseline(cy, fontSize float64) float64 {
	return cy + fontSize*0.35
}
