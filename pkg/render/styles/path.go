package styles

import "fmt"

// ConnectorPath returns the SVG path of a track segment. Level segments are
// straight; segments that change height bend with a horizontal S-curve.
func ConnectorPath(c Connector) string {
	if c.Y1 == c.Y2 {
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f", c.X1, c.Y1, c.X2, c.Y2)
	}
	mx := (c.X1 + c.X2) / 2
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		c.X1, c.Y1, mx, c.Y1, mx, c.Y2, c.X2, c.Y2)
}

// CurvePath returns the SVG path of a quantifier curve with rounded
// corners. The corner radius shrinks to fit narrow boxes and shallow
// curves.
func CurvePath(c Curve) string {
	depth := c.Y - c.BaseY
	if depth < 0 {
		depth = -depth
	}
	r := min(depth, (c.X2-c.X1)/2)
	if r < 0 {
		r = 0
	}
	return fmt.Sprintf("M %.2f %.2f Q %.2f %.2f, %.2f %.2f L %.2f %.2f Q %.2f %.2f, %.2f %.2f",
		c.X1, c.BaseY,
		c.X1, c.Y, c.X1+r, c.Y,
		c.X2-r, c.Y,
		c.X2, c.Y, c.X2, c.BaseY)
}
