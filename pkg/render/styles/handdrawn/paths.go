package handdrawn

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/railyard/pkg/render/styles"
)

const (
	wobble      = 1.2 // max corner displacement in pixels
	maxRotation = 2.0 // max text tilt in degrees
)

// wobbledRect returns a closed path close to the rectangle x, y, w, h
// whose corners and edge midpoints are displaced by a few pixels.
func wobbledRect(x, y, w, h float64, seed uint64, id string) string {
	r := newRNG(hash(id, seed))
	amt := min(wobble, w/6, h/6)
	j := func() float64 { return r.jitter(amt) }

	corners := [4][2]float64{
		{x + j(), y + j()},
		{x + w + j(), y + j()},
		{x + w + j(), y + h + j()},
		{x + j(), y + h + j()},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f", corners[0][0], corners[0][1])
	for i := 1; i <= 4; i++ {
		from, to := corners[i-1], corners[i%4]
		mx := (from[0]+to[0])/2 + j()
		my := (from[1]+to[1])/2 + j()
		fmt.Fprintf(&b, " Q %.2f %.2f, %.2f %.2f", mx, my, to[0], to[1])
	}
	b.WriteString(" Z")
	return b.String()
}

// wobbledConnector jitters the control points of a track segment. Very
// short segments stay straight.
func wobbledConnector(c styles.Connector, seed uint64) string {
	r := newRNG(hash(c.ID, seed))
	if math.Hypot(c.X2-c.X1, c.Y2-c.Y1) < 8 {
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f", c.X1, c.Y1, c.X2, c.Y2)
	}
	mx := (c.X1 + c.X2) / 2
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		c.X1, c.Y1,
		mx+r.jitter(wobble), c.Y1+r.jitter(wobble),
		mx+r.jitter(wobble), c.Y2+r.jitter(wobble),
		c.X2, c.Y2)
}

// wobbledCurve jitters the run of a quantifier curve.
func wobbledCurve(c styles.Curve, seed uint64) string {
	r := newRNG(hash(c.BoxID, seed))
	if c.Loop {
		r.next()
	}
	shifted := c
	shifted.Y += r.jitter(wobble / 2)
	return styles.CurvePath(shifted)
}

// rotationFor returns a small, stable tilt in degrees for text in a box.
// Wide boxes tilt less.
func rotationFor(id string, w, h float64) float64 {
	r := newRNG(hash(id, 7))
	damp := 1.0
	if w > 4*h && h > 0 {
		damp = 0.5
	}
	return r.jitter(maxRotation) * damp
}
