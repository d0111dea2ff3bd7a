// Package handdrawn provides a sketchy, hand-drawn visual style.
//
// Boxes are drawn as slightly wobbly outlines filled with per-node greys,
// track segments and quantifier curves get jittered control points, and
// text is set in a handwriting font with a small tilt.
//
// # Reproducible Randomness
//
// All jitter comes from a seeded generator mixed with the element's ID:
//
//	style := handdrawn.New(42)  // Same seed = same wobble pattern
//
// The same diagram rendered twice with the same seed is byte-identical,
// which keeps rendered artifacts cacheable.
package handdrawn
