// Package measure provides text measurement for diagram layout.
//
// The layout engine never measures text itself. It asks a [Measurer] for
// the rendered width and nominal height of each label at a font size:
//
//   - [Font] measures glyph advances of a TrueType/OpenType font. [Default]
//     returns one backed by the Go Regular font, which is also the font the
//     PNG renderer draws with.
//   - [Mono] approximates widths by counting terminal cells, which is stable
//     across platforms and useful for tests and text-only output.
//   - [Zero] measures everything as empty.
//
// A missing measurer must not fail a layout; [OrZero] turns nil into [Zero].
package measure
