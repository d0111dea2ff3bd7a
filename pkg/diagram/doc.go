// Package diagram provides the serialized form of a computed railroad layout.
//
// A [Document] pairs a [railroad.Diagram] with the inputs that produced it:
// the source pattern and flags (when the tree came from a regular
// expression), the layout constants and the measurer. Keeping the constants
// next to the geometry lets renderers paint decorations in the space the
// engine reserved for them without recomputing the layout.
//
// # Encodings
//
// Documents are stored as indented JSON (the default) or MessagePack:
//
//	data, err := diagram.Marshal(doc)             // JSON
//	data, err := diagram.MarshalMsgpack(doc)      // MessagePack
//	doc, err := diagram.ReadFile("regex.msgpack") // chosen by extension
//
// Both encodings use the same field names, so a document converted from one
// to the other decodes to an identical value.
package diagram
