package sink

import "github.com/matzehuels/railyard/pkg/diagram"

// RenderJSON exports the document as indented JSON.
func RenderJSON(doc diagram.Document) ([]byte, error) {
	return diagram.Marshal(doc)
}

// RenderMsgpack exports the document as MessagePack.
func RenderMsgpack(doc diagram.Document) ([]byte, error) {
	return diagram.MarshalMsgpack(doc)
}
