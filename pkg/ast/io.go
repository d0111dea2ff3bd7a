package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/railyard/pkg/errors"
)

// Format is a tree file encoding.
type Format string

// Supported tree encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks an encoding from a file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the serialized form of a tree. Chains are stored as arrays
// rather than as nested Next links.
type document struct {
	Chain []wireNode `json:"chain" yaml:"chain"`
}

type wireNode struct {
	ID         string       `json:"id" yaml:"id"`
	Type       Kind         `json:"type" yaml:"type"`
	Text       string       `json:"text,omitempty" yaml:"text,omitempty"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	Quantifier *Quantifier  `json:"quantifier,omitempty" yaml:"quantifier,omitempty"`
	Assertion  bool         `json:"assertion,omitempty" yaml:"assertion,omitempty"`
	Capturing  bool         `json:"capturing,omitempty" yaml:"capturing,omitempty"`
	Ahead      bool         `json:"ahead,omitempty" yaml:"ahead,omitempty"`
	Negate     bool         `json:"negate,omitempty" yaml:"negate,omitempty"`
	Chain      []wireNode   `json:"chain,omitempty" yaml:"chain,omitempty"`
	Chains     [][]wireNode `json:"chains,omitempty" yaml:"chains,omitempty"`
}

// Marshal encodes a tree as indented JSON. Output is deterministic.
func Marshal(root Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON tree and validates it.
func Unmarshal(data []byte) (Node, error) {
	return Decode(bytes.NewReader(data), FormatJSON)
}

// Encode writes root to w in the given format.
func Encode(w io.Writer, root Node, format Format) error {
	doc := document{Chain: toWire(root)}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}
}

// Decode reads a tree in the given format from r and validates it with
// [Validate].
func Decode(r io.Reader, format Format) (Node, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}

	root, err := fromWire(doc.Chain)
	if err != nil {
		return nil, err
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// ReadFile reads and validates a tree file, choosing the format from its
// extension.
func ReadFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatForPath(path))
}

// WriteFile writes a tree file, choosing the format from its extension.
func WriteFile(root Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, root, FormatForPath(path))
}

func toWire(head Node) []wireNode {
	var out []wireNode
	for cur := head; cur != nil; cur = cur.Info().Next {
		info := cur.Info()
		w := wireNode{ID: info.ID, Type: cur.Kind(), Name: info.Name, Quantifier: info.Quantifier}
		switch v := cur.(type) {
		case *Root:
			w.Text = v.Text
		case *Leaf:
			w.Text = v.Text
			w.Assertion = v.Assertion
		case *Choice:
			w.Chains = make([][]wireNode, len(v.Chains))
			for i, c := range v.Chains {
				w.Chains[i] = toWire(c)
			}
		case *Group:
			w.Capturing = v.Capturing
			w.Chain = toWire(v.Chain)
		case *Lookaround:
			w.Ahead = v.Ahead
			w.Negate = v.Negate
			w.Chain = toWire(v.Chain)
		default:
			panic(unknownVariant(cur))
		}
		out = append(out, w)
	}
	return out
}

func fromWire(chain []wireNode) (Node, error) {
	nodes := make([]Node, 0, len(chain))
	for _, w := range chain {
		n, err := fromWireNode(w)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return Link(nodes...), nil
}

func fromWireNode(w wireNode) (Node, error) {
	base := Base{ID: w.ID, Name: w.Name, Quantifier: w.Quantifier}
	switch w.Type {
	case KindRoot:
		return &Root{Base: base, Text: w.Text}, nil
	case KindLeaf:
		return &Leaf{Base: base, Text: w.Text, Assertion: w.Assertion}, nil
	case KindChoice:
		c := &Choice{Base: base, Chains: make([]Node, len(w.Chains))}
		for i, alt := range w.Chains {
			head, err := fromWire(alt)
			if err != nil {
				return nil, err
			}
			c.Chains[i] = head
		}
		return c, nil
	case KindGroup:
		head, err := fromWire(w.Chain)
		if err != nil {
			return nil, err
		}
		return &Group{Base: base, Chain: head, Capturing: w.Capturing}, nil
	case KindLookaround:
		head, err := fromWire(w.Chain)
		if err != nil {
			return nil, err
		}
		return &Lookaround{Base: base, Chain: head, Ahead: w.Ahead, Negate: w.Negate}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidTree, "node %q has unknown type %q", w.ID, w.Type)
	}
}

// Link sets the Next field of each node to its successor and returns the
// head of the resulting chain, or nil when nodes is empty.
func Link(nodes ...Node) Node {
	if len(nodes) == 0 {
		return nil
	}
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].Info().Next = nodes[i+1]
	}
	nodes[len(nodes)-1].Info().Next = nil
	return nodes[0]
}
