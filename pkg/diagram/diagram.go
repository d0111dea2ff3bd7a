package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// Version is the document format version written by this package.
const Version = 1

// Document is the unified serialization format for a laid out diagram.
type Document struct {
	Version int `json:"version" bson:"version"`

	// Source of the tree. Empty when the tree was loaded from a file.
	Pattern string `json:"pattern,omitempty" bson:"pattern,omitempty"`
	Flags   string `json:"flags,omitempty" bson:"flags,omitempty"`

	// Layout inputs
	Measurer string          `json:"measurer,omitempty" bson:"measurer,omitempty"`
	Config   railroad.Config `json:"config" bson:"config"`

	Diagram railroad.Diagram `json:"diagram" bson:"diagram"`
}

// New wraps a diagram computed with cfg.
func New(d railroad.Diagram, cfg railroad.Config) Document {
	return Document{Version: Version, Config: cfg, Diagram: d}
}

// Validate checks that the document can be rendered: a known version,
// valid constants, non-negative geometry and unique box IDs.
func (d Document) Validate() error {
	if d.Version != Version {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram version %d", d.Version)
	}
	if err := d.Config.Validate(); err != nil {
		return err
	}
	if d.Diagram.Width < 0 || d.Diagram.Height < 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "diagram has negative size %gx%g", d.Diagram.Width, d.Diagram.Height)
	}
	seen := make(map[string]bool, len(d.Diagram.Nodes))
	for _, b := range d.Diagram.Nodes {
		if b.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "box without id")
		}
		if seen[b.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "box %q appears more than once", b.ID)
		}
		if b.Width < 0 || b.Height < 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "box %q has negative size", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Document to pretty-printed JSON bytes.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal deserializes and validates JSON bytes.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal diagram")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// MarshalMsgpack serializes a Document to MessagePack. Field names match the
// JSON encoding.
func MarshalMsgpack(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("marshal msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack deserializes and validates MessagePack bytes.
func UnmarshalMsgpack(data []byte) (Document, error) {
	var d Document
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal msgpack")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// IsMsgpackPath reports whether path names a MessagePack file (.msgpack or
// .mpk).
func IsMsgpackPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return true
	}
	return false
}

// WriteFile writes a Document to path, choosing the encoding from the
// extension.
func WriteFile(d Document, path string) error {
	var (
		data []byte
		err  error
	)
	if IsMsgpackPath(path) {
		data, err = MarshalMsgpack(d)
	} else {
		data, err = Marshal(d)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Document from path, choosing the encoding from the
// extension.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	if IsMsgpackPath(path) {
		return UnmarshalMsgpack(data)
	}
	return Unmarshal(data)
}
