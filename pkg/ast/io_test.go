package ast

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/railyard/pkg/errors"
)

func sampleTree() Node {
	return Link(
		&Root{Base: Base{ID: "start"}},
		&Leaf{Base: Base{ID: "n1"}, Text: "ab"},
		&Group{
			Base:      Base{ID: "n2", Name: "year", Quantifier: &Quantifier{Min: 2, Max: 4, Text: "2-4 times", Greedy: true}},
			Capturing: true,
			Chain: &Choice{Base: Base{ID: "n3"}, Chains: []Node{
				&Leaf{Base: Base{ID: "n4"}, Text: "x"},
				nil,
			}},
		},
		&Lookaround{Base: Base{ID: "n5"}, Ahead: true, Negate: true, Chain: &Leaf{Base: Base{ID: "n6"}, Text: "$", Assertion: true}},
		&Root{Base: Base{ID: "end"}},
	)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, sampleTree(), format); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}

			want, _ := Marshal(sampleTree())
			have, _ := Marshal(got)
			if !bytes.Equal(want, have) {
				t.Errorf("round trip mismatch:\nwant %s\ngot  %s", want, have)
			}

			g := got.Info().Next.Info().Next.(*Group)
			if g.Name != "year" || !g.Capturing || g.Quantifier.Text != "2-4 times" {
				t.Errorf("group fields lost: %+v", g)
			}
			c := g.Chain.(*Choice)
			if len(c.Chains) != 2 || c.Chains[1] != nil {
				t.Errorf("empty alternative lost: %d chains", len(c.Chains))
			}
		})
	}
}

func TestDecodeValidates(t *testing.T) {
	data := `{"chain": [{"id": "a", "type": "leaf"}, {"id": "a", "type": "leaf"}]}`
	_, err := Unmarshal([]byte(data))
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Fatalf("Unmarshal() error = %v, want DUPLICATE_ID", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   Format
		wantCode errors.Code
	}{
		{"BadJSON", `{"chain": [`, FormatJSON, errors.ErrCodeInvalidTree},
		{"BadYAML", "chain: [unterminated", FormatYAML, errors.ErrCodeInvalidTree},
		{"UnknownType", `{"chain": [{"id": "a", "type": "star"}]}`, FormatJSON, errors.ErrCodeInvalidTree},
		{"EmptyChain", `{"chain": []}`, FormatJSON, errors.ErrCodeInvalidTree},
		{"UnknownFormat", `{}`, Format("toml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.data), tt.format)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tree.json", "tree.yaml", "tree.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(sampleTree(), path); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if n := Count(got); n != Count(sampleTree()) {
				t.Errorf("Count() = %d, want %d", n, Count(sampleTree()))
			}
		})
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestYAMLIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := WriteFile(sampleTree(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"chain:", "type: group", "capturing: true", "text: 2-4 times"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("yaml output missing %q:\n%s", want, data)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":      FormatJSON,
		"a.yaml":      FormatYAML,
		"a.YML":       FormatYAML,
		"noext":       FormatJSON,
		"dir.yaml/x":  FormatJSON,
		"tree.tar.gz": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
