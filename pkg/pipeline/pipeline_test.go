package pipeline

import (
	"reflect"
	"testing"

	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/railroad"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"msgpack", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"handdrawn", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{" svg, PNG ,,svg", []string{"svg", "png"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileExtension(t *testing.T) {
	if got := FileExtension(FormatPNG); got != "png" {
		t.Errorf("FileExtension(png) = %q", got)
	}
	if got := FileExtension(FormatDOT); got != "dot.svg" {
		t.Errorf("FileExtension(dot) = %q", got)
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty pattern", Options{}, false},
		{"pattern", Options{Pattern: "a+b", Flags: "i"}, false},
		{"tree file", Options{TreeFile: "tree.json"}, false},
		{"both sources", Options{Pattern: "a", TreeFile: "tree.json"}, true},
		{"bad flags", Options{Pattern: "a", Flags: "g"}, true},
		{"null byte", Options{Pattern: "a\x00"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForParse()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForParse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.Logger == nil {
				t.Error("ValidateForParse() should set a logger")
			}
		})
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Config == nil || *opts.Config != railroad.DefaultConfig() {
		t.Errorf("Config should be the default, got %+v", opts.Config)
	}
	if opts.Measurer != measure.KindFont {
		t.Errorf("Measurer should be %s, got %s", measure.KindFont, opts.Measurer)
	}
}

func TestValidateForLayout(t *testing.T) {
	opts := Options{Measurer: "proportional"}
	if err := opts.ValidateForLayout(); err == nil {
		t.Error("unknown measurer should fail")
	}

	cfg := railroad.DefaultConfig()
	cfg.NodeMarginH = -1
	opts = Options{Config: &cfg}
	err := opts.ValidateForLayout()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative margin error = %v, want INVALID_CONFIG", err)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Pattern: "a|bc"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalConfig := opts.Config
	originalStyle := opts.Style
	originalFormats := opts.Formats

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Config != originalConfig {
		t.Error("Config changed on second call")
	}
	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
	if !reflect.DeepEqual(opts.Formats, originalFormats) {
		t.Error("Formats changed on second call")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	def := Options{Measurer: measure.KindMono}
	cfg := railroad.DefaultConfig()
	explicit := Options{Measurer: measure.KindMono, Config: &cfg}

	if def.LayoutKeyOpts() != explicit.LayoutKeyOpts() {
		t.Error("nil config should key like the default config")
	}

	wide := railroad.DefaultConfig()
	wide.NodeMarginH = 40
	changed := Options{Measurer: measure.KindMono, Config: &wide}
	if changed.LayoutKeyOpts() == def.LayoutKeyOpts() {
		t.Error("different configs should produce different keys")
	}

	other := Options{Measurer: measure.KindZero}
	if other.LayoutKeyOpts() == def.LayoutKeyOpts() {
		t.Error("different measurers should produce different keys")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: StyleSimple, Scale: 3, Seed: 7}

	if got := opts.ArtifactKeyOpts(FormatSVG); got.Scale != 0 || got.Seed != 0 {
		t.Errorf("svg key should ignore scale and seed: %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 3 {
		t.Errorf("png key should include scale: %+v", got)
	}

	opts.Style = StyleHanddrawn
	if got := opts.ArtifactKeyOpts(FormatSVG); got.Seed != 7 {
		t.Errorf("handdrawn key should include seed: %+v", got)
	}
}

func TestSource(t *testing.T) {
	if got := (&Options{Pattern: "ab"}).Source(); got != "ab" {
		t.Errorf("Source() = %q", got)
	}
	if got := (&Options{TreeFile: "t.yaml"}).Source(); got != "t.yaml" {
		t.Errorf("Source() = %q", got)
	}
}
