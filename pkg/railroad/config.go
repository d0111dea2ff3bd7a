package railroad

import (
	"math"

	"github.com/matzehuels/railyard/pkg/errors"
)

// Config holds the geometric constants of a layout. All values are in
// pixels. The zero value is not useful; start from [DefaultConfig].
type Config struct {
	ChartPaddingH float64 `json:"chart_padding_h" toml:"chart_padding_h"`
	ChartPaddingV float64 `json:"chart_padding_v" toml:"chart_padding_v"`

	NodePaddingH float64 `json:"node_padding_h" toml:"node_padding_h"`
	NodePaddingV float64 `json:"node_padding_v" toml:"node_padding_v"`
	NodeMarginH  float64 `json:"node_margin_h" toml:"node_margin_h"`

	BranchMargin   float64 `json:"branch_margin" toml:"branch_margin"`
	ChoicePaddingH float64 `json:"choice_padding_h" toml:"choice_padding_h"`
	GroupPaddingV  float64 `json:"group_padding_v" toml:"group_padding_v"`
	RootPadding    float64 `json:"root_padding" toml:"root_padding"`

	QuantifierHeight float64 `json:"quantifier_height" toml:"quantifier_height"`
	LabelHeight      float64 `json:"label_height" toml:"label_height"`
	LabelPaddingH    float64 `json:"label_padding_h" toml:"label_padding_h"`

	FontSize      float64 `json:"font_size" toml:"font_size"`
	LabelFontSize float64 `json:"label_font_size" toml:"label_font_size"`
}

// DefaultConfig returns the standard layout constants.
func DefaultConfig() Config {
	return Config{
		ChartPaddingH:    20,
		ChartPaddingV:    20,
		NodePaddingH:     5,
		NodePaddingV:     3,
		NodeMarginH:      20,
		BranchMargin:     5,
		ChoicePaddingH:   10,
		GroupPaddingV:    5,
		RootPadding:      5,
		QuantifierHeight: 8,
		LabelHeight:      20,
		LabelPaddingH:    3,
		FontSize:         16,
		LabelFontSize:    12,
	}
}

// Validate rejects negative or non-finite values and non-positive font sizes.
func (c Config) Validate() error {
	for _, f := range c.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite", f.name)
		}
		if f.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative (got %g)", f.name, f.value)
		}
	}
	if c.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive")
	}
	if c.LabelFontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "label_font_size must be positive")
	}
	return nil
}

type field struct {
	name  string
	value float64
}

func (c Config) fields() []field {
	return []field{
		{"chart_padding_h", c.ChartPaddingH},
		{"chart_padding_v", c.ChartPaddingV},
		{"node_padding_h", c.NodePaddingH},
		{"node_padding_v", c.NodePaddingV},
		{"node_margin_h", c.NodeMarginH},
		{"branch_margin", c.BranchMargin},
		{"choice_padding_h", c.ChoicePaddingH},
		{"group_padding_v", c.GroupPaddingV},
		{"root_padding", c.RootPadding},
		{"quantifier_height", c.QuantifierHeight},
		{"label_height", c.LabelHeight},
		{"label_padding_h", c.LabelPaddingH},
		{"font_size", c.FontSize},
		{"label_font_size", c.LabelFontSize},
	}
}
