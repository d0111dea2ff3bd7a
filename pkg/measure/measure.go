package measure

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/railyard/pkg/errors"
)

// Size is the measured extent of a string.
type Size struct {
	Width  float64
	Height float64
}

// Measurer returns the rendered size of text at a font size in pixels.
// Implementations must be safe for concurrent use.
type Measurer interface {
	Measure(text string, fontSize float64) Size
}

// Func adapts a plain function to [Measurer].
type Func func(text string, fontSize float64) Size

func (f Func) Measure(text string, fontSize float64) Size { return f(text, fontSize) }

// Zero measures every string as 0×0.
type Zero struct{}

func (Zero) Measure(string, float64) Size { return Size{} }

// OrZero returns m, or [Zero] when m is nil or a nil *Font.
func OrZero(m Measurer) Measurer {
	if m == nil {
		return Zero{}
	}
	if f, ok := m.(*Font); ok && f == nil {
		return Zero{}
	}
	return m
}

// DefaultCharWidth is the cell width of [Mono] as a fraction of the font size.
const DefaultCharWidth = 0.6

// Mono measures text as a run of fixed-width cells. East Asian wide runes
// occupy two cells. The height is the font size.
type Mono struct {
	// CharWidth is the width of one cell relative to the font size.
	// Zero means DefaultCharWidth.
	CharWidth float64
}

func (m Mono) Measure(text string, fontSize float64) Size {
	cw := m.CharWidth
	if cw == 0 {
		cw = DefaultCharWidth
	}
	cells := runewidth.StringWidth(text)
	return Size{Width: float64(cells) * cw * fontSize, Height: fontSize}
}

// Measurer names accepted by [ByName].
const (
	KindFont = "font"
	KindMono = "mono"
	KindZero = "zero"
)

// Kinds lists the names accepted by [ByName].
var Kinds = []string{KindFont, KindMono, KindZero}

// ByName returns the measurer registered under name. An empty name selects
// the font measurer.
func ByName(name string) (Measurer, error) {
	switch strings.ToLower(name) {
	case "", KindFont:
		return Default(), nil
	case KindMono:
		return Mono{}, nil
	case KindZero:
		return Zero{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown measurer %q (must be one of %s)", name, strings.Join(Kinds, ", "))
	}
}
