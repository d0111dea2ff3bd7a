package measure

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// maxFaces bounds the per-size face cache of a Font. Callers of a shared
// Font may ask for arbitrary sizes.
const maxFaces = 16

// Font measures text with the glyph advances of an OpenType font. Faces are
// created lazily per font size and reused, up to maxFaces sizes.
type Font struct {
	font *opentype.Font

	mu    sync.Mutex // font.Face values are not safe for concurrent use
	faces map[float64]font.Face
}

// NewFont parses a TrueType or OpenType font file.
func NewFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{font: f, faces: make(map[float64]font.Face)}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *Font
)

// Default returns a shared measurer for the Go Regular font.
func Default() *Font {
	defaultOnce.Do(func() {
		f, err := NewFont(goregular.TTF)
		if err != nil {
			panic(err) // embedded font always parses
		}
		defaultFont = f
	})
	return defaultFont
}

// Measure returns the advance width of text and a height equal to fontSize.
// Non-positive font sizes and a nil Font measure as zero.
func (f *Font) Measure(text string, fontSize float64) Size {
	if f == nil || fontSize <= 0 {
		return Size{}
	}
	if text == "" {
		return Size{Height: fontSize}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(fontSize)
	if err != nil {
		return Size{}
	}
	adv := font.MeasureString(face, text)
	return Size{Width: float64(adv) / 64, Height: fontSize}
}

// Face returns a new font face for a size, for renderers that draw with
// the same metrics the layout was computed with. The face is not shared
// with Measure; it must not be used by more than one goroutine at a time.
func (f *Font) Face(fontSize float64) (font.Face, error) {
	return opentype.NewFace(f.font, faceOptions(fontSize))
}

func faceOptions(size float64) *opentype.FaceOptions {
	return &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone}
}

func (f *Font) face(size float64) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, faceOptions(size))
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	if len(f.faces) >= maxFaces {
		for k, old := range f.faces {
			old.Close()
			delete(f.faces, k)
		}
	}
	f.faces[size] = face
	return face, nil
}
