package measure

import (
	"math"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/railyard/pkg/errors"
)

func TestZero(t *testing.T) {
	if got := (Zero{}).Measure("hello", 16); got != (Size{}) {
		t.Errorf("Zero.Measure() = %+v, want zero", got)
	}
	if got := OrZero(nil).Measure("hello", 16); got != (Size{}) {
		t.Errorf("OrZero(nil).Measure() = %+v, want zero", got)
	}
	m := Mono{}
	if got := OrZero(m); got != m {
		t.Errorf("OrZero(m) = %v, want m", got)
	}
}

func TestMono(t *testing.T) {
	tests := []struct {
		name string
		m    Mono
		text string
		size float64
		want Size
	}{
		{"Empty", Mono{}, "", 16, Size{0, 16}},
		{"ASCII", Mono{CharWidth: 0.5}, "abcd", 10, Size{20, 10}},
		{"DefaultWidth", Mono{}, "ab", 10, Size{12, 10}},
		{"Wide", Mono{CharWidth: 0.5}, "日本", 10, Size{20, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Measure(tt.text, tt.size)
			if math.Abs(got.Width-tt.want.Width) > 1e-9 || got.Height != tt.want.Height {
				t.Errorf("Measure(%q, %v) = %+v, want %+v", tt.text, tt.size, got, tt.want)
			}
		})
	}
}

func TestFunc(t *testing.T) {
	m := Func(func(text string, size float64) Size {
		return Size{Width: float64(len(text)), Height: size}
	})
	if got := m.Measure("abc", 12); got != (Size{3, 12}) {
		t.Errorf("Func.Measure() = %+v", got)
	}
}

func TestFont(t *testing.T) {
	f := Default()

	if got := f.Measure("", 16); got.Width != 0 || got.Height != 16 {
		t.Errorf("Measure(\"\") = %+v, want {0 16}", got)
	}
	if got := f.Measure("a", 0); got != (Size{}) {
		t.Errorf("Measure at size 0 = %+v, want zero", got)
	}

	a := f.Measure("a", 16)
	ab := f.Measure("ab", 16)
	if a.Width <= 0 {
		t.Fatalf("Measure(\"a\").Width = %v, want > 0", a.Width)
	}
	if ab.Width <= a.Width {
		t.Errorf("Measure(\"ab\").Width = %v, want > %v", ab.Width, a.Width)
	}
	if a.Height != 16 {
		t.Errorf("Height = %v, want 16", a.Height)
	}

	big := f.Measure("abc", 32)
	small := f.Measure("abc", 16)
	if math.Abs(big.Width-2*small.Width) > 1 {
		t.Errorf("width at 32 = %v, want about twice %v", big.Width, small.Width)
	}

	if Default() != f {
		t.Error("Default() returned a different instance")
	}
}

func TestFontConcurrent(t *testing.T) {
	f := Default()
	want := f.Measure("concurrent", 14)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := f.Measure("concurrent", 14); got != want {
					t.Errorf("Measure() = %+v, want %+v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewFontInvalid(t *testing.T) {
	if _, err := NewFont([]byte("not a font")); err == nil {
		t.Error("NewFont() error = nil, want error")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "font", "MONO", "zero"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("canvas"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ByName(canvas) error = %v, want INVALID_INPUT", err)
	}
}

func TestFontFaceCacheBounded(t *testing.T) {
	f, err := NewFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	want := f.Measure("abc", 16)

	for i := 0; i < 5*maxFaces; i++ {
		f.Measure("abc", 10+float64(i)/4)
		if n := len(f.faces); n > maxFaces {
			t.Fatalf("after %d sizes the cache holds %d faces, want at most %d", i+1, n, maxFaces)
		}
	}
	if got := f.Measure("abc", 16); got != want {
		t.Errorf("Measure() after eviction = %+v, want %+v", got, want)
	}
}

func TestNilFont(t *testing.T) {
	var f *Font
	if got := f.Measure("abc", 16); got != (Size{}) {
		t.Errorf("nil Font Measure() = %+v, want zero", got)
	}

	var m Measurer = f
	if _, ok := OrZero(m).(Zero); !ok {
		t.Errorf("OrZero(nil *Font) = %T, want Zero", OrZero(m))
	}
}
