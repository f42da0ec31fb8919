package pen

import (
	"errors"
	"testing"
)

func TestNewStateDefaults(t *testing.T) {
	st := NewState()
	if st.ColorName() != "red" {
		t.Errorf("Expected default color red, got %s", st.ColorName())
	}
	if st.Width() != 5 {
		t.Errorf("Expected default width 5, got %d", st.Width())
	}
	if st.FontSize() != 20 {
		t.Errorf("Expected font size 20, got %d", st.FontSize())
	}
}

func TestPaletteAndWidths(t *testing.T) {
	if len(Palette) != 7 {
		t.Fatalf("Expected 7 palette colors, got %d", len(Palette))
	}
	if len(Widths) != 5 {
		t.Fatalf("Expected 5 widths, got %d", len(Widths))
	}
	for i, w := range Widths {
		if w != (i+1)*2 {
			t.Errorf("Widths[%d] = %d, expected %d", i, w, (i+1)*2)
		}
	}
}

func TestSetColor(t *testing.T) {
	for _, sw := range Palette {
		t.Run(sw.Name, func(t *testing.T) {
			st := NewState()
			if err := st.SetColor(sw.Name); err != nil {
				t.Fatalf("SetColor(%q) failed: %v", sw.Name, err)
			}
			if st.Color() != sw.Color {
				t.Errorf("Expected color %v, got %v", sw.Color, st.Color())
			}
		})
	}

	st := NewState()
	if err := st.SetColor("magenta"); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("Expected ErrUnknownColor, got %v", err)
	}
	if st.ColorName() != "red" {
		t.Errorf("Rejected color must not change the pen, got %s", st.ColorName())
	}
}

func TestSetWidth(t *testing.T) {
	st := NewState()
	for _, w := range Widths {
		if err := st.SetWidth(w); err != nil {
			t.Fatalf("SetWidth(%d) failed: %v", w, err)
		}
		if st.Width() != w || st.FontSize() != w*FontScale {
			t.Errorf("Expected width %d font %d, got %d font %d", w, w*FontScale, st.Width(), st.FontSize())
		}
	}
	if err := st.SetWidth(3); !errors.Is(err, ErrUnknownWidth) {
		t.Errorf("Expected ErrUnknownWidth, got %v", err)
	}
	if st.Width() != 10 {
		t.Errorf("Rejected width must not change the pen, got %d", st.Width())
	}
}

func TestNewStateWithFallsBack(t *testing.T) {
	st := NewStateWith("Blue", 8)
	if st.ColorName() != "blue" || st.Width() != 8 {
		t.Errorf("Expected blue/8, got %s", st)
	}
	st = NewStateWith("nope", 0)
	if st.ColorName() != DefaultColorName || st.Width() != DefaultWidth {
		t.Errorf("Expected defaults, got %s", st)
	}
}

func TestModeString(t *testing.T) {
	if ModeDraw.String() != "draw" || ModeText.String() != "text" {
		t.Errorf("Unexpected mode names: %s %s", ModeDraw, ModeText)
	}
}
