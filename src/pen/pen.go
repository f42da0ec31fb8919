package pen

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

var (
	ErrUnknownColor = errors.New("unknown pen color")
	ErrUnknownWidth = errors.New("unknown pen width")
)

// Mode decides how a pointer click on the overlay is interpreted.
type Mode int

const (
	ModeDraw Mode = iota
	ModeText
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeText:
		return "text"
	default:
		return "unknown"
	}
}

// FontScale converts a pen width into a text size in pixels.
const FontScale = 4

const (
	DefaultColorName = "red"
	DefaultWidth     = 5
)

// Swatch is one entry of the toolbar palette.
type Swatch struct {
	Name  string
	Color color.RGBA
}

// Palette is the fixed toolbar palette, in toolbar order.
var Palette = []Swatch{
	{Name: "red", Color: color.RGBA{R: 0xff, A: 0xff}},
	{Name: "black", Color: color.RGBA{A: 0xff}},
	{Name: "green", Color: color.RGBA{G: 0x80, A: 0xff}},
	{Name: "blue", Color: color.RGBA{B: 0xff, A: 0xff}},
	{Name: "yellow", Color: color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
	{Name: "purple", Color: color.RGBA{R: 0x80, B: 0x80, A: 0xff}},
	{Name: "orange", Color: color.RGBA{R: 0xff, G: 0xa5, A: 0xff}},
}

// Widths is the fixed set of toolbar stroke widths.
var Widths = []int{2, 4, 6, 8, 10}

// ParseColor resolves a palette name (case-insensitive).
func ParseColor(name string) (Swatch, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Palette {
		if s.Name == key {
			return s, nil
		}
	}
	return Swatch{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// ValidWidth reports whether w is offered by the toolbar.
func ValidWidth(w int) bool {
	for _, v := range Widths {
		if v == w {
			return true
		}
	}
	return false
}

// State is the current pen. The zero value is not useful; use NewState.
type State struct {
	swatch Swatch
	width  int
}

// NewState returns the startup pen (red, width 5). The startup width is not
// one of the toolbar widths; it only lasts until the first width click.
func NewState() State {
	s, _ := ParseColor(DefaultColorName)
	return State{swatch: s, width: DefaultWidth}
}

// NewStateWith builds a pen from configured values, falling back to the
// startup defaults for anything invalid.
func NewStateWith(colorName string, width int) State {
	st := NewState()
	if s, err := ParseColor(colorName); err == nil {
		st.swatch = s
	}
	if width > 0 {
		st.width = width
	}
	return st
}

// SetColor switches to the named palette colour.
func (s *State) SetColor(name string) error {
	sw, err := ParseColor(name)
	if err != nil {
		return err
	}
	s.swatch = sw
	return nil
}

// SetWidth switches to one of the toolbar widths.
func (s *State) SetWidth(w int) error {
	if !ValidWidth(w) {
		return fmt.Errorf("%w: %d", ErrUnknownWidth, w)
	}
	s.width = w
	return nil
}

// ColorName is the palette name of the current colour.
func (s State) ColorName() string { return s.swatch.Name }

// Color is the current stroke and text colour.
func (s State) Color() color.RGBA { return s.swatch.Color }

// Width is the stroke width in pixels.
func (s State) Width() int { return s.width }

// FontSize is the text size in pixels for the current width.
func (s State) FontSize() int { return s.width * FontScale }

// String formats the pen as "color/width" for logs.
func (s State) String() string { return fmt.Sprintf("%s/%d", s.swatch.Name, s.width) }
