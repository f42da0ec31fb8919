package annotate

import (
	"image"
	"image/color"
)

// OpKind identifies a drawing command.
type OpKind int

const (
	OpSegment OpKind = iota // one straight piece of a freehand stroke
	OpText                  // a text annotation centred on From
)

func (k OpKind) String() string {
	switch k {
	case OpSegment:
		return "segment"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Op is a single drawing command applied on top of the snapshot.
type Op struct {
	Kind     OpKind
	From     image.Point
	To       image.Point // segments only
	Text     string      // text only
	Color    color.RGBA
	Width    int
	FontSize int // text only
}

// Bounds returns the area the op may touch, padded by the stroke width.
func (o Op) Bounds() image.Rectangle {
	switch o.Kind {
	case OpSegment:
		pad := o.Width/2 + 2
		r := image.Rectangle{Min: o.From, Max: o.To}.Canon()
		return image.Rect(r.Min.X-pad, r.Min.Y-pad, r.Max.X+pad+1, r.Max.Y+pad+1)
	case OpText:
		// Generous box; only used for damage estimates.
		half := o.FontSize * (len([]rune(o.Text)) + 1)
		return image.Rect(o.From.X-half, o.From.Y-o.FontSize, o.From.X+half, o.From.Y+o.FontSize)
	default:
		return image.Rectangle{}
	}
}
