package annotate

import (
	"fmt"
	"image"
	"image/draw"

	"draw-on-screen/src/pen"
)

// Canvas is the composited drawing surface: a private copy of the snapshot
// with every op applied in order. The snapshot itself is never written to.
type Canvas struct {
	snapshot *image.RGBA
	img      *image.RGBA
	ops      []Op
}

// NewCanvas starts a canvas over snapshot. A nil snapshot yields an empty
// canvas that ignores drawing until Replace is called.
func NewCanvas(snapshot *image.RGBA) *Canvas {
	c := &Canvas{}
	c.Replace(snapshot)
	return c
}

// Replace installs a new snapshot and drops all ops.
func (c *Canvas) Replace(snapshot *image.RGBA) {
	if snapshot == nil {
		snapshot = image.NewRGBA(image.Rectangle{})
	}
	c.snapshot = snapshot
	c.Clear()
}

// Clear discards every op and redraws only the snapshot.
func (c *Canvas) Clear() {
	c.img = cloneRGBA(c.snapshot)
	c.ops = c.ops[:0]
}

func (c *Canvas) Image() *image.RGBA    { return c.img }
func (c *Canvas) Snapshot() *image.RGBA { return c.snapshot }
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Ops returns a copy of the op log since the last Clear/Replace.
func (c *Canvas) Ops() []Op {
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// Segment draws one stroke segment with the given pen.
func (c *Canvas) Segment(from, to image.Point, p pen.State) Op {
	op := Op{Kind: OpSegment, From: from, To: to, Color: p.Color(), Width: p.Width()}
	drawSegment(c.img, op)
	c.ops = append(c.ops, op)
	return op
}

// Text draws s centred on at, sized from the pen width.
func (c *Canvas) Text(at image.Point, s string, p pen.State) (Op, error) {
	op := Op{Kind: OpText, From: at, Text: s, Color: p.Color(), Width: p.Width(), FontSize: p.FontSize()}
	if err := drawText(c.img, op); err != nil {
		return Op{}, err
	}
	c.ops = append(c.ops, op)
	return op, nil
}

// Apply replays a recorded op onto the canvas.
func (c *Canvas) Apply(op Op) error {
	switch op.Kind {
	case OpSegment:
		drawSegment(c.img, op)
	case OpText:
		if err := drawText(c.img, op); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}
	c.ops = append(c.ops, op)
	return nil
}

// Render replays ops over a copy of snapshot.
func Render(snapshot *image.RGBA, ops []Op) (*image.RGBA, error) {
	c := NewCanvas(snapshot)
	for i, op := range ops {
		if err := c.Apply(op); err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return c.Image(), nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
