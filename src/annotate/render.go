package annotate

import (
	"image"
	"strings"
	"sync"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// drawSegment strokes op with round caps. The rasterizer only covers the
// segment's bounding box, so it draws into that sub-image of dst: the
// scanner always walks its whole destination.
func drawSegment(dst *image.RGBA, op Op) {
	box := op.Bounds().Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	w, h := box.Dx(), box.Dy()
	width := op.Width
	if width < 1 {
		width = 1
	}

	sub := dst.SubImage(box).(*image.RGBA)
	scanner := rasterx.NewScannerGV(w, h, sub, sub.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	dasher.SetColor(op.Color)
	dasher.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)

	ox := float64(box.Min.X) - 0.5
	oy := float64(box.Min.Y) - 0.5
	from := rasterx.ToFixedP(float64(op.From.X)-ox, float64(op.From.Y)-oy)
	to := rasterx.ToFixedP(float64(op.To.X)-ox, float64(op.To.Y)-oy)
	if from == to {
		// A zero-length path has no direction to cap; nudge it so a dot shows.
		to.X += 1
	}
	dasher.Start(from)
	dasher.Line(to)
	dasher.Stop(false)
	dasher.Draw()
}

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error

	facesMu sync.Mutex
	faces   = map[int]font.Face{}
)

func faceFor(size int) (font.Face, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	if size < 1 {
		size = 1
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(goFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	faces[size] = f
	return f, nil
}

// drawText renders op.Text centred on op.From, one line per '\n'.
func drawText(dst *image.RGBA, op Op) error {
	if op.Text == "" {
		return nil
	}
	face, err := faceFor(op.FontSize)
	if err != nil {
		return err
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(op.Color), Face: face}
	m := face.Metrics()
	lines := strings.Split(op.Text, "\n")
	lineH := m.Height
	top := fixed.I(op.From.Y) - lineH*fixed.Int26_6(len(lines))/2
	for i, line := range lines {
		adv := d.MeasureString(line)
		d.Dot = fixed.Point26_6{
			X: fixed.I(op.From.X) - adv/2,
			Y: top + lineH*fixed.Int26_6(i) + m.Ascent,
		}
		d.DrawString(line)
	}
	return nil
}
