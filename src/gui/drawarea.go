package gui

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PointerHandler receives pointer input in image pixel coordinates.
type PointerHandler interface {
	PointerPress(p image.Point)
	PointerDrag(p image.Point) bool
	PointerRelease()
}

// drawArea shows the canvas image stretched over the window and turns
// primary-button input into pointer events.
type drawArea struct {
	widget.BaseWidget

	raster  *canvas.Image
	handler PointerHandler
	pressed bool
}

var (
	_ desktop.Mouseable  = (*drawArea)(nil)
	_ desktop.Cursorable = (*drawArea)(nil)
	_ fyne.Draggable     = (*drawArea)(nil)
)

func newDrawArea() *drawArea {
	d := &drawArea{raster: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))}
	d.raster.FillMode = canvas.ImageFillStretch
	d.raster.ScaleMode = canvas.ImageScaleFastest
	d.ExtendBaseWidget(d)
	return d
}

func (d *drawArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.raster)
}

func (d *drawArea) setImage(img *image.RGBA) {
	d.raster.Image = img
	d.raster.Refresh()
}

func (d *drawArea) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

// toPixel maps a widget position to a pixel of the displayed image. The
// image is stretched over the widget, so the factor is per axis.
func (d *drawArea) toPixel(pos fyne.Position) image.Point {
	size := d.Size()
	b := d.raster.Image.Bounds()
	if size.Width <= 0 || size.Height <= 0 || b.Empty() {
		return image.Pt(int(pos.X), int(pos.Y))
	}
	sx := float64(b.Dx()) / float64(size.Width)
	sy := float64(b.Dy()) / float64(size.Height)
	return image.Pt(
		b.Min.X+int(math.Floor(float64(pos.X)*sx)),
		b.Min.Y+int(math.Floor(float64(pos.Y)*sy)),
	)
}

func (d *drawArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || d.handler == nil {
		return
	}
	d.pressed = true
	p := d.toPixel(ev.Position)
	d.handler.PointerPress(p)
	// The press point is the stroke's first sample; fyne only reports drags
	// once the pointer has moved.
	d.handler.PointerDrag(p)
}

func (d *drawArea) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	d.release()
}

func (d *drawArea) Dragged(ev *fyne.DragEvent) {
	if d.handler == nil {
		return
	}
	d.handler.PointerDrag(d.toPixel(ev.Position))
}

func (d *drawArea) DragEnd() { d.release() }

func (d *drawArea) release() {
	if !d.pressed || d.handler == nil {
		d.pressed = false
		return
	}
	d.pressed = false
	d.handler.PointerRelease()
}
