package gui

import (
	"errors"
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

type pointerLog struct {
	presses  []image.Point
	drags    []image.Point
	releases int
}

func (p *pointerLog) PointerPress(pt image.Point) { p.presses = append(p.presses, pt) }
func (p *pointerLog) PointerDrag(pt image.Point) bool {
	p.drags = append(p.drags, pt)
	return len(p.drags) > 1
}
func (p *pointerLog) PointerRelease() { p.releases++ }

type actionLog struct {
	color string
	width int
	mode  string
}

func (a *actionLog) SetPenColor(name string) error { a.color = name; return nil }
func (a *actionLog) SetPenWidth(w int) error       { a.width = w; return nil }
func (a *actionLog) EnableDrawMode()               { a.mode = "draw" }
func (a *actionLog) EnableTextMode()               { a.mode = "text" }

func newTestGUI(t *testing.T) *GUI {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return newGUI(a)
}

func primary(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func TestToPixelScalesToImage(t *testing.T) {
	g := newTestGUI(t)
	g.Present(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	g.area.Resize(fyne.NewSize(100, 50))

	got := g.area.toPixel(fyne.NewPos(10, 25))
	if got != image.Pt(20, 50) {
		t.Errorf("Expected (20,50), got %v", got)
	}
}

func TestPointerEventsForwarded(t *testing.T) {
	g := newTestGUI(t)
	h := &pointerLog{}
	g.Bind(h, &actionLog{})
	g.Present(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	g.area.Resize(fyne.NewSize(100, 100))

	g.area.MouseDown(primary(5, 5))
	g.area.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)}})
	g.area.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 15)}})
	g.area.DragEnd()
	g.area.MouseUp(primary(20, 15))

	if len(h.presses) != 1 || h.presses[0] != image.Pt(5, 5) {
		t.Errorf("Unexpected presses %v", h.presses)
	}
	want := []image.Point{{5, 5}, {10, 10}, {20, 15}}
	if len(h.drags) != len(want) {
		t.Fatalf("Expected drags %v, got %v", want, h.drags)
	}
	for i := range want {
		if h.drags[i] != want[i] {
			t.Errorf("drag[%d] = %v, expected %v", i, h.drags[i], want[i])
		}
	}
	if h.releases != 1 {
		t.Errorf("Expected one release, got %d", h.releases)
	}
}

func TestSecondaryButtonIgnored(t *testing.T) {
	g := newTestGUI(t)
	h := &pointerLog{}
	g.Bind(h, &actionLog{})
	ev := primary(1, 1)
	ev.Button = desktop.MouseButtonSecondary
	g.area.MouseDown(ev)
	g.area.MouseUp(ev)
	if len(h.presses) != 0 || h.releases != 0 {
		t.Errorf("Expected secondary button ignored, got %+v", h)
	}
}

func TestCrosshairCursor(t *testing.T) {
	g := newTestGUI(t)
	if g.area.Cursor() != desktop.CrosshairCursor {
		t.Error("Expected crosshair cursor")
	}
}

func TestScreenRectFallsBackToImage(t *testing.T) {
	g := newTestGUI(t)
	g.Present(image.NewRGBA(image.Rect(0, 0, 64, 48)))
	g.bounds = func() (image.Rectangle, error) { return image.Rectangle{}, errors.New("headless") }
	if r := g.ScreenRect(); r != image.Rect(0, 0, 64, 48) {
		t.Errorf("Expected image bounds, got %v", r)
	}
	g.bounds = func() (image.Rectangle, error) { return image.Rect(0, 0, 1920, 1080), nil }
	if r := g.ScreenRect(); r != image.Rect(0, 0, 1920, 1080) {
		t.Errorf("Expected display bounds, got %v", r)
	}
}

func TestToolbarButtons(t *testing.T) {
	test.NewApp()
	a := &actionLog{}
	box := newToolbar(a).(*fyne.Container)

	colors := box.Objects[0].(*fyne.Container)
	if len(colors.Objects) != 7 {
		t.Fatalf("Expected 7 swatches, got %d", len(colors.Objects))
	}
	purple := colors.Objects[5].(*fyne.Container).Objects[1].(*widget.Button)
	test.Tap(purple)
	if a.color != "purple" {
		t.Errorf("Expected purple, got %q", a.color)
	}

	widths := box.Objects[1].(*fyne.Container)
	if len(widths.Objects) != 5 {
		t.Fatalf("Expected 5 width buttons, got %d", len(widths.Objects))
	}
	test.Tap(widths.Objects[2].(*widget.Button))
	if a.width != 6 {
		t.Errorf("Expected width 6, got %d", a.width)
	}

	modes := box.Objects[3].(*fyne.Container)
	test.Tap(modes.Objects[0].(*widget.Button))
	if a.mode != "text" {
		t.Errorf("Expected text mode, got %q", a.mode)
	}
	test.Tap(modes.Objects[1].(*widget.Button))
	if a.mode != "draw" {
		t.Errorf("Expected draw mode, got %q", a.mode)
	}
}
