package overlay

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"draw-on-screen/src/annotate"
	"draw-on-screen/src/pen"
	"draw-on-screen/src/screenshot"
	"draw-on-screen/src/session"
	"draw-on-screen/src/storage"
)

type fakeSurface struct {
	rect     image.Rectangle
	visible  bool
	raised   int
	presents []*image.RGBA
	calls    []string
}

func (f *fakeSurface) Hide()  { f.visible = false; f.calls = append(f.calls, "hide") }
func (f *fakeSurface) Show()  { f.visible = true; f.calls = append(f.calls, "show") }
func (f *fakeSurface) Raise() { f.raised++; f.calls = append(f.calls, "raise") }
func (f *fakeSurface) Present(img *image.RGBA) {
	f.presents = append(f.presents, img)
	f.calls = append(f.calls, "present")
}
func (f *fakeSurface) ScreenRect() image.Rectangle { return f.rect }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSettler struct {
	img   *image.RGBA
	err   error
	rect  image.Rectangle
	ref   image.Image
	calls int
}

func (f *fakeSettler) Wait(_ context.Context, r image.Rectangle, ref image.Image) (*image.RGBA, error) {
	f.calls++
	f.rect, f.ref = r, ref
	return f.img, f.err
}

func solid(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

type fixture struct {
	ann     *Annotator
	surface *fakeSurface
	clock   *fakeClock
	out     *bytes.Buffer
	grabs   []image.Rectangle
	shown   []bool
	grabErr error
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		surface: &fakeSurface{rect: image.Rect(0, 0, 120, 80), visible: true},
		clock:   &fakeClock{t: time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)},
		out:     &bytes.Buffer{},
		dir:     filepath.Join(t.TempDir(), "DrawingAppImg"),
	}
	store := storage.New(f.dir, "DrawOnScreen")
	store.Now = f.clock.Now
	grab := screenshot.GrabberFunc(func(r image.Rectangle) (*image.RGBA, error) {
		f.grabs = append(f.grabs, r)
		f.shown = append(f.shown, f.surface.visible)
		if f.grabErr != nil {
			return nil, f.grabErr
		}
		return solid(r, color.RGBA{10, 20, 30, 255}), nil
	})
	snap := solid(image.Rect(0, 0, 120, 80), color.RGBA{255, 255, 255, 255})
	sess := session.New(annotate.NewCanvas(snap), nil, pen.NewState())
	f.ann = New(f.surface, sess, Options{
		Store:   store,
		Grabber: grab,
		Now:     f.clock.Now,
		Out:     f.out,
	})
	return f
}

func inline(fn func()) { fn() }

func TestSaveWritesTimestampedFile(t *testing.T) {
	f := newFixture(t)
	f.surface.rect = image.Rect(10, 20, 110, 70)

	saved, err := f.ann.Save()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(f.dir, "DrawOnScreen-2024-03-09-14-05-07.png")
	if saved.Path != want {
		t.Errorf("Expected %s, got %s", want, saved.Path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}
	if len(f.grabs) != 1 || f.grabs[0] != f.surface.rect {
		t.Errorf("Expected one grab of %v, got %v", f.surface.rect, f.grabs)
	}
	if len(saved.PNG) == 0 {
		t.Error("Expected encoded PNG bytes")
	}
	if got := f.out.String(); got != "Saved drawing as "+want+"\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestSaveErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.grabErr = errors.New("no display")
	if _, err := f.ann.Save(); !errors.Is(err, f.grabErr) {
		t.Errorf("Expected grab error, got %v", err)
	}
	if f.out.Len() != 0 {
		t.Errorf("Expected no output on failure, got %q", f.out.String())
	}
}

func TestSaveAndClearDropsAnnotations(t *testing.T) {
	f := newFixture(t)
	sess := f.ann.Session()
	sess.PointerPress(image.Pt(10, 10))
	sess.PointerDrag(image.Pt(10, 10))
	sess.PointerDrag(image.Pt(60, 40))
	if len(sess.Canvas().Ops()) != 1 {
		t.Fatal("Expected one segment before save")
	}

	if _, err := f.ann.SaveAndClear(); err != nil {
		t.Fatal(err)
	}
	if len(sess.Canvas().Ops()) != 0 {
		t.Error("Expected ops cleared")
	}
	if !bytes.Equal(sess.Canvas().Image().Pix, sess.Canvas().Snapshot().Pix) {
		t.Error("Expected canvas to show only the snapshot")
	}
	last := f.surface.presents[len(f.surface.presents)-1]
	if last != sess.Canvas().Image() {
		t.Error("Expected the cleared canvas to be presented")
	}
}

func TestSaveAndClearKeepsAnnotationsOnFailure(t *testing.T) {
	f := newFixture(t)
	sess := f.ann.Session()
	sess.PointerDrag(image.Pt(1, 1))
	sess.PointerDrag(image.Pt(30, 30))
	f.grabErr = errors.New("boom")

	if _, err := f.ann.SaveAndClear(); err == nil {
		t.Fatal("Expected error")
	}
	if len(sess.Canvas().Ops()) != 1 {
		t.Error("Expected annotations kept after failed save")
	}
}

func TestEscapeDoubleTap(t *testing.T) {
	cases := []struct {
		name  string
		gap   time.Duration
		exits bool
	}{
		{"quick", 300 * time.Millisecond, true},
		{"just inside", 999 * time.Millisecond, true},
		{"at window", time.Second, false},
		{"slow", 2 * time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, exit, err := f.ann.HandleEscape()
			if err != nil {
				t.Fatal(err)
			}
			if exit {
				t.Fatal("First escape must not exit")
			}
			f.clock.Advance(tc.gap)
			_, exit, err = f.ann.HandleEscape()
			if err != nil {
				t.Fatal(err)
			}
			if exit != tc.exits {
				t.Errorf("Expected exit=%v after %v", tc.exits, tc.gap)
			}
			if got := strings.Count(f.out.String(), "Saved drawing as"); got != 2 {
				t.Errorf("Expected every escape to save, got %d saves", got)
			}
		})
	}
}

func TestEscapeTimerRestartsOnEveryPress(t *testing.T) {
	f := newFixture(t)
	f.ann.HandleEscape()
	f.clock.Advance(1500 * time.Millisecond)
	if _, exit, _ := f.ann.HandleEscape(); exit {
		t.Fatal("Slow second escape must not exit")
	}
	f.clock.Advance(500 * time.Millisecond)
	if _, exit, _ := f.ann.HandleEscape(); !exit {
		t.Error("Expected exit: timer restarts at the previous escape")
	}
}

func TestFailedEscapeDoesNotArm(t *testing.T) {
	f := newFixture(t)
	f.grabErr = errors.New("boom")
	if _, _, err := f.ann.HandleEscape(); err == nil {
		t.Fatal("Expected error")
	}
	f.grabErr = nil
	f.clock.Advance(100 * time.Millisecond)
	if _, exit, err := f.ann.HandleEscape(); err != nil || exit {
		t.Errorf("Expected plain save after failed escape, exit=%v err=%v", exit, err)
	}
}

func TestCaptureReplacesSnapshot(t *testing.T) {
	f := newFixture(t)
	sess := f.ann.Session()
	sess.EnableTextMode()
	before := sess.Canvas().Image()

	fresh := solid(image.Rect(0, 0, 120, 80), color.RGBA{0, 0, 255, 255})
	settler := &fakeSettler{img: fresh}
	if err := f.ann.Capture(context.Background(), settler, inline); err != nil {
		t.Fatal(err)
	}

	if settler.rect != f.surface.rect {
		t.Errorf("Expected settle over %v, got %v", f.surface.rect, settler.rect)
	}
	if len(f.grabs) != 1 || f.grabs[0] != f.surface.rect || !f.shown[0] {
		t.Fatalf("Expected one grab of %v while shown, got %v %v", f.surface.rect, f.grabs, f.shown)
	}
	ref, ok := settler.ref.(*image.RGBA)
	if !ok || ref == before {
		t.Fatal("Expected the on-screen grab as settle reference")
	}
	if got := ref.RGBAAt(5, 5); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("Expected grabbed pixels in reference, got %v", got)
	}
	if sess.Canvas().Snapshot() != fresh {
		t.Error("Expected snapshot replaced")
	}
	if sess.Mode() != pen.ModeDraw {
		t.Errorf("Expected draw mode after capture, got %s", sess.Mode())
	}
	want := []string{"hide", "show", "raise", "present"}
	if strings.Join(f.surface.calls, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, f.surface.calls)
	}
	if !f.surface.visible {
		t.Error("Expected overlay visible after capture")
	}
}

func TestCaptureReferenceFallsBackToCanvas(t *testing.T) {
	f := newFixture(t)
	f.grabErr = errors.New("no display")
	before := f.ann.Session().Canvas().Image()
	settler := &fakeSettler{img: solid(image.Rect(0, 0, 120, 80), color.RGBA{0, 0, 255, 255})}

	if err := f.ann.Capture(context.Background(), settler, inline); err != nil {
		t.Fatal(err)
	}
	if settler.ref != before {
		t.Error("Expected the canvas image as settle reference")
	}
	if !f.surface.visible {
		t.Error("Expected overlay visible after capture")
	}
}

func TestCaptureFailureReshowsOverlay(t *testing.T) {
	f := newFixture(t)
	old := f.ann.Session().Canvas().Snapshot()
	settler := &fakeSettler{err: errors.New("denied")}

	if err := f.ann.Capture(context.Background(), settler, inline); err == nil {
		t.Fatal("Expected error")
	}
	if !f.surface.visible {
		t.Error("Expected overlay shown again")
	}
	if f.ann.Session().Canvas().Snapshot() != old {
		t.Error("Expected snapshot unchanged")
	}
}

func TestDrawingPresentsCanvas(t *testing.T) {
	f := newFixture(t)
	sess := f.ann.Session()
	sess.PointerPress(image.Pt(5, 5))
	sess.PointerDrag(image.Pt(5, 5))
	sess.PointerDrag(image.Pt(50, 50))
	if len(f.surface.presents) != 1 {
		t.Errorf("Expected one present per segment, got %d", len(f.surface.presents))
	}
}
