// Package overlay binds the drawing session to the full-screen window and
// implements the capture, save and escape commands.
package overlay

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"draw-on-screen/src/pen"
	"draw-on-screen/src/screenshot"
	"draw-on-screen/src/session"
	"draw-on-screen/src/storage"
)

const DefaultDoubleTap = time.Second

// Surface is the windowing side of the overlay. Every method is called on
// the UI thread.
type Surface interface {
	// Hide withdraws the overlay; it returns once the hide was requested.
	Hide()
	Show()
	Raise()
	Present(img *image.RGBA)
	// ScreenRect is the overlay's drawing area in screen coordinates.
	ScreenRect() image.Rectangle
}

// Settler waits for the screen to settle after the overlay was hidden.
type Settler interface {
	Wait(ctx context.Context, r image.Rectangle, reference image.Image) (*image.RGBA, error)
}

// Saved describes one written file.
type Saved struct {
	Path string
	PNG  []byte
}

type Options struct {
	Store   *storage.Store
	Grabber screenshot.Grabber
	// DoubleTap is the window in which a second escape exits.
	DoubleTap time.Duration
	Now       func() time.Time
	// Out receives the "Saved drawing as" line; nil means stdout.
	Out io.Writer
}

// Annotator is confined to the UI thread except where noted.
type Annotator struct {
	surface Surface
	session *session.Session
	store   *storage.Store
	grabber screenshot.Grabber

	doubleTap  time.Duration
	now        func() time.Time
	out        io.Writer
	lastEscape time.Time
}

func New(surface Surface, sess *session.Session, opts Options) *Annotator {
	a := &Annotator{
		surface:   surface,
		session:   sess,
		store:     opts.Store,
		grabber:   opts.Grabber,
		doubleTap: opts.DoubleTap,
		now:       opts.Now,
		out:       opts.Out,
	}
	if a.store == nil {
		a.store = storage.New("", "")
	}
	if a.grabber == nil {
		a.grabber = screenshot.Screen{}
	}
	if a.doubleTap <= 0 {
		a.doubleTap = DefaultDoubleTap
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	sess.OnChange(a.present)
	return a
}

func (a *Annotator) Session() *session.Session { return a.session }
func (a *Annotator) Store() *storage.Store     { return a.store }

func (a *Annotator) present() {
	a.surface.Present(a.session.Canvas().Image())
}

// BeginCapture grabs the region as it appears with the overlay and its
// toolbar up, then hides the overlay. It returns the region and that
// grab, the reference the settle wait must see the screen move away from.
func (a *Annotator) BeginCapture() (image.Rectangle, image.Image) {
	a.session.Reset()
	r := a.surface.ScreenRect()
	var ref image.Image
	if shown, err := a.grabber.CaptureRect(r); err == nil {
		ref = shown
	} else {
		log.Printf("overlay: reference grab failed, using the canvas: %v", err)
		ref = a.session.Canvas().Image()
	}
	a.surface.Hide()
	log.Printf("overlay: hidden for capture of %v", r)
	return r, ref
}

// FinishCapture shows the overlay over the fresh snapshot in draw mode.
// A nil snapshot only re-shows the overlay.
func (a *Annotator) FinishCapture(snapshot *image.RGBA) {
	if snapshot != nil {
		a.session.Canvas().Replace(snapshot)
	}
	a.session.EnableDrawMode()
	a.surface.Show()
	a.surface.Raise()
	a.present()
}

// Capture runs BeginCapture, the settle wait and FinishCapture. It must be
// called off the UI thread; onUI runs a function on the UI thread and
// waits for it.
func (a *Annotator) Capture(ctx context.Context, s Settler, onUI func(func())) error {
	var (
		r   image.Rectangle
		ref image.Image
	)
	onUI(func() { r, ref = a.BeginCapture() })

	img, err := s.Wait(ctx, r, ref)
	if err != nil {
		onUI(func() { a.FinishCapture(nil) })
		return fmt.Errorf("capture screen: %w", err)
	}
	onUI(func() { a.FinishCapture(img) })
	log.Printf("overlay: captured %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// Save grabs the overlay's screen region as it currently appears and writes
// it to the output directory.
func (a *Annotator) Save() (Saved, error) {
	r := a.surface.ScreenRect()
	img, err := a.grabber.CaptureRect(r)
	if err != nil {
		return Saved{}, fmt.Errorf("grab overlay region: %w", err)
	}
	path, data, err := a.store.SaveBytes(img)
	if err != nil {
		return Saved{}, err
	}
	fmt.Fprintf(a.out, "Saved drawing as %s\n", path)
	log.Printf("overlay: saved %s (%d bytes)", path, len(data))
	return Saved{Path: path, PNG: data}, nil
}

// SaveAndClear saves and then drops every annotation. A failed save leaves
// the annotations in place.
func (a *Annotator) SaveAndClear() (Saved, error) {
	saved, err := a.Save()
	if err != nil {
		return Saved{}, err
	}
	a.session.Reset()
	a.session.Canvas().Clear()
	a.present()
	return saved, nil
}

// HandleEscape saves and reports whether this escape followed the previous
// successful one within the double-tap window.
func (a *Annotator) HandleEscape() (Saved, bool, error) {
	now := a.now()
	armed := !a.lastEscape.IsZero() && now.Sub(a.lastEscape) < a.doubleTap
	saved, err := a.Save()
	if err != nil {
		return Saved{}, false, err
	}
	a.lastEscape = now
	if armed {
		log.Printf("overlay: double escape, exiting")
	}
	return saved, armed, nil
}

// Toolbar actions.
func (a *Annotator) SetPenColor(name string) error { return a.session.SetPenColor(name) }
func (a *Annotator) SetPenWidth(w int) error       { return a.session.SetPenWidth(w) }
func (a *Annotator) EnableDrawMode()               { a.session.EnableDrawMode() }
func (a *Annotator) EnableTextMode()               { a.session.EnableTextMode() }
func (a *Annotator) Mode() pen.Mode                { return a.session.Mode() }
