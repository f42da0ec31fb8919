// Package gui is the fyne front end: the full-screen overlay window, the
// floating pen toolbar and the text prompt.
package gui

import (
	"image"
	"log"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"draw-on-screen/src/screenshot"
	"draw-on-screen/src/tray"
)

const (
	AppID = "io.github.draw-on-screen"
	Title = "Draw on Screen"
)

// Actions are the toolbar operations.
type Actions interface {
	SetPenColor(name string) error
	SetPenWidth(w int) error
	EnableDrawMode()
	EnableTextMode()
}

// GUI owns the fyne app and both windows. Apart from Do, DoAndWait, Quit
// and SendNotification, its methods run on the UI thread.
type GUI struct {
	app     fyne.App
	overlay fyne.Window
	toolbar fyne.Window
	area    *drawArea

	// bounds reports the overlay's screen region; tests replace it.
	bounds func() (image.Rectangle, error)
}

// New creates the app and its windows without showing them.
func New() *GUI {
	return newGUI(app.NewWithID(AppID))
}

func newGUI(a fyne.App) *GUI {
	if icon := tray.IconPNG(); icon != nil {
		a.SetIcon(fyne.NewStaticResource("draw-on-screen.png", icon))
	}
	g := &GUI{app: a, area: newDrawArea(), bounds: screenshot.PrimaryBounds}

	g.overlay = a.NewWindow(Title)
	g.overlay.SetPadded(false)
	g.overlay.SetContent(g.area)
	g.overlay.SetMaster()

	g.toolbar = a.NewWindow("Pen")
	g.toolbar.Resize(fyne.NewSize(600, 150))
	g.toolbar.SetFixedSize(true)
	g.toolbar.SetCloseIntercept(func() {
		log.Printf("gui: toolbar close ignored; quit with a double escape")
	})
	return g
}

// Bind attaches the pointer handler and builds the toolbar for actions.
func (g *GUI) Bind(h PointerHandler, actions Actions) {
	g.area.handler = h
	g.toolbar.SetContent(newToolbar(actions))
}

// Run shows the windows and blocks in the fyne main loop.
func (g *GUI) Run() {
	g.overlay.SetFullScreen(true)
	g.overlay.Show()
	g.toolbar.Show()
	g.app.Run()
}

// Surface

func (g *GUI) Hide() { g.overlay.Hide() }

func (g *GUI) Show() {
	g.overlay.SetFullScreen(true)
	g.overlay.Show()
	g.toolbar.Show()
}

// Raise brings the overlay and then the toolbar to the front.
func (g *GUI) Raise() {
	g.overlay.RequestFocus()
	g.toolbar.RequestFocus()
}

func (g *GUI) Present(img *image.RGBA) { g.area.setImage(img) }

// ScreenRect is the primary display, which the full-screen overlay covers.
func (g *GUI) ScreenRect() image.Rectangle {
	r, err := g.bounds()
	if err != nil {
		log.Printf("gui: display bounds unavailable: %v", err)
		return g.area.raster.Image.Bounds()
	}
	return r
}

// UI thread marshalling

func (g *GUI) Do(fn func())        { fyne.Do(fn) }
func (g *GUI) DoAndWait(fn func()) { fyne.DoAndWait(fn) }
func (g *GUI) Quit()               { fyne.Do(g.app.Quit) }

func (g *GUI) SendNotification(title, body string) {
	g.app.SendNotification(fyne.NewNotification(title, body))
}

// OpenFolder shows dir in the platform file manager.
func (g *GUI) OpenFolder(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	fyne.Do(func() {
		if err := g.app.OpenURL(u); err != nil {
			log.Printf("gui: open %s: %v", u, err)
		}
	})
}
