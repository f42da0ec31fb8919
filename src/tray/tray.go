package tray

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/getlantern/systray"

	"draw-on-screen/src/messages"
)

type Config struct {
	Title   string
	Tooltip string
	// Hotkeys labels the menu entries, e.g. "F1".
	CaptureHotkey   string
	SaveClearHotkey string
	// OnCommand posts a menu command into the event loop.
	OnCommand    func(messages.Command)
	OnOpenFolder func()
}

// Tray is the system tray icon and menu.
type Tray struct {
	cfg   Config
	mu    sync.Mutex
	ready bool
	tip   string
}

func New(cfg Config) *Tray {
	if cfg.Title == "" {
		cfg.Title = "Draw on Screen"
	}
	if cfg.Tooltip == "" {
		cfg.Tooltip = cfg.Title
	}
	return &Tray{cfg: cfg, tip: cfg.Tooltip}
}

// Supported reports whether the tray can run beside the fyne main loop.
// On macOS both need the main thread.
func Supported() bool { return runtime.GOOS != "darwin" }

// Run blocks running the tray loop; call it on its own goroutine.
func (t *Tray) Run() {
	runtime.LockOSThread()
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the icon and ends Run.
func (t *Tray) Quit() {
	t.mu.Lock()
	ready := t.ready
	t.mu.Unlock()
	if ready {
		systray.Quit()
	}
}

// UpdateTooltip sets the hover text; safe before the tray is ready.
func (t *Tray) UpdateTooltip(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tip = s
	if t.ready {
		systray.SetTooltip(s)
	}
}

func label(name, hotkey string) string {
	if hotkey == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, hotkey)
}

func (t *Tray) onReady() {
	if icon := IconPNG(); icon != nil {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)

	t.mu.Lock()
	t.ready = true
	systray.SetTooltip(t.tip)
	t.mu.Unlock()

	mCapture := systray.AddMenuItem(label("Capture screen", t.cfg.CaptureHotkey), "Freeze the screen and start drawing")
	mSave := systray.AddMenuItem("Save", "Save the drawing")
	mSaveClear := systray.AddMenuItem(label("Save and clear", t.cfg.SaveClearHotkey), "Save the drawing and clear it")
	systray.AddSeparator()
	mOpen := systray.AddMenuItem("Open output folder", "Show saved drawings")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit Draw on Screen")

	post := func(cmd messages.Command) {
		if t.cfg.OnCommand != nil {
			t.cfg.OnCommand(cmd)
		}
	}

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				post(messages.CmdCapture)
			case <-mSave.ClickedCh:
				post(messages.CmdSave)
			case <-mSaveClear.ClickedCh:
				post(messages.CmdSaveClear)
			case <-mOpen.ClickedCh:
				if t.cfg.OnOpenFolder != nil {
					t.cfg.OnOpenFolder()
				}
			case <-mQuit.ClickedCh:
				log.Printf("tray: quit requested")
				post(messages.CmdQuit)
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
}
