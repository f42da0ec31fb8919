package hotkey

import (
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"
)

var grabKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
}

// grabCombo resolves a combination to x/hotkey modifiers and key.
func grabCombo(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	names, keyName, err := splitCombo(combo)
	if err != nil {
		return nil, 0, err
	}
	key, ok := grabKeys[canonicalKey(keyName)]
	if !ok {
		return nil, 0, fmt.Errorf("key %q cannot be grabbed", keyName)
	}
	var mods []hotkey.Modifier
	for _, n := range names {
		m, ok := grabModifiers[n]
		if !ok {
			return nil, 0, fmt.Errorf("modifier %q is not available on this platform", n)
		}
		mods = append(mods, m)
	}
	return mods, key, nil
}

type grabListener struct {
	mu   sync.Mutex
	keys []*hotkey.Hotkey
	stop chan struct{}
	wg   sync.WaitGroup
}

func newGrabListener() *grabListener { return &grabListener{} }

func (g *grabListener) Start(bindings []Binding) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stop != nil {
		return fmt.Errorf("grab listener already started")
	}

	type resolved struct {
		b    Binding
		mods []hotkey.Modifier
		key  hotkey.Key
	}
	all := make([]resolved, 0, len(bindings))
	for _, b := range bindings {
		mods, key, err := grabCombo(b.Combo)
		if err != nil {
			return fmt.Errorf("%s: %w", describe(b), err)
		}
		all = append(all, resolved{b, mods, key})
	}

	g.stop = make(chan struct{})
	for _, r := range all {
		hk := hotkey.New(r.mods, r.key)
		if err := hk.Register(); err != nil {
			g.unregisterLocked()
			return fmt.Errorf("register %s: %w", describe(r.b), err)
		}
		g.keys = append(g.keys, hk)
		g.wg.Add(1)
		go g.run(hk, r.b, g.stop)
	}
	logBindings(BackendGrab, bindings)
	return nil
}

func (g *grabListener) run(hk *hotkey.Hotkey, b Binding, stop <-chan struct{}) {
	defer g.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine: %v", r)
		}
	}()
	for {
		select {
		case <-stop:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			log.Printf("Hotkey activated: %s", describe(b))
			if b.Fire != nil {
				b.Fire()
			}
		}
	}
}

func (g *grabListener) unregisterLocked() {
	if g.stop != nil {
		close(g.stop)
	}
	for _, hk := range g.keys {
		if err := hk.Unregister(); err != nil {
			log.Printf("hotkey: unregister failed: %v", err)
		}
	}
	g.keys = nil
	g.stop = nil
}

func (g *grabListener) Stop() {
	g.mu.Lock()
	g.unregisterLocked()
	g.mu.Unlock()
	g.wg.Wait()
}
