package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	gohook "github.com/robotn/gohook"
)

type keyState struct {
	name    string
	codes   []uint16
	pressed bool
}

type combo struct {
	binding Binding
	keys    []keyState
}

// matcher tracks which keys of each combination are held down.
type matcher struct {
	mu     sync.Mutex
	combos []combo
}

// newMatcher resolves every binding with codesFor. Bindings with an
// unmappable key are skipped and reported.
func newMatcher(bindings []Binding, codesFor func(string) []uint16) (*matcher, error) {
	m := &matcher{}
	for _, b := range bindings {
		keys := parseHotkey(b.Combo)
		if len(keys) == 0 {
			return nil, fmt.Errorf("empty hotkey for %s", describe(b))
		}
		c := combo{binding: b}
		for _, k := range keys {
			codes := codesFor(k)
			if len(codes) == 0 {
				return nil, fmt.Errorf("cannot map key %q of %s", k, describe(b))
			}
			c.keys = append(c.keys, keyState{name: k, codes: codes})
		}
		m.combos = append(m.combos, c)
	}
	return m, nil
}

// keyDown records code and returns the bindings whose keys are now all held.
func (m *matcher) keyDown(code uint16) []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fired []Binding
	for i := range m.combos {
		c := &m.combos[i]
		all := true
		for j := range c.keys {
			if hasCode(c.keys[j].codes, code) {
				c.keys[j].pressed = true
			}
			if !c.keys[j].pressed {
				all = false
			}
		}
		if all {
			fired = append(fired, c.binding)
			for j := range c.keys {
				c.keys[j].pressed = false
			}
		}
	}
	return fired
}

func (m *matcher) keyUp(code uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.combos {
		for j := range m.combos[i].keys {
			if hasCode(m.combos[i].keys[j].codes, code) {
				m.combos[i].keys[j].pressed = false
			}
		}
	}
}

func hasCode(codes []uint16, code uint16) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

type hookListener struct {
	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func newHookListener() *hookListener { return &hookListener{} }

// eventCode picks the field the key tables are written against: Windows
// virtual keys arrive in Rawcode, elsewhere the portable Keycode is used.
func eventCode(ev gohook.Event) uint16 {
	if runtime.GOOS == "windows" {
		return ev.Rawcode
	}
	return ev.Keycode
}

func codesForPlatform(name string) []uint16 {
	if runtime.GOOS == "windows" {
		return keyNameToRawcodes(name)
	}
	return keyNameToKeycodes(name)
}

func (h *hookListener) Start(bindings []Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return fmt.Errorf("hook listener already started")
	}
	m, err := newMatcher(bindings, codesForPlatform)
	if err != nil {
		return err
	}

	evChan := gohook.Start()
	if evChan == nil {
		return fmt.Errorf("gohook.Start() returned nil channel")
	}
	h.running = true
	h.done = make(chan struct{})
	logBindings(BackendHook, bindings)

	go func(done chan struct{}) {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			// KeyHold is the physical press; KeyDown is the typed-character
			// event and never arrives for keys like F1.
			switch ev.Kind {
			case gohook.KeyHold:
				for _, b := range m.keyDown(eventCode(ev)) {
					log.Printf("Hotkey activated: %s", describe(b))
					if b.Fire != nil {
						b.Fire()
					}
				}
			case gohook.KeyUp:
				m.keyUp(eventCode(ev))
			}
		}
		log.Printf("Event channel closed")
	}(h.done)
	return nil
}

func (h *hookListener) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	done := h.done
	h.mu.Unlock()

	gohook.End()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("WARNING: hotkey goroutine did not exit after gohook.End")
	}
}
