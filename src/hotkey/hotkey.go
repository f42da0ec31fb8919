// Package hotkey delivers global key combinations regardless of which window
// has focus.
package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"strings"
)

const (
	// BackendHook observes every key event through a low-level hook. The
	// key still reaches the focused application.
	BackendHook = "hook"
	// BackendGrab registers the combination with the OS, which then keeps
	// it from other applications.
	BackendGrab = "grab"
)

// Binding maps one combination such as "F1" or "Ctrl+Alt+Q" to a callback.
// Callbacks run on the listener's goroutine and should only post work.
type Binding struct {
	Name  string
	Combo string
	Fire  func()
}

// Listener owns the registration of a set of bindings.
type Listener interface {
	Start(bindings []Binding) error
	Stop()
}

// DefaultBackend picks grab where the OS allows registering off the main
// thread, hook elsewhere.
func DefaultBackend() string {
	if runtime.GOOS == "darwin" {
		return BackendHook
	}
	return BackendGrab
}

// New returns a listener for backend; an empty name selects the default.
func New(backend string) (Listener, error) {
	if backend == "" {
		backend = DefaultBackend()
	}
	switch strings.ToLower(backend) {
	case BackendHook:
		return newHookListener(), nil
	case BackendGrab:
		return newGrabListener(), nil
	default:
		return nil, fmt.Errorf("unknown hotkey backend %q (want %s or %s)", backend, BackendHook, BackendGrab)
	}
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "option":
			part = "alt"
		case "win", "cmd", "super", "meta":
			part = "cmd"
		case "escape":
			part = "esc"
		case "return":
			part = "enter"
		}
		keys = append(keys, part)
	}
	return keys
}

func isModifier(key string) bool {
	switch key {
	case "ctrl", "alt", "shift", "cmd":
		return true
	}
	return false
}

// splitCombo separates modifiers from the single main key.
func splitCombo(combo string) (mods []string, key string, err error) {
	for _, k := range parseHotkey(combo) {
		if isModifier(k) {
			mods = append(mods, k)
			continue
		}
		if key != "" {
			return nil, "", fmt.Errorf("hotkey %q has more than one non-modifier key", combo)
		}
		key = k
	}
	if key == "" {
		return nil, "", fmt.Errorf("hotkey %q has no main key", combo)
	}
	return mods, key, nil
}

func describe(b Binding) string {
	if b.Name == "" {
		return b.Combo
	}
	return fmt.Sprintf("%s (%s)", b.Name, b.Combo)
}

func logBindings(backend string, bindings []Binding) {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = describe(b)
	}
	log.Printf("Hotkey listener (%s) configured for: %s", backend, strings.Join(names, ", "))
}
