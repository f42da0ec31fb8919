package hotkey

import (
	"fmt"
	"log"
	"strings"

	gohook "github.com/robotn/gohook"
)

// Windows virtual-key codes, as reported in gohook's Rawcode on Windows.
var virtualKeys = func() map[string][]uint16 {
	m := map[string][]uint16{
		"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
		"alt":   {164, 165}, // VK_LMENU, VK_RMENU
		"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
		"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

		"space":     {32},
		"enter":     {13},
		"esc":       {27},
		"tab":       {9},
		"backspace": {8},
		"delete":    {46},
		"insert":    {45},
		"home":      {36},
		"end":       {35},
		"pageup":    {33},
		"pagedown":  {34},
		"left":      {37},
		"up":        {38},
		"right":     {39},
		"down":      {40},
	}
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = []uint16{uint16(c - 'a' + 65)}
	}
	for d := 0; d <= 9; d++ {
		m[fmt.Sprint(d)] = []uint16{uint16(48 + d)}
	}
	for n := 1; n <= 24; n++ {
		m[fmt.Sprintf("f%d", n)] = []uint16{uint16(111 + n)}
	}
	return m
}()

var keyAliases = map[string]string{
	"del":   "delete",
	"ins":   "insert",
	"pgup":  "pageup",
	"pgdn":  "pagedown",
	"win":   "cmd",
	"super": "cmd",
}

func canonicalKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if keys := parseHotkey(name); len(keys) == 1 {
		name = keys[0]
	}
	if alias, ok := keyAliases[name]; ok {
		return alias
	}
	return name
}

// keyNameToRawcodes maps a key name to its Windows virtual key codes,
// including both left and right variants for modifiers.
func keyNameToRawcodes(keyName string) []uint16 {
	codes, ok := virtualKeys[canonicalKey(keyName)]
	if !ok {
		log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
		return nil
	}
	return codes
}

// keyNameToKeycodes maps a key name to gohook's portable keycodes.
func keyNameToKeycodes(keyName string) []uint16 {
	name := canonicalKey(keyName)
	var lookups []string
	if isModifier(name) {
		lookups = []string{name, "r" + name}
	} else {
		lookups = []string{name}
	}
	var codes []uint16
	for _, l := range lookups {
		if code, ok := gohook.Keycode[l]; ok {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		log.Printf("WARNING: Unknown key name '%s', cannot map to keycode", keyName)
	}
	return codes
}
