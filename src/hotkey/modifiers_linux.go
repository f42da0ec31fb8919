package hotkey

import "golang.design/x/hotkey"

// Mod1 is Alt and Mod4 is Super in the default X11 modifier map.
var grabModifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"alt":   hotkey.Mod1,
	"shift": hotkey.ModShift,
	"cmd":   hotkey.Mod4,
}
