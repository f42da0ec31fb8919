package hotkey

import "golang.design/x/hotkey"

var grabModifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"alt":   hotkey.ModOption,
	"shift": hotkey.ModShift,
	"cmd":   hotkey.ModCmd,
}
