// Package messages is the command vocabulary shared by the hotkeys, the tray,
// the IPC server and the event loop.
package messages

import (
	"fmt"
	"strings"
)

// Command is one request to the resident overlay. The string form is the
// IPC wire form.
type Command string

const (
	CmdCapture   Command = "CAPTURE"
	CmdSave      Command = "SAVE"
	CmdSaveClear Command = "CLEAR"
	CmdEscape    Command = "ESCAPE"
	CmdQuit      Command = "QUIT"
)

// Commands lists every command in menu order.
var Commands = []Command{CmdCapture, CmdSave, CmdSaveClear, CmdEscape, CmdQuit}

// ParseCommand accepts the wire form case-insensitively, plus the CLI
// spelling "save-clear".
func ParseCommand(s string) (Command, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "SAVE-CLEAR" || s == "SAVE_CLEAR" {
		return CmdSaveClear, nil
	}
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Saves reports whether the command writes a file.
func (c Command) Saves() bool {
	return c == CmdSave || c == CmdSaveClear || c == CmdEscape
}

func (c Command) String() string { return string(c) }

// Source identifies who issued a command, for logging.
type Source string

const (
	SourceHotkey Source = "hotkey"
	SourceTray   Source = "tray"
	SourceIPC    Source = "ipc"
)

// Result is the outcome of one command.
type Result struct {
	// File is the saved path for commands that save.
	File string
	// Exit is set when the command ends the program (double escape, quit).
	Exit bool
	Err  error
}
