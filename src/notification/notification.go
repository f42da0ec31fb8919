// Package notification formats and delivers the desktop notifications shown
// after a save.
package notification

import (
	"log"
	"path/filepath"
)

const maxBodyLen = 200

// Sender delivers one desktop notification. The fyne app implements it.
type Sender interface {
	SendNotification(title, body string)
}

// Notifier is safe to call from worker goroutines as long as the Sender is.
type Notifier struct {
	sender Sender
}

// New returns a notifier; a nil sender only logs.
func New(s Sender) *Notifier { return &Notifier{sender: s} }

// ShowSaved announces a saved file.
func (n *Notifier) ShowSaved(path string) {
	n.send("Drawing saved", filepath.Base(path))
}

// ShowError announces a failed command.
func (n *Notifier) ShowError(err error) {
	if err == nil {
		return
	}
	n.send("Draw on Screen error", err.Error())
}

func (n *Notifier) send(title, body string) {
	body = truncate(body)
	if n == nil || n.sender == nil {
		log.Printf("notification: %s: %s", title, body)
		return
	}
	n.sender.SendNotification(title, body)
}

// truncate keeps notification bodies to 200 characters.
func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxBodyLen {
		return string(r[:maxBodyLen]) + "..."
	}
	return s
}
