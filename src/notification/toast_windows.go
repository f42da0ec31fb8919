//go:build windows

package notification

import (
	"log"

	"github.com/go-toast/toast"
)

const toastAppID = "Draw on Screen"

type toastSender struct{ appID string }

// PlatformSender prefers native Windows toasts over fallback.
func PlatformSender(fallback Sender) Sender {
	return toastSender{appID: toastAppID}
}

func (s toastSender) SendNotification(title, body string) {
	n := toast.Notification{
		AppID:   s.appID,
		Title:   title,
		Message: body,
	}
	if err := n.Push(); err != nil {
		log.Printf("notification: toast failed: %v", err)
	}
}
