package eventloop

import (
	"context"

	"draw-on-screen/src/clipboard"
	"draw-on-screen/src/config"
	"draw-on-screen/src/notification"
	"draw-on-screen/src/overlay"
)

// Export is a side effect run on the worker pool after a command.
type Export struct {
	Name    string
	OnSaved func(ctx context.Context, saved overlay.Saved) error
	OnError func(ctx context.Context, err error) error
}

// ClipboardExport copies the saved PNG or its path, per mode. It returns
// false for config.ClipboardNone.
func ClipboardExport(mode string) (Export, bool) {
	return clipboardExport(mode, clipboard.WriteImage, clipboard.WriteText)
}

func clipboardExport(mode string, writeImage func([]byte) error, writeText func(string) error) (Export, bool) {
	switch mode {
	case config.ClipboardImage:
		return Export{
			Name:    "clipboard-image",
			OnSaved: func(_ context.Context, s overlay.Saved) error { return writeImage(s.PNG) },
		}, true
	case config.ClipboardPath:
		return Export{
			Name:    "clipboard-path",
			OnSaved: func(_ context.Context, s overlay.Saved) error { return writeText(s.Path) },
		}, true
	default:
		return Export{}, false
	}
}

// NotifyExport announces saves and failures.
func NotifyExport(n *notification.Notifier) Export {
	return Export{
		Name: "notify",
		OnSaved: func(_ context.Context, s overlay.Saved) error {
			n.ShowSaved(s.Path)
			return nil
		},
		OnError: func(_ context.Context, err error) error {
			n.ShowError(err)
			return nil
		},
	}
}
