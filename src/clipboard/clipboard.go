package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	initErr error
	once    sync.Once
)

// Init prepares the system clipboard. It is safe to call more than once.
func Init() error {
	once.Do(func() { initErr = clipboard.Init() })
	return initErr
}

// WriteText performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func WriteText(text string) error {
	return write(clipboard.FmtText, []byte(text))
}

// WriteImage places PNG-encoded data on the clipboard.
func WriteImage(png []byte) error {
	if len(png) == 0 {
		return fmt.Errorf("clipboard: empty image")
	}
	return write(clipboard.FmtImage, png)
}

func write(f clipboard.Format, data []byte) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(f, data)
	return nil
}
