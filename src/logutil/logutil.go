package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const (
	logFileName  = "draw_on_screen.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup enables file logging with basic size-based rotation (10MB, max 3 files).
// When disabled, logs are discarded; stdout is reserved for the
// "Saved drawing as" lines.
func Setup(enableFileLogging bool) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return
	}
	w, err := newRotatingWriter(logFileName, maxSizeBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(w)
}

type rotatingWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	f       *os.File
}

func newRotatingWriter(path string, maxSize int64) (*rotatingWriter, error) {
	rotateIfNeeded(path, maxSize)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	return &rotatingWriter{path: path, maxSize: maxSize, f: f}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size() > 0 && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		rotate(w.path)
		nf, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

func rotateIfNeeded(path string, maxSize int64) {
	if st, err := os.Stat(path); err == nil && st.Size() > maxSize {
		rotate(path)
	}
}

// rotate shifts path to .1, .2, .3 (oldest discarded).
func rotate(path string) {
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
