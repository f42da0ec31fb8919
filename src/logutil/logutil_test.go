package logutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingWriterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := newRotatingWriter(path, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	line := bytes.Repeat([]byte("x"), 40)
	for i := 0; i < 5; i++ {
		if _, err := w.Write(line); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{path, archiveName(path, 1), archiveName(path, 2), archiveName(path, 3)} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("Expected %s to exist: %v", filepath.Base(name), err)
		}
	}
	if _, err := os.Stat(archiveName(path, 4)); err == nil {
		t.Error("Expected at most 3 archives")
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != int64(len(line)) {
		t.Errorf("Expected current log to hold one line, got %d bytes", st.Size())
	}
}

func TestRotateIfNeededOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.log")
	if err := os.WriteFile(path, bytes.Repeat([]byte("y"), 200), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := newRotatingWriter(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if _, err := os.Stat(archiveName(path, 1)); err != nil {
		t.Errorf("Expected oversized log archived on open: %v", err)
	}
}
