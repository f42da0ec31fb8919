package storage

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestNameUsesSecondResolutionTimestamp(t *testing.T) {
	s := New("out", "DrawOnScreen")
	ts := time.Date(2024, 3, 9, 7, 5, 4, 999, time.Local)
	want := filepath.Join("out", "DrawOnScreen-2024-03-09-07-05-04.png")
	if got := s.Name(ts); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestNewDefaults(t *testing.T) {
	s := New("", "")
	if s.Dir != DefaultDir || s.Prefix != DefaultPrefix {
		t.Errorf("Expected defaults, got %q %q", s.Dir, s.Prefix)
	}
}

func TestSaveCreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "DrawingAppImg")
	s := New(dir, "")
	s.Now = fixedClock(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	path, err := s.Save(img)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "DrawOnScreen-2025-01-02-03-04-05.png" {
		t.Errorf("Unexpected file name %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Saved file missing: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 3 || decoded.Bounds().Dy() != 2 {
		t.Errorf("Unexpected size %v", decoded.Bounds())
	}
}

func TestSameSecondSavesShareName(t *testing.T) {
	s := New(t.TempDir(), "")
	s.Now = fixedClock(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))

	first, err := s.Save(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Expected same-second saves to collide, got %s and %s", first, second)
	}
}

func TestSaveRejectsEmptyImage(t *testing.T) {
	s := New(t.TempDir(), "")
	if _, err := s.Save(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestSaveFailsWhenDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(filepath.Join(blocker, "sub"), "")
	if _, err := s.Save(image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("Expected directory creation to fail")
	}
}

func TestSaveBytesReturnsEncodedPNG(t *testing.T) {
	s := New(t.TempDir(), "")
	path, data, err := s.SaveBytes(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != string(data) {
		t.Error("Expected returned bytes to match the file")
	}
}
