package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultDir    = "DrawingAppImg"
	DefaultPrefix = "DrawOnScreen"

	// TimestampLayout has second resolution: two saves in the same second
	// share a name and the later one overwrites the earlier.
	TimestampLayout = "2006-01-02-15-04-05"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Store writes annotated regions as timestamped PNG files.
type Store struct {
	Dir    string
	Prefix string
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// New returns a store rooted at dir, using the defaults for empty values.
func New(dir, prefix string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{Dir: dir, Prefix: prefix}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Name returns the file path a save at t would use (local time).
func (s *Store) Name(t time.Time) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s-%s.png", s.Prefix, t.Local().Format(TimestampLayout)))
}

// EnsureDir creates the output directory if it is missing.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.Dir, err)
	}
	return nil
}

// Save encodes img as PNG under the output directory and returns the path.
func (s *Store) Save(img image.Image) (string, error) {
	path, _, err := s.SaveBytes(img)
	return path, err
}

// SaveBytes is Save that also hands back the encoded PNG.
func (s *Store) SaveBytes(img image.Image) (string, []byte, error) {
	if img == nil || img.Bounds().Empty() {
		return "", nil, ErrEmptyImage
	}
	if err := s.EnsureDir(); err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("encode png: %w", err)
	}

	path := s.Name(s.now())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}
	return path, buf.Bytes(), nil
}

// Abs resolves the output directory for display (tray "open folder").
func (s *Store) Abs() string {
	if abs, err := filepath.Abs(s.Dir); err == nil {
		return abs
	}
	return s.Dir
}
