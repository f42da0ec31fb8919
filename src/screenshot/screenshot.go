package screenshot

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Grabber reads a rectangle of the virtual screen.
type Grabber interface {
	CaptureRect(r image.Rectangle) (*image.RGBA, error)
}

// GrabberFunc adapts a function to Grabber.
type GrabberFunc func(r image.Rectangle) (*image.RGBA, error)

func (f GrabberFunc) CaptureRect(r image.Rectangle) (*image.RGBA, error) { return f(r) }

// Screen is the Grabber backed by the operating system's display APIs.
type Screen struct{}

func (Screen) CaptureRect(r image.Rectangle) (*image.RGBA, error) { return CaptureRect(r) }

// Capture captures the entire virtual screen across all active displays
func Capture() (*image.RGBA, error) {
	union, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	return CaptureRect(union)
}

// CaptureRect captures a specific rectangle of the screen, in absolute
// virtual-screen coordinates.
func CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", r.Dx(), r.Dy())
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %v: %w", r, err)
	}
	return img, nil
}

// DisplayBounds returns the bounds of every active display, primary first.
func DisplayBounds() ([]image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = screenshot.GetDisplayBounds(i)
	}
	return out, nil
}

// PrimaryBounds returns the bounds of the primary display
func PrimaryBounds() (image.Rectangle, error) {
	all, err := DisplayBounds()
	if err != nil {
		return image.Rectangle{}, err
	}
	return all[0], nil
}

// VirtualBounds returns the union of all active displays.
func VirtualBounds() (image.Rectangle, error) {
	all, err := DisplayBounds()
	if err != nil {
		return image.Rectangle{}, err
	}
	union := all[0]
	for _, b := range all[1:] {
		union = union.Union(b)
	}
	return union, nil
}
