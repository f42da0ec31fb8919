package tray

import (
	"bytes"
	"image"
	"image/png"
	"log"
	"sync"

	"draw-on-screen/src/annotate"
	"draw-on-screen/src/pen"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconPNG  []byte
)

// IconPNG returns the tray and window icon: a scribble in the first palette
// colours on a transparent background. It is rendered once.
func IconPNG() []byte {
	iconOnce.Do(func() {
		data, err := renderIcon()
		if err != nil {
			log.Printf("tray: icon render failed: %v", err)
			return
		}
		iconPNG = data
	})
	return iconPNG
}

func renderIcon() ([]byte, error) {
	c := annotate.NewCanvas(image.NewRGBA(image.Rect(0, 0, iconSize, iconSize)))

	strokes := []struct {
		color string
		width int
		pts   []image.Point
	}{
		{"red", 6, []image.Point{{5, 24}, {11, 10}, {17, 22}, {23, 8}}},
		{"blue", 4, []image.Point{{6, 28}, {27, 28}}},
		{"orange", 4, []image.Point{{26, 4}, {28, 6}}},
	}
	for _, s := range strokes {
		st := pen.NewStateWith(s.color, s.width)
		for i := 1; i < len(s.pts); i++ {
			c.Segment(s.pts[i-1], s.pts[i], st)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
