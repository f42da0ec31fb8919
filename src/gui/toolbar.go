package gui

import (
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"draw-on-screen/src/pen"
)

// newToolbar lays out the colour swatches, the width buttons and the two
// mode buttons.
func newToolbar(a Actions) fyne.CanvasObject {
	colors := container.NewGridWithColumns(len(pen.Palette))
	for _, sw := range pen.Palette {
		colors.Add(swatchButton(sw, a))
	}

	widths := container.NewGridWithColumns(len(pen.Widths))
	for _, w := range pen.Widths {
		w := w
		widths.Add(widget.NewButton(strconv.Itoa(w), func() {
			if err := a.SetPenWidth(w); err != nil {
				log.Printf("gui: %v", err)
			}
		}))
	}

	modes := container.NewGridWithColumns(2,
		widget.NewButton("Text", a.EnableTextMode),
		widget.NewButton("Draw", a.EnableDrawMode),
	)

	return container.NewVBox(colors, widths, layout.NewSpacer(), modes)
}

func swatchButton(sw pen.Swatch, a Actions) fyne.CanvasObject {
	b := widget.NewButton("", func() {
		if err := a.SetPenColor(sw.Name); err != nil {
			log.Printf("gui: %v", err)
		}
	})
	b.Importance = widget.LowImportance
	rect := canvas.NewRectangle(sw.Color)
	rect.SetMinSize(fyne.NewSize(40, 30))
	return container.NewStack(rect, b)
}
