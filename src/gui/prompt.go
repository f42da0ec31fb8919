package gui

import (
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// AskText opens a modal one-line prompt over the overlay.
func (g *GUI) AskText(done func(text string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Text to place")
	form := dialog.NewForm("Enter text", "OK", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) { done(entry.Text, ok) },
		g.overlay)
	entry.OnSubmitted = func(string) { form.Submit() }
	form.Show()
	g.overlay.Canvas().Focus(entry)
}
