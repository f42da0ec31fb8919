package session

import (
	"image"
	"log"

	"draw-on-screen/src/annotate"
	"draw-on-screen/src/pen"
)

// State is the pointer interaction state of the overlay.
type State int

const (
	Idle State = iota
	Drawing
	TextPrompt
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case TextPrompt:
		return "text-prompt"
	default:
		return "unknown"
	}
}

// Prompter asks the user for one line of text. done must be called exactly
// once, on the UI thread, with ok=false when the prompt was cancelled.
type Prompter interface {
	AskText(done func(text string, ok bool))
}

// Session owns the pen, the mode and the stroke in progress for one overlay.
// It is confined to the UI thread.
type Session struct {
	canvas   *annotate.Canvas
	prompter Prompter
	pen      pen.State
	mode     pen.Mode
	state    State

	last    image.Point
	hasLast bool

	onChange func()
}

func New(canvas *annotate.Canvas, prompter Prompter, p pen.State) *Session {
	if canvas == nil {
		canvas = annotate.NewCanvas(nil)
	}
	return &Session{canvas: canvas, prompter: prompter, pen: p, mode: pen.ModeDraw}
}

// OnChange registers the repaint hook, called after the canvas changes.
func (s *Session) OnChange(fn func()) { s.onChange = fn }

func (s *Session) Canvas() *annotate.Canvas { return s.canvas }
func (s *Session) Pen() pen.State           { return s.pen }
func (s *Session) Mode() pen.Mode           { return s.mode }
func (s *Session) State() State             { return s.state }

func (s *Session) SetPenColor(name string) error {
	if err := s.pen.SetColor(name); err != nil {
		return err
	}
	log.Printf("session: pen %s", s.pen)
	return nil
}

func (s *Session) SetPenWidth(w int) error {
	if err := s.pen.SetWidth(w); err != nil {
		return err
	}
	log.Printf("session: pen %s", s.pen)
	return nil
}

func (s *Session) EnableDrawMode() { s.setMode(pen.ModeDraw) }
func (s *Session) EnableTextMode() { s.setMode(pen.ModeText) }

func (s *Session) setMode(m pen.Mode) {
	if s.mode == m {
		return
	}
	s.mode = m
	s.endStroke()
	log.Printf("session: mode %s", m)
}

// PointerPress starts a stroke in draw mode or opens the text prompt in
// text mode. Input is ignored while a prompt is open.
func (s *Session) PointerPress(p image.Point) {
	if s.state == TextPrompt {
		return
	}
	switch s.mode {
	case pen.ModeDraw:
		s.state = Drawing
		s.hasLast = false
	case pen.ModeText:
		s.promptText(p)
	}
}

// PointerDrag extends the current stroke. The first sample after a press
// only records the position. Reports whether a segment was drawn.
func (s *Session) PointerDrag(p image.Point) bool {
	if s.mode != pen.ModeDraw || s.state == TextPrompt {
		return false
	}
	// Some toolkits deliver drags without a press (e.g. press on another
	// window); treat the first sample as the stroke start.
	s.state = Drawing
	if !s.hasLast {
		s.last, s.hasLast = p, true
		return false
	}
	s.canvas.Segment(s.last, p, s.pen)
	s.last = p
	s.changed()
	return true
}

// PointerRelease ends the current stroke.
func (s *Session) PointerRelease() {
	if s.state == TextPrompt {
		return
	}
	s.endStroke()
}

// Reset ends any stroke in progress; an open prompt stays open.
func (s *Session) Reset() {
	if s.state == TextPrompt {
		return
	}
	s.endStroke()
}

func (s *Session) endStroke() {
	s.hasLast = false
	if s.state == Drawing {
		s.state = Idle
	}
}

func (s *Session) promptText(at image.Point) {
	if s.prompter == nil {
		log.Printf("session: text mode without a prompter, click at %v ignored", at)
		return
	}
	s.state = TextPrompt
	s.prompter.AskText(func(text string, ok bool) {
		s.state = Idle
		if !ok || text == "" {
			return
		}
		if _, err := s.canvas.Text(at, text, s.pen); err != nil {
			log.Printf("session: text render failed: %v", err)
			return
		}
		s.changed()
	})
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
