package host

import (
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/mobile/event/key"

	"github.com/nf/ch8/keypad"
	"github.com/nf/ch8/raster"
	"github.com/nf/ch8/runloop"
)

// holdTime is how long a key stays down after the terminal last reported
// it. Terminals report key presses (and auto-repeats) but never releases.
const holdTime = 250 * time.Millisecond

// termHost draws the display in a terminal with half-block characters,
// two pixels per cell, below a one-line title bar.
type termHost struct {
	Queue
	title string
}

func (h *termHost) Run(l *runloop.Loop) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	h.title = runloop.Title

	done := make(chan struct{})
	defer close(done)
	go h.pump(s, done)

	l.Run(&termSource{h: h, s: s, held: map[key.Code]time.Time{}}, h)
	return nil
}

func (h *termHost) SetTitle(s string) { h.title = s }

type frame struct{}

func (h *termHost) pump(s tcell.Screen, done <-chan struct{}) {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			// Drop the frame if the screen's queue is full.
			s.PostEvent(tcell.NewEventInterrupt(frame{}))
		case e := <-h.Queue:
			s.PostEventWait(tcell.NewEventInterrupt(e))
		case <-done:
			return
		}
	}
}

type termSource struct {
	h *termHost
	s tcell.Screen

	img   *image.RGBA
	held  map[key.Code]time.Time // key -> release deadline
	last  time.Time
	dirty bool

	pending []runloop.Event
}

func (t *termSource) NextEvent() (runloop.Event, bool) {
	for {
		if len(t.pending) > 0 {
			e := t.pending[0]
			t.pending = t.pending[1:]
			return e, true
		}
		if t.dirty {
			t.flush()
			t.dirty = false
		}

		switch ev := t.s.PollEvent().(type) {
		case nil:
			return runloop.Event{}, false

		case *tcell.EventInterrupt:
			switch d := ev.Data().(type) {
			case frame:
				t.frame(ev.When())
			case runloop.Event:
				return d, true
			}

		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return runloop.Event{}, false
			case tcell.KeyRune:
				c := keypad.RuneCode(ev.Rune())
				_, down := t.held[c]
				t.held[c] = ev.When().Add(holdTime)
				if !down {
					return runloop.Event{Press: &runloop.ButtonArgs{Code: c}}, true
				}
			}

		case *tcell.EventResize:
			t.s.Sync()
		}
	}
}

// frame queues key releases that have come due, then a tick and a redraw.
func (t *termSource) frame(now time.Time) {
	for c, deadline := range t.held {
		if now.After(deadline) {
			delete(t.held, c)
			t.pending = append(t.pending, runloop.Event{Release: &runloop.ButtonArgs{Code: c}})
		}
	}

	dt := 1.0 / 60
	if !t.last.IsZero() {
		dt = now.Sub(t.last).Seconds()
	}
	t.last = now
	e := runloop.Event{Update: &runloop.UpdateArgs{DT: dt}}

	cols, rows := t.s.Size()
	if rows > 1 && cols > 0 {
		r := image.Rect(0, 0, cols, (rows-1)*2)
		if t.img == nil || t.img.Bounds() != r {
			t.img = image.NewRGBA(r)
		}
		e.Render = &runloop.RenderArgs{
			Width:  float64(r.Dx()),
			Height: float64(r.Dy()),
			Canvas: raster.Image{Image: t.img},
		}
		t.dirty = true
	}
	t.pending = append(t.pending, e)
}

// flush copies the rendered image and the title to the terminal.
func (t *termSource) flush() {
	cols, _ := t.s.Size()
	title := []rune(t.h.title)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(title) {
			r = title[x]
		}
		t.s.SetContent(x, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}

	b := t.img.Bounds()
	for y := 0; y < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			st := tcell.StyleDefault.
				Foreground(termColor(t.img.RGBAAt(x, y))).
				Background(termColor(t.img.RGBAAt(x, y+1)))
			t.s.SetContent(x, 1+y/2, '▀', nil, st)
		}
	}
	t.s.Show()
}

func termColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
