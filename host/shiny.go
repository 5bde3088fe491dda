package host

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/ch8/raster"
	"github.com/nf/ch8/runloop"
)

// shinyHost drives the loop from a shiny window's event queue.
// Shiny cannot retitle a window once it is open, so title changes
// are logged instead.
type shinyHost struct {
	Queue
	opts  Options
	title string
}

func (h *shinyHost) Run(l *runloop.Loop) (err error) {
	h.title = runloop.Title
	driver.Main(func(s screen.Screen) {
		w, werr := s.NewWindow(&screen.NewWindowOptions{
			Title:  h.title,
			Width:  h.opts.Width,
			Height: h.opts.Height,
		})
		if werr != nil {
			err = werr
			return
		}
		defer w.Release()

		done := make(chan struct{})
		defer close(done)
		go h.pump(w, done)

		l.Run(&shinySource{w: w}, h)
	})
	return
}

func (h *shinyHost) SetTitle(s string) {
	if s == h.title {
		return
	}
	h.title = s
	log.Printf("title: %s", s)
}

type tick struct{}

// pump feeds ticks and queued events into w until done is closed.
func (h *shinyHost) pump(w screen.Window, done <-chan struct{}) {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			w.Send(tick{})
		case e := <-h.Queue:
			w.Send(e)
		case <-done:
			return
		}
	}
}

// shinySource translates shiny window events into loop events.
type shinySource struct {
	w     screen.Window
	size  size.Event
	last  time.Time
	dirty bool
}

func (s *shinySource) NextEvent() (runloop.Event, bool) {
	for {
		if s.dirty {
			s.w.Publish()
			s.dirty = false
		}

		switch e := s.w.NextEvent().(type) {
		case tick:
			now := time.Now()
			dt := 1.0 / 60
			if !s.last.IsZero() {
				dt = now.Sub(s.last).Seconds()
			}
			s.last = now
			s.w.Send(paint.Event{})
			return runloop.Event{Update: &runloop.UpdateArgs{DT: dt}}, true

		case paint.Event:
			if s.size.WidthPx == 0 || s.size.HeightPx == 0 {
				continue
			}
			s.dirty = true
			return runloop.Event{Render: &runloop.RenderArgs{
				Width:  float64(s.size.WidthPx),
				Height: float64(s.size.HeightPx),
				Canvas: shinyCanvas{w: s.w, r: s.size.Bounds()},
			}}, true

		case key.Event:
			b := &runloop.ButtonArgs{Code: e.Code}
			switch e.Direction {
			case key.DirPress:
				if e.Code == key.CodeEscape {
					return runloop.Event{}, false
				}
				return runloop.Event{Press: b}, true
			case key.DirRelease:
				return runloop.Event{Release: b}, true
			}

		case runloop.Event:
			return e, true

		case size.Event:
			s.size = e
			if e.WidthPx+e.HeightPx == 0 {
				return runloop.Event{}, false
			}

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return runloop.Event{}, false
			}

		case mouse.Event:
			// Ignored.

		case error:
			log.Print(e)

		default:
			format := "unhandled event %#v"
			if _, ok := e.(fmt.Stringer); ok {
				format = "unhandled event %v"
			}
			log.Printf(format, e)
		}
	}
}

type shinyCanvas struct {
	w screen.Window
	r image.Rectangle
}

func (c shinyCanvas) Clear(col color.Color) { c.w.Fill(c.r, col, draw.Src) }

func (c shinyCanvas) FillRect(x, y, w, h float64, col color.Color) {
	c.w.Fill(raster.Bounds(x, y, w, h), col, draw.Src)
}
