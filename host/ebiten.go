package host

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/mobile/event/key"

	"github.com/nf/ch8/raster"
	"github.com/nf/ch8/runloop"
)

// ebitenHost implements ebiten.Game. Ebiten calls Update at a fixed rate
// and Draw once per frame, both on the main thread.
type ebitenHost struct {
	Queue
	opts Options

	loop *runloop.Loop
	last time.Time
	keys []ebiten.Key
}

func (h *ebitenHost) Run(l *runloop.Loop) error {
	h.loop = l
	ebiten.SetWindowSize(h.opts.Width, h.opts.Height)
	ebiten.SetWindowTitle(runloop.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}

func (h *ebitenHost) SetTitle(s string) { ebiten.SetWindowTitle(s) }

func (h *ebitenHost) Update() error {
	for n := len(h.Queue); n > 0; n-- {
		e := <-h.Queue
		if e.Quit {
			return ebiten.Termination
		}
		h.loop.Dispatch(h, e)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := time.Now()
	dt := 1 / float64(ebiten.TPS())
	if !h.last.IsZero() {
		dt = now.Sub(h.last).Seconds()
	}
	h.last = now
	h.loop.Dispatch(h, runloop.Event{Update: &runloop.UpdateArgs{DT: dt}})

	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		h.loop.Dispatch(h, runloop.Event{Press: &runloop.ButtonArgs{Code: keyCode(k)}})
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		h.loop.Dispatch(h, runloop.Event{Release: &runloop.ButtonArgs{Code: keyCode(k)}})
	}
	return nil
}

func (h *ebitenHost) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	h.loop.Dispatch(h, runloop.Event{Render: &runloop.RenderArgs{
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
		Canvas: ebitenCanvas{screen},
	}})
}

func (h *ebitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

type ebitenCanvas struct {
	dst *ebiten.Image
}

func (c ebitenCanvas) Clear(col color.Color) { c.dst.Fill(col) }

func (c ebitenCanvas) FillRect(x, y, w, h float64, col color.Color) {
	r := raster.Bounds(x, y, w, h)
	if r.Empty() {
		return
	}
	c.dst.SubImage(r).(*ebiten.Image).Fill(col)
}

func keyCode(k ebiten.Key) key.Code {
	if c, ok := ebitenKeys[k]; ok {
		return c
	}
	return key.CodeUnknown
}

var ebitenKeys = map[ebiten.Key]key.Code{
	ebiten.KeyA: key.CodeA,
	ebiten.KeyB: key.CodeB,
	ebiten.KeyC: key.CodeC,
	ebiten.KeyD: key.CodeD,
	ebiten.KeyE: key.CodeE,
	ebiten.KeyF: key.CodeF,
	ebiten.KeyG: key.CodeG,
	ebiten.KeyH: key.CodeH,
	ebiten.KeyI: key.CodeI,
	ebiten.KeyJ: key.CodeJ,
	ebiten.KeyK: key.CodeK,
	ebiten.KeyL: key.CodeL,
	ebiten.KeyM: key.CodeM,
	ebiten.KeyN: key.CodeN,
	ebiten.KeyO: key.CodeO,
	ebiten.KeyP: key.CodeP,
	ebiten.KeyQ: key.CodeQ,
	ebiten.KeyR: key.CodeR,
	ebiten.KeyS: key.CodeS,
	ebiten.KeyT: key.CodeT,
	ebiten.KeyU: key.CodeU,
	ebiten.KeyV: key.CodeV,
	ebiten.KeyW: key.CodeW,
	ebiten.KeyX: key.CodeX,
	ebiten.KeyY: key.CodeY,
	ebiten.KeyZ: key.CodeZ,

	ebiten.KeyDigit0: key.Code0,
	ebiten.KeyDigit1: key.Code1,
	ebiten.KeyDigit2: key.Code2,
	ebiten.KeyDigit3: key.Code3,
	ebiten.KeyDigit4: key.Code4,
	ebiten.KeyDigit5: key.Code5,
	ebiten.KeyDigit6: key.Code6,
	ebiten.KeyDigit7: key.Code7,
	ebiten.KeyDigit8: key.Code8,
	ebiten.KeyDigit9: key.Code9,

	ebiten.KeyEscape:     key.CodeEscape,
	ebiten.KeyEnter:      key.CodeReturnEnter,
	ebiten.KeySpace:      key.CodeSpacebar,
	ebiten.KeyTab:        key.CodeTab,
	ebiten.KeyBackspace:  key.CodeDeleteBackspace,
	ebiten.KeyArrowUp:    key.CodeUpArrow,
	ebiten.KeyArrowDown:  key.CodeDownArrow,
	ebiten.KeyArrowLeft:  key.CodeLeftArrow,
	ebiten.KeyArrowRight: key.CodeRightArrow,
}
