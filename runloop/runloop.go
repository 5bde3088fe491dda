// Package runloop drives a CHIP-8 machine from host window events.
//
// A host delivers events one at a time to Loop.Dispatch from the single
// goroutine that owns the window. Each event may carry a timer tick, a
// render request and key presses or releases; Dispatch handles whichever
// are present, in that order:
//
//  1. Update: step the machine by the elapsed time, then set the window
//     title according to whether the machine is beeping.
//  2. Render: rasterize the machine's current display onto the canvas.
//  3. Press: set the mapped keypad key.
//  4. Release: unset the mapped keypad key.
package runloop

import (
	"log"

	"golang.org/x/mobile/event/key"

	"github.com/nf/ch8/keypad"
	"github.com/nf/ch8/raster"
)

// Window titles.
const (
	Title     = "Chip8"
	BeepTitle = "♬ Chip8 ♬"
)

// Machine is the virtual machine driven by a Loop.
type Machine interface {
	// Step advances the machine by dt seconds.
	Step(dt float64)
	// Beeping reports whether the sound timer is running.
	Beeping() bool
	// SetKey and UnsetKey press and release keypad key code (0-15).
	SetKey(code byte)
	UnsetKey(code byte)
	// ScreenRow returns the current pixels of display row y.
	ScreenRow(y int) []byte
}

// Factory builds a Machine running rom.
type Factory func(rom []byte) (Machine, error)

// Window is the part of the host window that the Loop mutates.
type Window interface {
	SetTitle(title string)
}

// UpdateArgs carries a timer tick.
type UpdateArgs struct {
	DT float64 // seconds since the previous tick
}

// RenderArgs carries a request to draw a frame.
type RenderArgs struct {
	Width, Height float64
	Canvas        raster.Canvas
}

// ButtonArgs identifies a host key.
type ButtonArgs struct {
	Code key.Code
}

// Event is a host event. Nil fields are absent.
type Event struct {
	Update  *UpdateArgs
	Render  *RenderArgs
	Press   *ButtonArgs
	Release *ButtonArgs

	// Load replaces the machine with one running the given ROM.
	// If the new machine cannot be built the old one keeps running.
	Load []byte
	// Call is invoked with the machine before any other field is handled.
	Call func(Machine)
	// Quit asks the host to stop delivering events.
	Quit bool
}

// Loop owns a Machine and applies host events to it.
type Loop struct {
	vm   Machine
	load Factory

	// OnStep, if set, is called with the machine after every Update.
	OnStep func(Machine)
}

// New builds a Machine from rom using load and returns a Loop driving it.
// Any error from load is returned and no Loop is created.
func New(rom []byte, load Factory) (*Loop, error) {
	vm, err := load(rom)
	if err != nil {
		return nil, err
	}
	return &Loop{vm: vm, load: load}, nil
}

// Machine returns the machine currently driven by the loop.
func (l *Loop) Machine() Machine { return l.vm }

// Dispatch applies e to the machine, updating win and drawing as required.
// It must only be called from the goroutine that owns win.
func (l *Loop) Dispatch(win Window, e Event) {
	if e.Load != nil {
		l.reload(e.Load)
	}
	if e.Call != nil {
		e.Call(l.vm)
	}
	if u := e.Update; u != nil {
		l.vm.Step(u.DT)
		if l.vm.Beeping() {
			win.SetTitle(BeepTitle)
		} else {
			win.SetTitle(Title)
		}
		if l.OnStep != nil {
			l.OnStep(l.vm)
		}
	}
	if r := e.Render; r != nil {
		raster.Draw(r.Canvas, raster.GridFunc(l.vm.ScreenRow), r.Width, r.Height)
	}
	if b := e.Press; b != nil {
		if code, ok := keypad.Map(b.Code); ok {
			l.vm.SetKey(code)
		}
	}
	if b := e.Release; b != nil {
		if code, ok := keypad.Map(b.Code); ok {
			l.vm.UnsetKey(code)
		}
	}
}

func (l *Loop) reload(rom []byte) {
	vm, err := l.load(rom)
	if err != nil {
		log.Printf("reload: %v", err)
		return
	}
	l.vm = vm
	log.Printf("reload: %d byte rom", len(rom))
}

// Source is a pull-based supply of host events.
// NextEvent blocks until an event is available and
// returns false once the source is exhausted.
type Source interface {
	NextEvent() (Event, bool)
}

// Run dispatches events from src until it is exhausted
// or delivers an event with Quit set.
func (l *Loop) Run(src Source, win Window) {
	for {
		e, ok := src.NextEvent()
		if !ok || e.Quit {
			return
		}
		l.Dispatch(win, e)
	}
}
