package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/ch8/chip8"
	"github.com/nf/ch8/host"
	"github.com/nf/ch8/keypad"
	"github.com/nf/ch8/runloop"
)

// debugger is a terminal UI that shows the machine state and accepts
// commands. It never touches the machine directly; commands are posted
// to the host and run on the loop goroutine.
type debugger struct {
	h host.Host

	log   *tview.TextView
	regs  *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu  sync.Mutex
	rom []byte // loaded by reset
}

func newDebugger(h host.Host, rom []byte) *debugger {
	d := &debugger{
		h:   h,
		rom: rom,
		log: tview.NewTextView().
			SetMaxLines(1000),
		regs: tview.NewTextView().
			SetWrap(false).
			SetDynamicColors(true),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.regs.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.log, 0, 2, false).
		AddItem(d.regs, 24, 0, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 2, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(d.input.GetText())
		if cmd == "" {
			return
		}
		d.input.SetText("")
		d.command(cmd)
	})
	return d
}

func (d *debugger) command(cmd string) {
	switch cmd {
	case "exit", "quit":
		d.app.Stop()
	case "p", "pause":
		d.call(func(m *chip8.Machine) {
			m.SetPaused(true)
			log.Print("paused")
		})
	case "c", "cont":
		d.call(func(m *chip8.Machine) {
			m.SetPaused(false)
			log.Print("continuing")
		})
	case "s", "step":
		d.call(func(m *chip8.Machine) {
			m.SetPaused(true)
			if err := m.StepInstruction(); err != nil {
				log.Print(err)
			}
		})
	case "r", "reset":
		d.mu.Lock()
		rom := d.rom
		d.mu.Unlock()
		d.h.Post(runloop.Event{Load: rom})
	default:
		log.Printf("unknown command %q (pause, cont, step, reset, exit)", cmd)
	}
}

// call runs f against the machine on the loop goroutine
// and then refreshes the display.
func (d *debugger) call(f func(*chip8.Machine)) {
	d.h.Post(runloop.Event{Call: func(m runloop.Machine) {
		c, ok := m.(*chip8.Machine)
		if !ok {
			log.Printf("debug: unexpected machine %T", m)
			return
		}
		f(c)
		d.StateFunc(m)
	}})
}

func (d *debugger) setROM(rom []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rom = rom
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) Stop() { d.app.Stop() }

// StateFunc publishes the state of m to the debugger.
// It must be called on the loop goroutine.
func (d *debugger) StateFunc(m runloop.Machine) {
	c, ok := m.(*chip8.Machine)
	if !ok {
		return
	}
	var (
		kind  = stateOf(c)
		state = stateMsg(c, kind)
		regs  = regsContent(c)
	)
	d.app.QueueUpdateDraw(func() {
		switch kind {
		case runState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case pauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case haltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.state.SetText(state)
		d.regs.SetText(regs)
	})
}

type stateKind int

const (
	runState stateKind = iota
	pauseState
	haltState
)

func stateOf(m *chip8.Machine) stateKind {
	switch {
	case m.Halted() != nil:
		return haltState
	case m.Paused():
		return pauseState
	}
	return runState
}

func stateMsg(m *chip8.Machine, k stateKind) string {
	kind := "       "
	switch k {
	case pauseState:
		kind = "[pause]"
	case haltState:
		kind = "[HALT!]"
	}
	if m.Waiting {
		kind += " [key]"
	}
	return fmt.Sprintf("%.4x %-16s %s\nI %.4x DT %.2x ST %.2x SP %x",
		m.PC, m.NextOp(), kind, m.I, m.DT, m.ST, m.SP)
}

// regsContent formats the registers, the call stack and the keypad,
// with pressed keys highlighted.
func regsContent(m *chip8.Machine) string {
	var b strings.Builder
	for i, v := range m.V {
		fmt.Fprintf(&b, "V%X %.2x", i, v)
		if i%2 == 0 {
			b.WriteString("   ")
		} else {
			b.WriteByte('\n')
		}
	}
	b.WriteString("\nstack")
	for _, a := range m.Stack[:m.SP] {
		fmt.Fprintf(&b, " %.3x", a)
	}
	b.WriteString("\n\n")
	for i, k := range keypad.Layout() {
		if m.Keys[k] {
			fmt.Fprintf(&b, " [black:white]%X[-:-]", k)
		} else {
			fmt.Fprintf(&b, " %X", k)
		}
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
