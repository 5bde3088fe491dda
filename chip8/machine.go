// Package chip8 provides an implementation of the CHIP-8 virtual machine,
// called Machine, driven by wall-clock time.
package chip8

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

const (
	// Display dimensions.
	Width  = 64
	Height = 32

	// ProgramAddr is where ROMs are loaded and execution begins.
	ProgramAddr = 0x200

	// MaxROMSize is the largest ROM that fits in memory.
	MaxROMSize = memSize - ProgramAddr

	// ClockHz is the number of instructions executed per second.
	ClockHz = 600

	// TimerHz is the rate at which the delay and sound timers count down.
	TimerHz = 60

	// MaxStep is the most time, in seconds, that a single Step will
	// emulate. Longer intervals (after the host stalls, say) are cut short
	// rather than run flat out to catch up.
	MaxStep = 0.25

	memSize  = 0x1000
	fontAddr = 0x000
)

var font = [16 * 5]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Machine is an implementation of the CHIP-8 virtual machine.
type Machine struct {
	Mem   [memSize]byte
	V     [16]byte
	I     uint16
	PC    uint16
	SP    byte
	Stack [16]uint16
	DT    byte // delay timer
	ST    byte // sound timer
	Keys  [16]bool
	Disp  [Height][Width]byte

	// Waiting reports that the machine is blocked in LD Vx, K
	// until a key is pressed; WaitReg is x.
	Waiting bool
	WaitReg byte

	paused bool
	halt   error

	cycles float64 // instructions owed
	ticks  float64 // timer ticks owed

	rnd *rand.Rand
}

var ErrEmptyROM = errors.New("rom is empty")

// New returns a Machine with rom loaded at ProgramAddr.
// It returns an error if rom is empty or too large to fit in memory.
func New(rom []byte) (*Machine, error) {
	if len(rom) == 0 {
		return nil, ErrEmptyROM
	}
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("rom is %d bytes, larger than the maximum %d", len(rom), MaxROMSize)
	}
	return newMachine(rom), nil
}

func newMachine(rom []byte) *Machine {
	m := &Machine{
		PC:  ProgramAddr,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.Mem[fontAddr:], font[:])
	copy(m.Mem[ProgramAddr:], rom)
	return m
}

// Step advances the machine by dt seconds of wall-clock time, executing
// ClockHz instructions and TimerHz timer ticks per second. Fractions of an
// instruction or tick are carried over to the next Step. At most MaxStep
// seconds are emulated per call.
//
// Step does nothing while the machine is paused or halted.
// If an instruction halts the machine, the error is logged
// and is thereafter reported by Halted.
func (m *Machine) Step(dt float64) {
	if m.paused || m.halt != nil {
		return
	}
	if dt > MaxStep {
		dt = MaxStep
	}
	if dt < 0 {
		dt = 0
	}

	m.ticks += dt * TimerHz
	for ; m.ticks >= 1; m.ticks-- {
		if m.DT > 0 {
			m.DT--
		}
		if m.ST > 0 {
			m.ST--
		}
	}

	m.cycles += dt * ClockHz
	for ; m.cycles >= 1; m.cycles-- {
		if err := m.Exec(); err != nil {
			m.halt = err
			m.cycles = 0
			log.Printf("chip8: %v", err)
			return
		}
	}
}

// StepInstruction executes a single instruction, even while paused.
func (m *Machine) StepInstruction() error {
	if m.halt != nil {
		return m.halt
	}
	if err := m.Exec(); err != nil {
		m.halt = err
		return err
	}
	return nil
}

// Beeping reports whether the sound timer is running.
func (m *Machine) Beeping() bool { return m.ST > 0 }

// SetKey marks keypad key k as pressed.
// If the machine is waiting for a key, k is stored and execution resumes.
func (m *Machine) SetKey(k byte) {
	k &= 0xf
	m.Keys[k] = true
	if m.Waiting {
		m.V[m.WaitReg] = k
		m.Waiting = false
	}
}

// UnsetKey marks keypad key k as released.
func (m *Machine) UnsetKey(k byte) {
	m.Keys[k&0xf] = false
}

// ScreenRow returns row y of the display. The slice aliases the display
// and must not be modified.
func (m *Machine) ScreenRow(y int) []byte {
	return m.Disp[y][:]
}

// SetPaused pauses or resumes execution by Step.
func (m *Machine) SetPaused(p bool) { m.paused = p }

// Paused reports whether the machine is paused.
func (m *Machine) Paused() bool { return m.paused }

// Halted returns the error that halted the machine, or nil.
func (m *Machine) Halted() error { return m.halt }

// NextOp returns the instruction at PC.
func (m *Machine) NextOp() Op {
	return Op(uint16(m.Mem[m.PC&0xfff])<<8 | uint16(m.Mem[(m.PC+1)&0xfff]))
}
