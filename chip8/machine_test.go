package chip8

import (
	"errors"
	"testing"
)

// counter is a ROM that increments V0 and loops: ADD V0, 1; JP 200.
var counter = []byte{0x70, 0x01, 0x12, 0x00}

func TestStepClock(t *testing.T) {
	m := newMachine(counter)
	m.Step(0.125) // 75 instructions
	if g, w := m.V[0], byte(38); g != w {
		t.Errorf("V0 = %d after 0.125s, want %d", g, w)
	}
	m.Step(0.125) // another 75
	if g, w := m.V[0], byte(75); g != w {
		t.Errorf("V0 = %d after 0.25s, want %d", g, w)
	}
}

func TestStepCarriesFractions(t *testing.T) {
	m := newMachine(counter)
	for i := 0; i < 8; i++ {
		m.Step(1.0 / 1024) // 0.5859375 instructions each
	}
	// 8 * 0.5859375 = 4.6875 instructions.
	if g, w := m.V[0], byte(2); g != w {
		t.Errorf("V0 = %d, want %d", g, w)
	}
}

func TestStepTimers(t *testing.T) {
	m := newMachine(counter)
	m.DT, m.ST = 10, 3
	if !m.Beeping() {
		t.Fatal("not beeping with ST = 3")
	}
	m.Step(1.0 / 60)
	if m.DT != 9 || m.ST != 2 {
		t.Errorf("DT, ST = %d, %d after one tick, want 9, 2", m.DT, m.ST)
	}
	m.Step(0.125) // 7.5 ticks
	if m.DT != 2 || m.ST != 0 {
		t.Errorf("DT, ST = %d, %d, want 2, 0", m.DT, m.ST)
	}
	if m.Beeping() {
		t.Error("beeping with ST = 0")
	}
	m.Step(0.125) // 7.5 ticks plus the half carried over
	if m.DT != 0 {
		t.Errorf("DT = %d, want 0", m.DT)
	}
}

func TestStepClamp(t *testing.T) {
	m := newMachine(counter)
	m.ST = 100
	m.Step(10)
	if g, w := m.ST, byte(100-MaxStep*TimerHz); g != w {
		t.Errorf("ST = %d after a long step, want %d", g, w)
	}
	if g, w := m.V[0], byte(MaxStep*ClockHz/2); g != w {
		t.Errorf("V0 = %d after a long step, want %d", g, w)
	}
}

func TestStepNegative(t *testing.T) {
	m := newMachine(counter)
	m.Step(-1)
	m.Step(1.0 / 512)
	if m.V[0] != 1 {
		t.Errorf("V0 = %d, want 1", m.V[0])
	}
}

func TestStepHalt(t *testing.T) {
	m := newMachine([]byte{0x60, 0x05, 0x51, 0x21})
	m.Step(MaxStep)
	var h HaltError
	if err := m.Halted(); !errors.As(err, &h) {
		t.Fatalf("Halted() = %v, want HaltError", err)
	}
	if h.HaltCode != InvalidOp || h.Addr != 0x202 || h.Op != 0x5121 {
		t.Errorf("halt = %+v", h)
	}
	m.ST = 5
	m.Step(MaxStep)
	if m.ST != 5 || m.PC != 0x202 {
		t.Errorf("halted machine advanced: ST = %d, PC = %.4x", m.ST, m.PC)
	}
	if err := m.StepInstruction(); err != h {
		t.Errorf("StepInstruction() = %v, want %v", err, h)
	}
}

func TestPause(t *testing.T) {
	m := newMachine(counter)
	m.ST = 5
	m.SetPaused(true)
	if !m.Paused() {
		t.Fatal("not paused")
	}
	m.Step(MaxStep)
	if m.V[0] != 0 || m.ST != 5 {
		t.Errorf("paused machine advanced: V0 = %d, ST = %d", m.V[0], m.ST)
	}
	if err := m.StepInstruction(); err != nil {
		t.Fatal(err)
	}
	if m.V[0] != 1 || m.PC != 0x202 {
		t.Errorf("after StepInstruction V0 = %d, PC = %.4x; want 1, 0202", m.V[0], m.PC)
	}
	m.SetPaused(false)
	m.Step(1.0 / 512)
	if m.PC != 0x200 {
		t.Errorf("PC = %.4x after resume, want 0200", m.PC)
	}
}

func TestKeys(t *testing.T) {
	m := newMachine(counter)
	m.SetKey(0xa)
	m.SetKey(0xa)
	if !m.Keys[0xa] {
		t.Error("key A not pressed")
	}
	m.UnsetKey(0xa)
	m.UnsetKey(0xa)
	if m.Keys[0xa] {
		t.Error("key A still pressed")
	}
}

func TestScreenRow(t *testing.T) {
	m := newMachine(counter)
	row := m.ScreenRow(5)
	if len(row) != Width {
		t.Fatalf("len(row) = %d, want %d", len(row), Width)
	}
	m.Disp[5][7] = 1
	if m.ScreenRow(5)[7] != 1 {
		t.Error("ScreenRow does not reflect the display")
	}
}

func TestOpString(t *testing.T) {
	for _, c := range []struct {
		op   Op
		want string
	}{
		{0x00e0, "CLS"},
		{0x00ee, "RET"},
		{0x0123, "SYS 123"},
		{0x1234, "JP 234"},
		{0x6a02, "LD VA, 02"},
		{0x8126, "SHR V1, V2"},
		{0xd01f, "DRW V0, V1, F"},
		{0xe59e, "SKP V5"},
		{0xf30a, "LD V3, K"},
		{0xf265, "LD V2, [I]"},
		{0x5121, "DW 5121"},
		{0xf1ff, "DW f1ff"},
	} {
		if g := c.op.String(); g != c.want {
			t.Errorf("Op(%.4x).String() = %q, want %q", uint16(c.op), g, c.want)
		}
	}
}
