package chip8

import "fmt"

// Exec executes the instruction at m.PC. It returns a non-nil error only if
// it encounters a halt condition. While the machine is waiting for a key
// press Exec does nothing.
func (m *Machine) Exec() error {
	if m.Waiting {
		return nil
	}
	if m.PC > memSize-2 {
		return HaltError{HaltCode: BadAddress, Addr: m.PC}
	}

	var (
		op   = m.NextOp()
		opPC = m.PC
		x, y = op.X(), op.Y()
		v    = &m.V
	)
	halt := func(c HaltCode) error {
		return HaltError{HaltCode: c, Op: op, Addr: opPC}
	}
	if !op.Valid() {
		return halt(InvalidOp)
	}

	m.PC += 2

	switch op.Class() {
	case 0x0:
		switch op {
		case 0x00e0: // CLS
			m.Disp = [Height][Width]byte{}
		case 0x00ee: // RET
			if m.SP == 0 {
				return halt(Underflow)
			}
			m.SP--
			m.PC = m.Stack[m.SP]
		default:
			// SYS addr calls machine code on the original hardware;
			// it is ignored.
		}
	case 0x1: // JP addr
		m.PC = op.NNN()
	case 0x2: // CALL addr
		if int(m.SP) == len(m.Stack) {
			return halt(Overflow)
		}
		m.Stack[m.SP] = m.PC
		m.SP++
		m.PC = op.NNN()
	case 0x3: // SE Vx, byte
		if v[x] == op.KK() {
			m.PC += 2
		}
	case 0x4: // SNE Vx, byte
		if v[x] != op.KK() {
			m.PC += 2
		}
	case 0x5: // SE Vx, Vy
		if v[x] == v[y] {
			m.PC += 2
		}
	case 0x6: // LD Vx, byte
		v[x] = op.KK()
	case 0x7: // ADD Vx, byte
		v[x] += op.KK()
	case 0x8:
		m.alu(op.N(), x, y)
	case 0x9: // SNE Vx, Vy
		if v[x] != v[y] {
			m.PC += 2
		}
	case 0xa: // LD I, addr
		m.I = op.NNN()
	case 0xb: // JP V0, addr
		m.PC = op.NNN() + uint16(v[0])
	case 0xc: // RND Vx, byte
		v[x] = byte(m.rnd.Intn(256)) & op.KK()
	case 0xd: // DRW Vx, Vy, nibble
		m.draw(v[x], v[y], op.N())
	case 0xe:
		pressed := m.Keys[v[x]&0xf]
		if op.KK() == 0x9e && pressed || op.KK() == 0xa1 && !pressed {
			m.PC += 2
		}
	case 0xf:
		switch op.KK() {
		case 0x07: // LD Vx, DT
			v[x] = m.DT
		case 0x0a: // LD Vx, K
			m.Waiting = true
			m.WaitReg = x
		case 0x15: // LD DT, Vx
			m.DT = v[x]
		case 0x18: // LD ST, Vx
			m.ST = v[x]
		case 0x1e: // ADD I, Vx
			m.I += uint16(v[x])
		case 0x29: // LD F, Vx
			m.I = fontAddr + uint16(v[x]&0xf)*5
		case 0x33: // LD B, Vx
			m.Mem[m.I&0xfff] = v[x] / 100
			m.Mem[(m.I+1)&0xfff] = v[x] / 10 % 10
			m.Mem[(m.I+2)&0xfff] = v[x] % 10
		case 0x55: // LD [I], Vx
			for i := uint16(0); i <= uint16(x); i++ {
				m.Mem[(m.I+i)&0xfff] = v[i]
			}
		case 0x65: // LD Vx, [I]
			for i := uint16(0); i <= uint16(x); i++ {
				v[i] = m.Mem[(m.I+i)&0xfff]
			}
		}
	}
	return nil
}

// alu executes the 8xyn register instructions.
// VF is written after the result, so it wins when x is F.
func (m *Machine) alu(n, x, y byte) {
	var (
		v    = &m.V
		a, b = v[x], v[y]
		f    byte
	)
	switch n {
	case 0x0: // LD Vx, Vy
		v[x] = b
		return
	case 0x1: // OR Vx, Vy
		v[x] = a | b
		return
	case 0x2: // AND Vx, Vy
		v[x] = a & b
		return
	case 0x3: // XOR Vx, Vy
		v[x] = a ^ b
		return
	case 0x4: // ADD Vx, Vy
		if uint16(a)+uint16(b) > 0xff {
			f = 1
		}
		v[x] = a + b
	case 0x5: // SUB Vx, Vy
		if a >= b {
			f = 1
		}
		v[x] = a - b
	case 0x6: // SHR Vx
		f = a & 1
		v[x] = a >> 1
	case 0x7: // SUBN Vx, Vy
		if b >= a {
			f = 1
		}
		v[x] = b - a
	case 0xe: // SHL Vx
		f = a >> 7
		v[x] = a << 1
	}
	v[0xf] = f
}

// draw XORs the n-byte sprite at I onto the display at x, y,
// wrapping at the edges, and sets VF if any lit pixel is cleared.
func (m *Machine) draw(x, y, n byte) {
	m.V[0xf] = 0
	for row := byte(0); row < n; row++ {
		bits := m.Mem[(m.I+uint16(row))&0xfff]
		py := (int(y) + int(row)) % Height
		for col := byte(0); col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + int(col)) % Width
			if m.Disp[py][px] != 0 {
				m.V[0xf] = 1
			}
			m.Disp[py][px] ^= 1
		}
	}
}

// HaltError is returned by Exec if execution cannot continue.
type HaltError struct {
	HaltCode
	Op   Op
	Addr uint16
}

func (e HaltError) Error() string {
	if e.HaltCode == BadAddress {
		return fmt.Sprintf("%s: pc %.4x", e.HaltCode, e.Addr)
	}
	return fmt.Sprintf("%s executing %.4x (%s) at %.4x", e.HaltCode, uint16(e.Op), e.Op, e.Addr)
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	InvalidOp HaltCode = iota + 1
	Underflow
	Overflow
	BadAddress
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		InvalidOp:  "invalid instruction",
		Underflow:  "stack underflow",
		Overflow:   "stack overflow",
		BadAddress: "program counter out of memory",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
