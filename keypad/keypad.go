// Package keypad maps host keyboard keys to the CHIP-8 hexadecimal keypad.
//
// The CHIP-8 keypad is laid out as
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// and is mapped onto the left-hand 4x4 block of a QWERTY keyboard:
//
//	1 2 3 4
//	Q W E R
//	A S D F
//	Z X C V
//
// Host keys are identified by their physical position, as reported by
// key.Code (a USB HID usage), so the mapping is independent of the
// character a key produces.
package keypad

import "golang.org/x/mobile/event/key"

// Map returns the keypad code for the host key c,
// and reports whether c is one of the 16 keypad keys.
func Map(c key.Code) (code byte, ok bool) {
	switch c {
	case key.Code1:
		return 0x1, true
	case key.Code2:
		return 0x2, true
	case key.Code3:
		return 0x3, true
	case key.Code4:
		return 0xC, true

	case key.CodeQ:
		return 0x4, true
	case key.CodeW:
		return 0x5, true
	case key.CodeE:
		return 0x6, true
	case key.CodeR:
		return 0xD, true

	case key.CodeA:
		return 0x7, true
	case key.CodeS:
		return 0x8, true
	case key.CodeD:
		return 0x9, true
	case key.CodeF:
		return 0xE, true

	case key.CodeZ:
		return 0xA, true
	case key.CodeX:
		return 0x0, true
	case key.CodeC:
		return 0xB, true
	case key.CodeV:
		return 0xF, true
	}
	return 0, false
}

// Keys returns the 16 keypad keys in keypad layout order,
// row by row from the top left.
func Keys() [16]key.Code {
	return [16]key.Code{
		key.Code1, key.Code2, key.Code3, key.Code4,
		key.CodeQ, key.CodeW, key.CodeE, key.CodeR,
		key.CodeA, key.CodeS, key.CodeD, key.CodeF,
		key.CodeZ, key.CodeX, key.CodeC, key.CodeV,
	}
}

// Layout returns the keypad codes in keypad layout order.
func Layout() [16]byte {
	return [16]byte{
		0x1, 0x2, 0x3, 0xC,
		0x4, 0x5, 0x6, 0xD,
		0x7, 0x8, 0x9, 0xE,
		0xA, 0x0, 0xB, 0xF,
	}
}

// RuneCode returns the physical key that produces r on a US keyboard,
// ignoring shift, or key.CodeUnknown.
// It serves hosts, such as terminals, that report characters
// rather than key positions.
func RuneCode(r rune) key.Code {
	switch {
	case r >= 'a' && r <= 'z':
		return key.CodeA + key.Code(r-'a')
	case r >= 'A' && r <= 'Z':
		return key.CodeA + key.Code(r-'A')
	case r >= '1' && r <= '9':
		return key.Code1 + key.Code(r-'1')
	case r == '0':
		return key.Code0
	case r == '!':
		return key.Code1
	case r == '@':
		return key.Code2
	case r == '#':
		return key.Code3
	case r == '$':
		return key.Code4
	}
	return key.CodeUnknown
}
