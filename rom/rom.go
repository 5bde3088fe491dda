// Package rom loads CHIP-8 program images and watches them for changes.
package rom

import (
	"fmt"
	"io"
	"os"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

// Read returns the contents of the named ROM file,
// or of stdin if name is Stdin.
func Read(name string, stdin io.Reader) ([]byte, error) {
	if name == Stdin {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading rom from stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	return b, nil
}
