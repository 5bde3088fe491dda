package rom

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pong.ch8")
	require.NoError(t, os.WriteFile(name, []byte{0x00, 0xe0, 0x12, 0x00}, 0o644))

	b, err := Read(name, strings.NewReader("unused"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xe0, 0x12, 0x00}, b)
}

func TestReadStdin(t *testing.T) {
	b, err := Read(Stdin, strings.NewReader("\x60\x01"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01}, b)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.ch8"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "err = %v", err)
	assert.Contains(t, err.Error(), "reading rom")
}

func TestReadStdinError(t *testing.T) {
	bad := errors.New("broken pipe")
	_, err := Read(Stdin, iotest.ErrReader(bad))
	assert.ErrorIs(t, err, bad)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "game.ch8")
	require.NoError(t, os.WriteFile(name, []byte{1}, 0o644))

	got := make(chan []byte, 10)
	c, err := Watch(name, func(b []byte) { got <- b })
	require.NoError(t, err)
	defer c.Close()

	// Changes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.ch8"), []byte{9}, 0o644))
	require.NoError(t, os.WriteFile(name, []byte{2, 3}, 0o644))

	select {
	case b := <-got:
		assert.Equal(t, []byte{2, 3}, b)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatchMissingDir(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "nope", "game.ch8"), func([]byte) {})
	assert.Error(t, err)
}
