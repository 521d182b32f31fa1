package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load file", func(t *testing.T) {
		path := createTempFile(t, t.TempDir(), "test.ch8", []byte{0x60, 0x05, 0x12, 0x00})

		data, err := New("").Load(path)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x05, 0x12, 0x00}, data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New("").Load(filepath.Join(t.TempDir(), "missing.ch8"))
		assert.True(t, errors.Is(err, ErrLoad))
	})

	t.Run("empty file", func(t *testing.T) {
		path := createTempFile(t, t.TempDir(), "empty.ch8", nil)

		_, err := New("").Load(path)
		assert.True(t, errors.Is(err, ErrLoad))
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("too large file", func(t *testing.T) {
		path := createTempFile(t, t.TempDir(), "large.ch8", make([]byte, memory.MaxProgramSize+1))

		_, err := New("").Load(path)
		assert.True(t, errors.Is(err, ErrLoad))
	})

	t.Run("largest possible file", func(t *testing.T) {
		path := createTempFile(t, t.TempDir(), "max.ch8", make([]byte, memory.MaxProgramSize))

		data, err := New("").Load(path)
		assert.NoError(t, err)
		assert.Len(t, data, memory.MaxProgramSize)
	})
}

func TestLoad_ROMDirectory(t *testing.T) {
	romDir := t.TempDir()
	createTempFile(t, romDir, "pong.ch8", []byte{0x00, 0xE0})

	data, err := New(romDir).Load("pong.ch8")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0}, data)

	// paths with a directory component are not redirected
	_, err = New(romDir).Load(filepath.Join("sub", "pong.ch8"))
	assert.True(t, errors.Is(err, ErrLoad))
}

func createTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, data, 0o600)
	assert.NoError(t, err)
	return path
}
