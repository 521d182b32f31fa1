// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/memory"
)

// ErrLoad is returned when a ROM file can not be read.
var ErrLoad = errors.New("loading ROM failed")

// Loader handles loading ROM files from disk.
type Loader struct {
	romDir string
}

// New creates a new ROM loader. Files that are given without a directory
// and do not exist in the working directory are looked up in romDir.
func New(romDir string) *Loader {
	return &Loader{romDir: romDir}
}

// Load reads the ROM file and returns its contents.
func (l *Loader) Load(path string) ([]byte, error) {
	resolved := l.resolve(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: reading file %s: %w", ErrLoad, resolved, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrLoad, resolved)
	}
	if len(data) > memory.MaxProgramSize {
		return nil, fmt.Errorf("%w: file %s has %d bytes, maximum is %d",
			ErrLoad, resolved, len(data), memory.MaxProgramSize)
	}
	return data, nil
}

func (l *Loader) resolve(path string) string {
	if l.romDir == "" || filepath.Base(path) != path {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(l.romDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
