// Package flagstore persists the SUPER-CHIP flag registers to a file.
package flagstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/retroenv/deepchip/internal/engine"
)

// ErrInvalidSize is returned when a flags file does not contain exactly
// engine.FlagCount bytes.
var ErrInvalidSize = errors.New("invalid flags file size")

// Store reads and writes the flags file at a fixed path.
type Store struct {
	path string
}

// New returns a store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the path of the flags file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the flags. A missing file results in zeroed flags.
func (s *Store) Load() ([engine.FlagCount]byte, error) {
	var flags [engine.FlagCount]byte

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return flags, nil
		}
		return flags, fmt.Errorf("reading flags file '%s': %w", s.path, err)
	}
	if len(data) != engine.FlagCount {
		return flags, fmt.Errorf("%w: '%s' has %d bytes, expected %d",
			ErrInvalidSize, s.path, len(data), engine.FlagCount)
	}

	copy(flags[:], data)
	return flags, nil
}

// Save writes the flags to a temporary file in the same directory and
// renames it over the flags file.
func (s *Store) Save(flags [engine.FlagCount]byte) error {
	dir := filepath.Dir(s.path)
	file, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary flags file: %w", err)
	}
	tmpName := file.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := file.Write(flags[:]); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing flags file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing flags file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("renaming flags file: %w", err)
	}
	return nil
}
