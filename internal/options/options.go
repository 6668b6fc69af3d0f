// Package options contains the program options.
package options

import (
	"github.com/retroenv/deepchip/internal/engine"
)

// Parameters contains file path options.
type Parameters struct {
	Input     string `flag:"i" usage:"input program file or archive"`
	Output    string `flag:"o" usage:"output .txt file (default: stdout)"`
	FlagsFile string `flag:"flags" usage:"persistent flags file (default: <program>.flags)"`
	Batch     string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Flags contains behavior options.
type Flags struct {
	System string `flag:"s" usage:"interpreter variant: chip8, schip (default: auto-detect)"`
	Preset string `flag:"p" usage:"quirk preset: vip, octo, schip (default: variant defaults)"`
	Frames uint   `flag:"frames" usage:"number of frames to run" default:"60"`
	Cycles uint   `flag:"cycles" usage:"instructions per frame" default:"500"`
	Seed   int64  `flag:"seed" usage:"random number generator seed (default: time based)"`
	Trace  bool   `flag:"trace" usage:"log every executed instruction, requires -debug"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// Script contains the scripted key events and quirk overrides.
type Script struct {
	Keys   []KeyEvent      `flag:"keys" usage:"key events as frame:key:down|up, comma separated"`
	Quirks []QuirkOverride `flag:"quirk" usage:"quirk override as name=bool, repeatable"`
}

// Program options of the emulator host.
type Program struct {
	Parameters
	Flags
	Script
}

// KeyEvent presses or releases a key before the given frame runs.
type KeyEvent struct {
	Frame   uint
	Key     uint8
	Pressed bool
}

// QuirkOverride sets a single quirk after the preset is applied.
type QuirkOverride struct {
	Name  string
	Value bool
}

// Defaults for the run flags.
const (
	DefaultFrames = 60
	DefaultCycles = engine.DefaultCyclesPerFrame
)
