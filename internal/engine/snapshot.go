package engine

import (
	"github.com/retroenv/deepchip/internal/keypad"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/registers"
	"github.com/retroenv/deepchip/internal/timer"
	"github.com/retroenv/deepchip/internal/variant"
)

// Snapshot is a copy of the observable engine state.
type Snapshot struct {
	Registers registers.File
	Timers    timer.Timers
	Buzzer    bool

	HighRes bool
	Width   int
	Height  int
	Pixels  [][]bool // indexed by row and column

	Keys [keypad.Keys]bool
	Wait keypad.WaitState

	Quirks  quirks.Quirks
	Variant variant.Variant
	Flags   [FlagCount]byte

	Cycles uint64
	Halted bool
	Fault  *Fault
}

// Snapshot returns a copy of the current state. Changes to the returned
// value do not affect the engine.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Registers: e.regs,
		Timers:    e.timers,
		Buzzer:    e.timers.SoundOn(),
		HighRes:   e.display.HighRes(),
		Width:     e.display.Width(),
		Height:    e.display.Height(),
		Pixels:    e.display.Rows(),
		Keys:      e.keypad.States(),
		Wait:      e.keypad.Wait(),
		Quirks:    e.quirks,
		Variant:   e.variant,
		Flags:     e.flags,
		Cycles:    e.cycles,
		Halted:    e.halted,
		Fault:     e.fault.clone(),
	}
}

// Registers returns a copy of the register file.
func (e *Engine) Registers() registers.File {
	return e.regs
}

// Timers returns the timer values.
func (e *Engine) Timers() timer.Timers {
	return e.timers
}

// Buzzer returns whether the sound timer is active.
func (e *Engine) Buzzer() bool {
	return e.timers.SoundOn()
}

// Pixel returns the state of a pixel of the active resolution.
func (e *Engine) Pixel(x, y int) bool {
	return e.display.Pixel(x, y)
}

// Framebuffer returns a copy of the active grid, indexed by row and column.
func (e *Engine) Framebuffer() [][]bool {
	return e.display.Rows()
}

// HighRes returns whether the 128x64 resolution is active.
func (e *Engine) HighRes() bool {
	return e.display.HighRes()
}

// Quirks returns the active quirks.
func (e *Engine) Quirks() quirks.Quirks {
	return e.quirks
}

// Variant returns the active variant.
func (e *Engine) Variant() variant.Variant {
	return e.variant
}

// Wait returns the key wait state.
func (e *Engine) Wait() keypad.WaitState {
	return e.keypad.Wait()
}

// Halted returns whether the engine stopped executing.
func (e *Engine) Halted() bool {
	return e.halted
}

// Fault returns a copy of the fault that halted the engine or nil.
func (e *Engine) Fault() *Fault {
	return e.fault.clone()
}

// Memory returns a copy of the working memory.
func (e *Engine) Memory() []byte {
	return e.memory.Bytes()
}
