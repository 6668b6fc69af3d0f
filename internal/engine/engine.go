// Package engine implements the CHIP-8 and SUPER-CHIP interpreter core.
//
// The engine is a synchronous state machine driven by the host. Each call to
// Step executes at most one instruction, AdvanceFrame executes the remaining
// cycles of the current frame and ticks the timers. No wall clock time is
// used inside the engine, pacing is the responsibility of the host.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/deepchip/internal/display"
	"github.com/retroenv/deepchip/internal/keypad"
	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/registers"
	"github.com/retroenv/deepchip/internal/timer"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultCyclesPerFrame is the number of instructions executed per 60 Hz frame.
	DefaultCyclesPerFrame = 500

	// FlagCount is the number of persistent flag registers.
	FlagCount = 8
)

// Signals are the side effects of executed instructions that the host
// needs to react to.
type Signals struct {
	Redraw     bool // framebuffer changed
	Halted     bool // engine stopped by a fault or the exit instruction
	FlagsSaved bool // persistent flags changed and should be stored
}

func (s *Signals) merge(other Signals) {
	s.Redraw = s.Redraw || other.Redraw
	s.Halted = s.Halted || other.Halted
	s.FlagsSaved = s.FlagsSaved || other.FlagsSaved
}

// Engine is a single interpreter instance. It is not safe for concurrent use.
type Engine struct {
	logger *log.Logger
	trace  bool
	rng    *rand.Rand

	variant variant.Variant
	quirks  quirks.Quirks

	memory  *memory.Memory
	regs    registers.File
	timers  timer.Timers
	display *display.Framebuffer
	keypad  keypad.Keypad
	flags   [FlagCount]byte

	cycles         uint64 // instructions executed since the last reset
	frameCycle     uint32 // cycles consumed in the current frame
	waitingOnFrame bool   // display wait quirk suspends until the next frame
	halted         bool
	fault          *Fault
}

// New returns a CHIP-8 engine with no program loaded.
func New(options ...Option) (*Engine, error) {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel

	e := &Engine{
		logger:  log.NewWithConfig(cfg),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		variant: variant.CHIP8,
		quirks:  variant.CHIP8.DefaultQuirks(),
		memory:  memory.New(),
		display: display.New(),
	}
	if err := e.setOptions(options...); err != nil {
		return nil, err
	}

	e.Reset()
	return e, nil
}

// LoadROM replaces the program and resets the engine.
func (e *Engine) LoadROM(rom []byte) error {
	if err := e.memory.LoadROM(rom); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	e.Reset()
	e.logger.Debug("Loaded ROM", log.Int("size", len(rom)))
	return nil
}

// Reset reinitializes the machine from the loaded ROM. Persistent flags,
// quirks and the variant are kept.
func (e *Engine) Reset() {
	e.memory.Reset()
	e.regs.Reset(memory.ProgramStart)
	e.timers.Reset()
	e.display.Reset()
	e.keypad.Reset()

	e.cycles = 0
	e.frameCycle = 0
	e.waitingOnFrame = false
	e.halted = false
	e.fault = nil
}

// SelectVariant switches the variant and applies its default quirks. This is
// only allowed before the first instruction executed after a reset or ROM
// load, otherwise a VariantLocked fault is returned and nothing changes.
func (e *Engine) SelectVariant(v variant.Variant) error {
	if v != variant.CHIP8 && v != variant.SuperChip {
		return fmt.Errorf("%w: %d", variant.ErrUnknownVariant, int(v))
	}
	if e.cycles > 0 {
		return newFault(VariantLocked, e.regs.PC, 0, nil)
	}

	e.variant = v
	e.quirks = v.DefaultQuirks()
	e.Reset()
	e.logger.Debug("Selected variant", log.Stringer("variant", v), log.Stringer("quirks", e.quirks))
	return nil
}

// SetQuirk sets a single quirk by name. The change applies to the next
// executed instruction.
func (e *Engine) SetQuirk(name string, value bool) error {
	if err := e.quirks.Set(name, value); err != nil {
		return fmt.Errorf("setting quirk: %w", err)
	}
	return nil
}

// SetQuirks replaces all quirks.
func (e *Engine) SetQuirks(q quirks.Quirks) {
	e.quirks = q
}

// SetKey reports a key transition from the host. A release that ends a key
// wait stores the key code in the waiting register.
func (e *Engine) SetKey(code uint8, pressed bool) error {
	wait := e.keypad.Wait()
	resolved, err := e.keypad.Set(code, pressed)
	if err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	if resolved {
		e.regs.V[wait.Register] = code
	}
	return nil
}

// LoadFlags sets the persistent flags, typically read from storage by the host.
func (e *Engine) LoadFlags(flags [FlagCount]byte) {
	e.flags = flags
}

// Flags returns the persistent flags.
func (e *Engine) Flags() [FlagCount]byte {
	return e.flags
}

// ClearFlags zeroes the persistent flags.
func (e *Engine) ClearFlags() {
	e.flags = [FlagCount]byte{}
}

// TickFrame marks a frame boundary. The timers are decremented and a display
// wait ends. A halted engine is not changed.
func (e *Engine) TickFrame() {
	if e.halted {
		return
	}
	e.timers.Tick()
	e.frameCycle = 0
	e.waitingOnFrame = false
}

// AdvanceFrame executes the cycles remaining in the current frame and ticks
// the frame. A cyclesPerFrame of 0 uses DefaultCyclesPerFrame. Execution
// stops early when the engine halts, the frame is not ticked in that case.
func (e *Engine) AdvanceFrame(cyclesPerFrame uint32) (Signals, error) {
	if e.halted {
		return Signals{Halted: true}, e.faultError()
	}
	if cyclesPerFrame == 0 {
		cyclesPerFrame = DefaultCyclesPerFrame
	}

	var sig Signals
	for e.frameCycle < cyclesPerFrame {
		s, err := e.Step()
		sig.merge(s)
		if err != nil || s.Halted {
			return sig, err
		}
	}

	e.TickFrame()
	return sig, nil
}

// Step executes a single cycle. While the engine waits for a key or for the
// next frame the cycle passes without any state change.
func (e *Engine) Step() (Signals, error) {
	if e.halted {
		return Signals{Halted: true}, e.faultError()
	}

	e.frameCycle++
	if e.waitingOnFrame || e.keypad.Wait().Waiting {
		return Signals{}, nil
	}

	pc := e.regs.PC
	opcode, err := e.fetch(pc)
	if err != nil {
		return e.halt(newFault(OutOfBoundsAccess, pc, 0, err))
	}

	e.cycles++
	e.regs.PC += 2
	ins := e.decode(opcode)

	sig, err := e.execute(ins)
	if err != nil {
		e.regs.PC = pc
		return e.halt(newFault(faultKind(err), pc, opcode, err))
	}
	return sig, nil
}

func (e *Engine) fetch(pc uint16) (uint16, error) {
	if pc%2 != 0 {
		return 0, fmt.Errorf("%w: unaligned program counter $%04X", memory.ErrOutOfBounds, pc)
	}
	return e.memory.ReadOpcode(pc)
}

// halt freezes the engine. A nil fault halts without error.
func (e *Engine) halt(fault *Fault) (Signals, error) {
	e.halted = true
	e.fault = fault
	if fault != nil {
		e.logger.Warn("Execution halted", log.Stringer("fault", fault.Kind),
			log.Hex("pc", fault.PC), log.Hex("opcode", fault.Opcode), log.Err(fault))
	}
	return Signals{Halted: true}, e.faultError()
}

// faultError returns the current fault as error, avoiding a typed nil.
func (e *Engine) faultError() error {
	if e.fault == nil {
		return nil
	}
	return e.fault
}
