package engine

import (
	"github.com/retroenv/deepchip/internal/decoder"
	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/deepchip/internal/registers"
	"github.com/retroenv/retrogolib/log"
)

const scrollColumns = 4

func (e *Engine) decode(opcode uint16) decoder.Instruction {
	ins := decoder.Decode(opcode, e.variant.SupportsSuperChip())
	if e.trace {
		e.logger.Debug("Executing",
			log.Hex("pc", e.regs.PC-2),
			log.Hex("opcode", opcode),
			log.String("instruction", ins.String()),
			log.String("explanation", decoder.Explain(ins, e.quirks)))
	}
	return ins
}

// execute runs a decoded instruction. PC already points to the next
// instruction. Errors are mapped to faults by the caller.
func (e *Engine) execute(ins decoder.Instruction) (Signals, error) {
	v := &e.regs.V
	x, y := ins.X, ins.Y

	switch ins.Op {
	case decoder.OpCls:
		e.display.Clear()
		return Signals{Redraw: true}, nil

	case decoder.OpRet:
		address, err := e.regs.Pop()
		if err != nil {
			return Signals{}, err
		}
		e.regs.PC = address

	case decoder.OpJp:
		e.regs.PC = ins.NNN

	case decoder.OpCall:
		if err := e.regs.Push(e.regs.PC); err != nil {
			return Signals{}, err
		}
		e.regs.PC = ins.NNN

	case decoder.OpSeByte:
		e.skipIf(v[x] == ins.NN)
	case decoder.OpSneByte:
		e.skipIf(v[x] != ins.NN)
	case decoder.OpSeReg:
		e.skipIf(v[x] == v[y])
	case decoder.OpSneReg:
		e.skipIf(v[x] != v[y])

	case decoder.OpLdByte:
		v[x] = ins.NN
	case decoder.OpAddByte:
		v[x] += ins.NN

	case decoder.OpLdReg, decoder.OpOr, decoder.OpAnd, decoder.OpXor,
		decoder.OpAddReg, decoder.OpSub, decoder.OpSubn, decoder.OpShr, decoder.OpShl:
		e.arithmetic(ins)

	case decoder.OpLdI:
		e.regs.I = ins.NNN

	case decoder.OpJpOffset:
		offset := v[0]
		if e.quirks.Jumping {
			offset = v[x]
		}
		e.regs.PC = ins.NNN + uint16(offset)

	case decoder.OpRnd:
		v[x] = byte(e.rng.Intn(256)) & ins.NN

	case decoder.OpDrw:
		return e.draw(ins)

	case decoder.OpSkp:
		e.skipIf(e.keypad.Pressed(v[x]))
	case decoder.OpSknp:
		e.skipIf(!e.keypad.Pressed(v[x]))

	case decoder.OpLdKey:
		e.keypad.StartWait(x)

	default:
		return e.executeMisc(ins)
	}
	return Signals{}, nil
}

// executeMisc runs the timer, index and memory instructions and the
// SUPER-CHIP extensions.
func (e *Engine) executeMisc(ins decoder.Instruction) (Signals, error) {
	v := &e.regs.V
	x := ins.X

	switch ins.Op {
	case decoder.OpLdVxDT:
		v[x] = e.timers.Delay
	case decoder.OpLdDT:
		e.timers.Delay = v[x]
	case decoder.OpLdST:
		e.timers.Sound = v[x]

	case decoder.OpAddI:
		e.regs.I += uint16(v[x])
	case decoder.OpLdFont:
		e.regs.I = memory.FontGlyph(v[x])
	case decoder.OpLdBigFont:
		e.regs.I = memory.BigFontGlyph(v[x])

	case decoder.OpBCD:
		digits := []byte{v[x] / 100, v[x] / 10 % 10, v[x] % 10}
		return Signals{}, e.memory.Store(e.regs.I, digits)

	case decoder.OpStore:
		if err := e.memory.Store(e.regs.I, v[:x+1]); err != nil {
			return Signals{}, err
		}
		e.incrementIndex(x)

	case decoder.OpLoad:
		data, err := e.memory.Slice(e.regs.I, int(x)+1)
		if err != nil {
			return Signals{}, err
		}
		copy(v[:], data)
		e.incrementIndex(x)

	case decoder.OpSaveFlags:
		n := min(int(x), FlagCount-1) + 1
		copy(e.flags[:n], v[:n])
		return Signals{FlagsSaved: true}, nil

	case decoder.OpLoadFlags:
		n := min(int(x), FlagCount-1) + 1
		copy(v[:n], e.flags[:n])

	case decoder.OpScrollDown:
		e.display.ScrollDown(e.scrollAmount(int(ins.N)))
		return Signals{Redraw: true}, nil
	case decoder.OpScrollRight:
		e.display.ScrollRight(e.scrollAmount(scrollColumns))
		return Signals{Redraw: true}, nil
	case decoder.OpScrollLeft:
		e.display.ScrollLeft(e.scrollAmount(scrollColumns))
		return Signals{Redraw: true}, nil

	case decoder.OpExit:
		e.logger.Debug("Program exited", log.Hex("pc", e.regs.PC-2))
		return e.halt(nil)

	case decoder.OpLowRes:
		e.display.SetHighRes(false)
		return Signals{Redraw: true}, nil
	case decoder.OpHighRes:
		e.display.SetHighRes(true)
		return Signals{Redraw: true}, nil

	default:
		return Signals{}, ErrIllegalInstruction
	}
	return Signals{}, nil
}

// arithmetic runs the 8xyn register instructions. VF is written after the
// result so that the flag wins when x is F.
func (e *Engine) arithmetic(ins decoder.Instruction) {
	v := &e.regs.V
	vx, vy := v[ins.X], v[ins.Y]

	switch ins.Op {
	case decoder.OpLdReg:
		v[ins.X] = vy

	case decoder.OpOr, decoder.OpAnd, decoder.OpXor:
		switch ins.Op {
		case decoder.OpOr:
			v[ins.X] = vx | vy
		case decoder.OpAnd:
			v[ins.X] = vx & vy
		default:
			v[ins.X] = vx ^ vy
		}
		if e.quirks.VFReset {
			v[registers.Flag] = 0
		}

	case decoder.OpAddReg:
		sum := uint16(vx) + uint16(vy)
		v[ins.X] = byte(sum)
		e.regs.SetFlag(sum > 0xFF)

	case decoder.OpSub:
		v[ins.X] = vx - vy
		e.regs.SetFlag(vx >= vy)

	case decoder.OpSubn:
		v[ins.X] = vy - vx
		e.regs.SetFlag(vy >= vx)

	case decoder.OpShr:
		source := e.shiftSource(vx, vy)
		v[ins.X] = source >> 1
		e.regs.SetFlag(source&0x01 != 0)

	case decoder.OpShl:
		source := e.shiftSource(vx, vy)
		v[ins.X] = source << 1
		e.regs.SetFlag(source&0x80 != 0)
	}
}

func (e *Engine) shiftSource(vx, vy byte) byte {
	if e.quirks.Shifting {
		return vx
	}
	return vy
}

// draw XORs a sprite from memory at I onto the active grid.
func (e *Engine) draw(ins decoder.Instruction) (Signals, error) {
	width, rows := 8, int(ins.N)
	// SUPER-CHIP 1.1 draws 8x16 for Dxy0 in low resolution, later revisions
	// and Octo draw 16x16 in both resolutions, which is followed here.
	if ins.N == 0 && e.variant.SupportsSuperChip() {
		width, rows = 16, 16
	}

	sprite, err := e.memory.Slice(e.regs.I, rows*width/8)
	if err != nil {
		return Signals{}, err
	}

	v := &e.regs.V
	collision := e.display.DrawSprite(int(v[ins.X]), int(v[ins.Y]), sprite, width, e.quirks.Clipping)
	e.regs.SetFlag(collision)

	if e.quirks.DisplayWait {
		e.waitingOnFrame = true
	}
	return Signals{Redraw: true}, nil
}

// scrollAmount halves scroll distances in low-res mode when the half
// scroll quirk is set.
func (e *Engine) scrollAmount(n int) int {
	if e.quirks.HalfScroll && !e.display.HighRes() {
		return n / 2
	}
	return n
}

func (e *Engine) incrementIndex(x uint8) {
	if e.quirks.MemoryIncrement {
		e.regs.I += uint16(x) + 1
	}
}

func (e *Engine) skipIf(condition bool) {
	if condition {
		e.regs.PC += 2
	}
}
