package decoder

import (
	"fmt"

	"github.com/retroenv/deepchip/internal/quirks"
)

var patterns = map[Op]string{
	OpCls:         "00E0",
	OpRet:         "00EE",
	OpJp:          "1nnn",
	OpCall:        "2nnn",
	OpSeByte:      "3xnn",
	OpSneByte:     "4xnn",
	OpSeReg:       "5xy0",
	OpLdByte:      "6xnn",
	OpAddByte:     "7xnn",
	OpLdReg:       "8xy0",
	OpOr:          "8xy1",
	OpAnd:         "8xy2",
	OpXor:         "8xy3",
	OpAddReg:      "8xy4",
	OpSub:         "8xy5",
	OpShr:         "8xy6",
	OpSubn:        "8xy7",
	OpShl:         "8xyE",
	OpSneReg:      "9xy0",
	OpLdI:         "Annn",
	OpJpOffset:    "Bnnn",
	OpRnd:         "Cxnn",
	OpDrw:         "Dxyn",
	OpSkp:         "Ex9E",
	OpSknp:        "ExA1",
	OpLdVxDT:      "Fx07",
	OpLdKey:       "Fx0A",
	OpLdDT:        "Fx15",
	OpLdST:        "Fx18",
	OpAddI:        "Fx1E",
	OpLdFont:      "Fx29",
	OpBCD:         "Fx33",
	OpStore:       "Fx55",
	OpLoad:        "Fx65",
	OpScrollDown:  "00Cn",
	OpScrollRight: "00FB",
	OpScrollLeft:  "00FC",
	OpExit:        "00FD",
	OpLowRes:      "00FE",
	OpHighRes:     "00FF",
	OpLdBigFont:   "Fx30",
	OpSaveFlags:   "Fx75",
	OpLoadFlags:   "Fx85",
}

// Pattern returns the opcode pattern of the operation, for example "8xy4".
func (op Op) Pattern() string {
	if p, ok := patterns[op]; ok {
		return p
	}
	return "????"
}

// Explain returns a human readable description of what the instruction does
// when executed with the given quirks.
func Explain(ins Instruction, q quirks.Quirks) string {
	return fmt.Sprintf("%s: %s", ins.Op.Pattern(), describe(ins, q))
}

func describe(ins Instruction, q quirks.Quirks) string {
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpCls:
		return "clear the display"
	case OpRet:
		return "return from subroutine"
	case OpJp:
		return fmt.Sprintf("jump to $%03X", ins.NNN)
	case OpCall:
		return fmt.Sprintf("call subroutine at $%03X", ins.NNN)
	case OpSeByte:
		return fmt.Sprintf("skip next instruction if V%X == $%02X", x, ins.NN)
	case OpSneByte:
		return fmt.Sprintf("skip next instruction if V%X != $%02X", x, ins.NN)
	case OpSeReg:
		return fmt.Sprintf("skip next instruction if V%X == V%X", x, y)
	case OpSneReg:
		return fmt.Sprintf("skip next instruction if V%X != V%X", x, y)
	case OpLdByte:
		return fmt.Sprintf("V%X = $%02X", x, ins.NN)
	case OpAddByte:
		return fmt.Sprintf("V%X += $%02X, VF unchanged", x, ins.NN)
	case OpLdReg:
		return fmt.Sprintf("V%X = V%X", x, y)
	case OpOr, OpAnd, OpXor:
		return describeLogic(ins, q)
	case OpAddReg:
		return fmt.Sprintf("V%X += V%X, VF = carry", x, y)
	case OpSub:
		return fmt.Sprintf("V%X -= V%X, VF = not borrow", x, y)
	case OpSubn:
		return fmt.Sprintf("V%X = V%X - V%X, VF = not borrow", x, y, x)
	case OpShr, OpShl:
		return describeShift(ins, q)
	case OpLdI:
		return fmt.Sprintf("I = $%03X", ins.NNN)
	case OpJpOffset:
		if q.Jumping {
			return fmt.Sprintf("jump to $%03X + V%X", ins.NNN, x)
		}
		return fmt.Sprintf("jump to $%03X + V0", ins.NNN)
	case OpRnd:
		return fmt.Sprintf("V%X = random byte & $%02X", x, ins.NN)
	case OpDrw:
		return describeDraw(ins, q)
	case OpSkp:
		return fmt.Sprintf("skip next instruction if key V%X is pressed", x)
	case OpSknp:
		return fmt.Sprintf("skip next instruction if key V%X is not pressed", x)
	}
	return describeMisc(ins, q)
}

func describeLogic(ins Instruction, q quirks.Quirks) string {
	var operator string
	switch ins.Op {
	case OpOr:
		operator = "|="
	case OpAnd:
		operator = "&="
	default:
		operator = "^="
	}

	s := fmt.Sprintf("V%X %s V%X", ins.X, operator, ins.Y)
	if q.VFReset {
		s += ", VF = 0"
	}
	return s
}

func describeShift(ins Instruction, q quirks.Quirks) string {
	source := ins.Y
	if q.Shifting {
		source = ins.X
	}
	if ins.Op == OpShr {
		return fmt.Sprintf("V%X = V%X >> 1, VF = shifted out bit", ins.X, source)
	}
	return fmt.Sprintf("V%X = V%X << 1, VF = shifted out bit", ins.X, source)
}

func describeDraw(ins Instruction, q quirks.Quirks) string {
	mode := "wrapping"
	if q.Clipping {
		mode = "clipping"
	}

	var s string
	if ins.N == 0 {
		s = fmt.Sprintf("draw 16x16 sprite from I at V%X, V%X", ins.X, ins.Y)
	} else {
		s = fmt.Sprintf("draw 8x%d sprite from I at V%X, V%X", ins.N, ins.X, ins.Y)
	}
	s += fmt.Sprintf(", %s at the edges, VF = collision", mode)
	if q.DisplayWait {
		s += ", wait for the next frame"
	}
	return s
}

func describeMisc(ins Instruction, q quirks.Quirks) string {
	x := ins.X

	switch ins.Op {
	case OpLdVxDT:
		return fmt.Sprintf("V%X = delay timer", x)
	case OpLdKey:
		return fmt.Sprintf("wait for a key press and release, V%X = key", x)
	case OpLdDT:
		return fmt.Sprintf("delay timer = V%X", x)
	case OpLdST:
		return fmt.Sprintf("sound timer = V%X", x)
	case OpAddI:
		return fmt.Sprintf("I += V%X", x)
	case OpLdFont:
		return fmt.Sprintf("I = address of small font glyph V%X", x)
	case OpLdBigFont:
		return fmt.Sprintf("I = address of big font glyph V%X", x)
	case OpBCD:
		return fmt.Sprintf("store BCD of V%X at I, I+1, I+2", x)
	case OpStore:
		return fmt.Sprintf("store V0-V%X at I%s", x, indexSuffix(x, q))
	case OpLoad:
		return fmt.Sprintf("load V0-V%X from I%s", x, indexSuffix(x, q))
	case OpSaveFlags:
		return fmt.Sprintf("save V0-V%X to persistent flags", min(x, 7))
	case OpLoadFlags:
		return fmt.Sprintf("load V0-V%X from persistent flags", min(x, 7))
	case OpScrollDown:
		return fmt.Sprintf("scroll display down by %d rows", ins.N)
	case OpScrollRight:
		return "scroll display right by 4 pixels"
	case OpScrollLeft:
		return "scroll display left by 4 pixels"
	case OpExit:
		return "exit the interpreter"
	case OpLowRes:
		return "switch to 64x32 low resolution"
	case OpHighRes:
		return "switch to 128x64 high resolution"
	}
	return fmt.Sprintf("invalid instruction $%04X", ins.Opcode)
}

func indexSuffix(x uint8, q quirks.Quirks) string {
	if q.MemoryIncrement {
		return fmt.Sprintf(", I += %d", int(x)+1)
	}
	return ", I unchanged"
}
