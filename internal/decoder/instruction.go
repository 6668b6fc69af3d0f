package decoder

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/set"
)

// baseInstructions maps the CHIP-8 operations to their instruction definitions.
var baseInstructions = map[Op]*chip8.Instruction{
	OpCls:      chip8.ClsInst,
	OpRet:      chip8.RetInst,
	OpJp:       chip8.JpInst,
	OpCall:     chip8.CallInst,
	OpSeByte:   chip8.SeInst,
	OpSneByte:  chip8.SneInst,
	OpSeReg:    chip8.SeInst,
	OpLdByte:   chip8.LdInst,
	OpAddByte:  chip8.AddInst,
	OpLdReg:    chip8.LdInst,
	OpOr:       chip8.OrInst,
	OpAnd:      chip8.AndInst,
	OpXor:      chip8.XorInst,
	OpAddReg:   chip8.AddInst,
	OpSub:      chip8.SubInst,
	OpShr:      chip8.ShrInst,
	OpSubn:     chip8.SubnInst,
	OpShl:      chip8.ShlInst,
	OpSneReg:   chip8.SneInst,
	OpLdI:      chip8.LdInst,
	OpJpOffset: chip8.JpInst,
	OpRnd:      chip8.RndInst,
	OpDrw:      chip8.DrwInst,
	OpSkp:      chip8.SkpInst,
	OpSknp:     chip8.SknpInst,
	OpLdVxDT:   chip8.LdInst,
	OpLdKey:    chip8.LdInst,
	OpLdDT:     chip8.LdInst,
	OpLdST:     chip8.LdInst,
	OpAddI:     chip8.AddInst,
	OpLdFont:   chip8.LdInst,
	OpBCD:      chip8.LdInst,
	OpStore:    chip8.LdInst,
	OpLoad:     chip8.LdInst,
}

// superChipNames contains the mnemonics of the SUPER-CHIP extensions.
var superChipNames = map[Op]string{
	OpScrollDown:  "scd",
	OpScrollRight: "scr",
	OpScrollLeft:  "scl",
	OpExit:        "exit",
	OpLowRes:      "low",
	OpHighRes:     "high",
	OpLdBigFont:   "ld",
	OpSaveFlags:   "ld",
	OpLoadFlags:   "ld",
}

var (
	memoryReads  = newOpSet(OpDrw, OpLoad)
	memoryWrites = newOpSet(OpBCD, OpStore)
	flagWriters  = newOpSet(OpAddReg, OpSub, OpShr, OpSubn, OpShl, OpDrw)
)

func newOpSet(ops ...Op) set.Set[Op] {
	s := set.New[Op]()
	for _, op := range ops {
		s.Add(op)
	}
	return s
}

// Mnemonic returns the assembler mnemonic of the instruction.
// Invalid instructions return an empty string.
func (i Instruction) Mnemonic() string {
	if i.Op.SuperChip() {
		return superChipNames[i.Op]
	}
	ins, ok := baseInstructions[i.Op]
	if !ok {
		return ""
	}
	return ins.Name
}

// Valid returns whether the instruction word was decoded to a known operation.
func (i Instruction) Valid() bool {
	return i.Op != OpInvalid
}

// IsJump returns true for unconditional jumps.
func (i Instruction) IsJump() bool {
	return i.Op == OpJp || i.Op == OpJpOffset
}

// IsCall returns true for subroutine calls.
func (i Instruction) IsCall() bool {
	return i.Op == OpCall
}

// IsReturn returns true for subroutine returns.
func (i Instruction) IsReturn() bool {
	return i.Op == OpRet
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	if i.Op.SuperChip() {
		return false
	}
	ins, ok := baseInstructions[i.Op]
	if !ok {
		return false
	}
	return chip8.SkipInstructions.Contains(ins.Name)
}

// ReadsMemory returns true if the instruction reads from memory at I.
func (i Instruction) ReadsMemory() bool {
	return memoryReads.Contains(i.Op)
}

// WritesMemory returns true if the instruction writes to memory at I.
func (i Instruction) WritesMemory() bool {
	return memoryWrites.Contains(i.Op)
}

// WritesFlag returns true if the instruction always sets VF as a side effect.
func (i Instruction) WritesFlag() bool {
	return flagWriters.Contains(i.Op)
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	name := i.Mnemonic()
	if name == "" {
		return fmt.Sprintf(".word $%04X", i.Opcode)
	}
	if params := i.params(); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// params formats the operands of the instruction.
func (i Instruction) params() string {
	switch i.Op {
	case OpJp, OpCall:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpJpOffset:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpSeByte, OpSneByte, OpLdByte, OpAddByte, OpRnd:
		return fmt.Sprintf("V%X, $%02X", i.X, i.NN)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpShr, OpShl, OpSkp, OpSknp:
		return fmt.Sprintf("V%X", i.X)
	case OpLdI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpScrollDown:
		return fmt.Sprintf("$%X", i.N)
	}
	return i.miscParams()
}

// miscParams formats the operands of the Fxnn instructions.
func (i Instruction) miscParams() string {
	switch i.Op {
	case OpLdVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLdKey:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLdDT:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLdST:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpAddI:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLdFont:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLdBigFont:
		return fmt.Sprintf("HF, V%X", i.X)
	case OpBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case OpStore:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLoad:
		return fmt.Sprintf("V%X, [I]", i.X)
	case OpSaveFlags:
		return fmt.Sprintf("R, V%X", i.X)
	case OpLoadFlags:
		return fmt.Sprintf("V%X, R", i.X)
	}
	return ""
}
