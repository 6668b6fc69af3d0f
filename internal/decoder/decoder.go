// Package decoder turns CHIP-8 and SUPER-CHIP instruction words into tagged
// instructions that the executor dispatches on.
//
// Every instruction is 2 bytes, stored big-endian. The high nibble selects the
// opcode family, the remaining nibbles hold the operands:
//
//	nnn  12-bit address          (opcode & 0x0FFF)
//	x    register in nibble 2    (opcode & 0x0F00) >> 8
//	y    register in nibble 3    (opcode & 0x00F0) >> 4
//	nn   8-bit immediate         (opcode & 0x00FF)
//	n    4-bit immediate         (opcode & 0x000F)
//
// Words that are not defined for the active variant decode to OpInvalid.
package decoder

// Op identifies the operation of an instruction.
type Op int

// CHIP-8 operations.
const (
	OpInvalid  Op = iota
	OpCls         // 00E0
	OpRet         // 00EE
	OpJp          // 1nnn
	OpCall        // 2nnn
	OpSeByte      // 3xnn
	OpSneByte     // 4xnn
	OpSeReg       // 5xy0
	OpLdByte      // 6xnn
	OpAddByte     // 7xnn
	OpLdReg       // 8xy0
	OpOr          // 8xy1
	OpAnd         // 8xy2
	OpXor         // 8xy3
	OpAddReg      // 8xy4
	OpSub         // 8xy5
	OpShr         // 8xy6
	OpSubn        // 8xy7
	OpShl         // 8xyE
	OpSneReg      // 9xy0
	OpLdI         // Annn
	OpJpOffset    // Bnnn
	OpRnd         // Cxnn
	OpDrw         // Dxyn
	OpSkp         // Ex9E
	OpSknp        // ExA1
	OpLdVxDT      // Fx07
	OpLdKey       // Fx0A
	OpLdDT        // Fx15
	OpLdST        // Fx18
	OpAddI        // Fx1E
	OpLdFont      // Fx29
	OpBCD         // Fx33
	OpStore       // Fx55
	OpLoad        // Fx65
)

// SUPER-CHIP operations.
const (
	OpScrollDown  Op = iota + 100 // 00Cn
	OpScrollRight                 // 00FB
	OpScrollLeft                  // 00FC
	OpExit                        // 00FD
	OpLowRes                      // 00FE
	OpHighRes                     // 00FF
	OpLdBigFont                   // Fx30
	OpSaveFlags                   // Fx75
	OpLoadFlags                   // Fx85
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Op     Op
	Opcode uint16

	X   uint8
	Y   uint8
	N   uint8
	NN  uint8
	NNN uint16
}

// SuperChip returns whether the operation is a SUPER-CHIP extension.
func (op Op) SuperChip() bool {
	return op >= OpScrollDown
}

// Decode decodes an instruction word. The SUPER-CHIP opcodes are only
// decoded if superChip is set.
func Decode(opcode uint16, superChip bool) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		N:      uint8(opcode & 0x000F),
		NN:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		ins.Op = decodeSystem(opcode, superChip)
	case 0x1000:
		ins.Op = OpJp
	case 0x2000:
		ins.Op = OpCall
	case 0x3000:
		ins.Op = OpSeByte
	case 0x4000:
		ins.Op = OpSneByte
	case 0x5000:
		if ins.N == 0 {
			ins.Op = OpSeReg
		}
	case 0x6000:
		ins.Op = OpLdByte
	case 0x7000:
		ins.Op = OpAddByte
	case 0x8000:
		ins.Op = decodeArithmetic(ins.N)
	case 0x9000:
		if ins.N == 0 {
			ins.Op = OpSneReg
		}
	case 0xA000:
		ins.Op = OpLdI
	case 0xB000:
		ins.Op = OpJpOffset
	case 0xC000:
		ins.Op = OpRnd
	case 0xD000:
		ins.Op = OpDrw
	case 0xE000:
		switch ins.NN {
		case 0x9E:
			ins.Op = OpSkp
		case 0xA1:
			ins.Op = OpSknp
		}
	case 0xF000:
		ins.Op = decodeMisc(ins.NN, superChip)
	}
	return ins
}

func decodeSystem(opcode uint16, superChip bool) Op {
	switch opcode {
	case 0x00E0:
		return OpCls
	case 0x00EE:
		return OpRet
	}
	if !superChip {
		return OpInvalid
	}

	switch {
	case opcode&0xFFF0 == 0x00C0:
		return OpScrollDown
	case opcode == 0x00FB:
		return OpScrollRight
	case opcode == 0x00FC:
		return OpScrollLeft
	case opcode == 0x00FD:
		return OpExit
	case opcode == 0x00FE:
		return OpLowRes
	case opcode == 0x00FF:
		return OpHighRes
	}
	return OpInvalid
}

func decodeArithmetic(n uint8) Op {
	switch n {
	case 0x0:
		return OpLdReg
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddReg
	case 0x5:
		return OpSub
	case 0x6:
		return OpShr
	case 0x7:
		return OpSubn
	case 0xE:
		return OpShl
	}
	return OpInvalid
}

func decodeMisc(nn uint8, superChip bool) Op {
	switch nn {
	case 0x07:
		return OpLdVxDT
	case 0x0A:
		return OpLdKey
	case 0x15:
		return OpLdDT
	case 0x18:
		return OpLdST
	case 0x1E:
		return OpAddI
	case 0x29:
		return OpLdFont
	case 0x33:
		return OpBCD
	case 0x55:
		return OpStore
	case 0x65:
		return OpLoad
	}
	if !superChip {
		return OpInvalid
	}

	switch nn {
	case 0x30:
		return OpLdBigFont
	case 0x75:
		return OpSaveFlags
	case 0x85:
		return OpLoadFlags
	}
	return OpInvalid
}
