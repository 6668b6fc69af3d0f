// Package registers implements the CHIP-8 register file and call stack.
package registers

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const (
	// Count is the number of general purpose registers.
	Count = 16

	// Flag is the index of the VF register that doubles as carry, borrow and collision flag.
	Flag = 0xF

	// StackDepth is the number of return addresses the call stack can hold.
	StackDepth = 16
)

var (
	// ErrStackOverflow is returned when pushing onto a full call stack.
	ErrStackOverflow = chip8.ErrStackOverflow
	// ErrStackUnderflow is returned when popping from an empty call stack.
	ErrStackUnderflow = chip8.ErrStackUnderflow
)

// File contains the registers of the interpreter.
type File struct {
	V  [Count]byte
	I  uint16
	PC uint16
	SP uint8

	Stack [StackDepth]uint16
}

// Reset zeroes all registers, empties the stack and sets PC to the entry point.
func (f *File) Reset(entry uint16) {
	*f = File{PC: entry}
}

// Push stores a return address on the stack.
func (f *File) Push(address uint16) error {
	if int(f.SP) >= StackDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, f.SP)
	}
	f.Stack[f.SP] = address
	f.SP++
	return nil
}

// Pop removes and returns the most recent return address.
func (f *File) Pop() (uint16, error) {
	if f.SP == 0 {
		return 0, ErrStackUnderflow
	}
	f.SP--
	return f.Stack[f.SP], nil
}

// Depth returns the number of addresses on the stack.
func (f *File) Depth() int {
	return int(f.SP)
}

// SetFlag sets VF to 1 if set is true and to 0 otherwise.
func (f *File) SetFlag(set bool) {
	if set {
		f.V[Flag] = 1
	} else {
		f.V[Flag] = 0
	}
}
