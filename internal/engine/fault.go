package engine

import (
	"errors"
	"fmt"

	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/deepchip/internal/registers"
)

// Sentinel errors that a Fault unwraps to.
var (
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrStackOverflow      = errors.New("call stack overflow")
	ErrStackUnderflow     = errors.New("call stack underflow")
	ErrOutOfBoundsAccess  = errors.New("out of bounds access")
	ErrVariantLocked      = errors.New("variant locked")
)

// FaultKind classifies a fault.
type FaultKind int

// Fault kinds.
const (
	IllegalInstruction FaultKind = iota + 1
	StackOverflow
	StackUnderflow
	OutOfBoundsAccess
	VariantLocked
)

// String returns the name of the fault kind.
func (k FaultKind) String() string {
	switch k {
	case IllegalInstruction:
		return "IllegalInstruction"
	case StackOverflow:
		return "StackOverflow"
	case StackUnderflow:
		return "StackUnderflow"
	case OutOfBoundsAccess:
		return "OutOfBoundsAccess"
	case VariantLocked:
		return "VariantLocked"
	default:
		return fmt.Sprintf("FaultKind(%d)", int(k))
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case IllegalInstruction:
		return ErrIllegalInstruction
	case StackOverflow:
		return ErrStackOverflow
	case StackUnderflow:
		return ErrStackUnderflow
	case OutOfBoundsAccess:
		return ErrOutOfBoundsAccess
	default:
		return ErrVariantLocked
	}
}

// Fault is returned by engine commands that violate the machine model.
// PC is the address of the faulting instruction, Opcode its word.
type Fault struct {
	Kind   FaultKind
	PC     uint16
	Opcode uint16

	cause error
}

func newFault(kind FaultKind, pc, opcode uint16, cause error) *Fault {
	if errors.Is(cause, kind.sentinel()) {
		cause = nil
	}
	return &Fault{
		Kind:   kind,
		PC:     pc,
		Opcode: opcode,
		cause:  cause,
	}
}

func (f *Fault) clone() *Fault {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Error implements the error interface.
func (f *Fault) Error() string {
	s := fmt.Sprintf("%s at $%03X", f.Kind.sentinel(), f.PC)
	if f.Kind != VariantLocked {
		s += fmt.Sprintf(" (opcode $%04X)", f.Opcode)
	}
	if f.cause != nil {
		s += ": " + f.cause.Error()
	}
	return s
}

// Unwrap returns the sentinel of the fault kind and the underlying cause.
func (f *Fault) Unwrap() []error {
	if f.cause == nil {
		return []error{f.Kind.sentinel()}
	}
	return []error{f.Kind.sentinel(), f.cause}
}

// faultKind maps an execution error to the kind of fault it causes.
func faultKind(err error) FaultKind {
	switch {
	case errors.Is(err, registers.ErrStackOverflow):
		return StackOverflow
	case errors.Is(err, registers.ErrStackUnderflow):
		return StackUnderflow
	case errors.Is(err, memory.ErrOutOfBounds):
		return OutOfBoundsAccess
	default:
		return IllegalInstruction
	}
}
