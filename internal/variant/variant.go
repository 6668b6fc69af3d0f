// Package variant defines the supported interpreter variants.
package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/deepchip/internal/quirks"
)

// ErrUnknownVariant is returned when a variant name can not be parsed.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant selects the opcode table and default quirks of the interpreter.
type Variant int

const (
	// CHIP8 is the original COSMAC VIP interpreter.
	CHIP8 Variant = iota
	// SuperChip is the SUPER-CHIP 1.1 interpreter for the HP-48.
	SuperChip
)

// Parse returns the variant for the given name.
func Parse(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chip8", "chip-8", "c8":
		return CHIP8, nil
	case "schip", "superchip", "super-chip", "sc8":
		return SuperChip, nil
	default:
		return CHIP8, fmt.Errorf("%w: '%s'", ErrUnknownVariant, name)
	}
}

// String returns the display name of the variant.
func (v Variant) String() string {
	switch v {
	case CHIP8:
		return "CHIP-8"
	case SuperChip:
		return "SUPER-CHIP 1.1"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// SupportsSuperChip returns whether the SUPER-CHIP opcodes are available.
func (v Variant) SupportsSuperChip() bool {
	return v == SuperChip
}

// DefaultQuirks returns the quirks that the variant uses after selection.
func (v Variant) DefaultQuirks() quirks.Quirks {
	if v == SuperChip {
		return quirks.SuperChip()
	}
	return quirks.VIP()
}
