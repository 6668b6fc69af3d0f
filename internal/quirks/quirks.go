// Package quirks contains the toggles that select between the historically
// divergent behaviors of CHIP-8 interpreters.
package quirks

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrUnknownQuirk is returned for a quirk or preset name that does not exist.
var ErrUnknownQuirk = errors.New("unknown quirk")

// Quirk names accepted by Set.
const (
	VFResetName         = "vfreset"
	MemoryIncrementName = "memory"
	DisplayWaitName     = "displaywait"
	ClippingName        = "clipping"
	ShiftingName        = "shifting"
	JumpingName         = "jumping"
	HalfScrollName      = "halfscroll"
)

// Preset names accepted by ByPreset.
const (
	PresetVIP       = "vip"
	PresetOcto      = "octo"
	PresetSuperChip = "schip"
)

// aliases maps alternative names used by other references to the canonical name.
// The "logic" quirk of the test suites is the same toggle as VF reset.
var aliases = map[string]string{
	"logic":  VFResetName,
	"vblank": DisplayWaitName,
	"vf":     VFResetName,
	"jump":   JumpingName,
	"shift":  ShiftingName,
	"clip":   ClippingName,
}

// Quirks is a set of independent behavior toggles. Any combination is valid.
type Quirks struct {
	// VFReset makes 8xy1, 8xy2 and 8xy3 set VF to 0 after the operation.
	VFReset bool
	// MemoryIncrement makes Fx55 and Fx65 advance I by x+1, otherwise I is left unchanged.
	MemoryIncrement bool
	// DisplayWait makes Dxyn wait for the next frame tick after drawing.
	DisplayWait bool
	// Clipping clips sprites at the screen edges instead of wrapping them around.
	Clipping bool
	// Shifting makes 8xy6 and 8xyE shift Vx in place instead of shifting Vy into Vx.
	Shifting bool
	// Jumping makes Bxnn jump to xnn + Vx instead of nnn + V0.
	Jumping bool
	// HalfScroll halves the scroll distance of the SUPER-CHIP scroll opcodes in low-res mode.
	HalfScroll bool
}

// VIP returns the quirks of the original COSMAC VIP interpreter.
func VIP() Quirks {
	return Quirks{
		VFReset:         true,
		MemoryIncrement: true,
		DisplayWait:     true,
		Clipping:        true,
	}
}

// Octo returns the quirks of the Octo emulator defaults.
func Octo() Quirks {
	return Quirks{}
}

// SuperChip returns the quirks of the SUPER-CHIP 1.1 interpreter on the HP-48.
func SuperChip() Quirks {
	return Quirks{
		Clipping: true,
		Shifting: true,
		Jumping:  true,
	}
}

// ByPreset returns the quirks of a named preset.
func ByPreset(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case PresetVIP, "chip8":
		return VIP(), nil
	case PresetOcto:
		return Octo(), nil
	case PresetSuperChip, "superchip":
		return SuperChip(), nil
	default:
		return Quirks{}, fmt.Errorf("%w: preset '%s'", ErrUnknownQuirk, name)
	}
}

// Names returns the sorted canonical quirk names.
func Names() []string {
	names := []string{
		VFResetName,
		MemoryIncrementName,
		DisplayWaitName,
		ClippingName,
		ShiftingName,
		JumpingName,
		HalfScrollName,
	}
	slices.Sort(names)
	return names
}

// Set changes the quirk with the given name.
func (q *Quirks) Set(name string, value bool) error {
	field, err := q.field(name)
	if err != nil {
		return err
	}
	*field = value
	return nil
}

// Get returns the value of the quirk with the given name.
func (q Quirks) Get(name string) (bool, error) {
	field, err := q.field(name)
	if err != nil {
		return false, err
	}
	return *field, nil
}

// Values returns all quirks keyed by their canonical name.
func (q Quirks) Values() map[string]bool {
	values := make(map[string]bool, 7)
	for _, name := range Names() {
		value, _ := q.Get(name)
		values[name] = value
	}
	return values
}

func (q *Quirks) field(name string) (*bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	switch name {
	case VFResetName:
		return &q.VFReset, nil
	case MemoryIncrementName:
		return &q.MemoryIncrement, nil
	case DisplayWaitName:
		return &q.DisplayWait, nil
	case ClippingName:
		return &q.Clipping, nil
	case ShiftingName:
		return &q.Shifting, nil
	case JumpingName:
		return &q.Jumping, nil
	case HalfScrollName:
		return &q.HalfScroll, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownQuirk, name)
	}
}

// String returns the enabled quirks as a comma separated list.
func (q Quirks) String() string {
	var enabled []string
	for _, name := range Names() {
		if value, _ := q.Get(name); value {
			enabled = append(enabled, name)
		}
	}
	if len(enabled) == 0 {
		return "none"
	}
	return strings.Join(enabled, ",")
}
