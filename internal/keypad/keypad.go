// Package keypad implements the 16 key hexadecimal keypad and the key wait
// state used by the Fx0A instruction.
package keypad

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Keys is the number of keys on the keypad.
const Keys = 16

// ErrInvalidKey is returned for key codes outside of 0x0-0xF.
var ErrInvalidKey = chip8.ErrKeyIndexOutOfBounds

// WaitState describes whether the interpreter is suspended until a key is released.
type WaitState struct {
	Waiting  bool
	Register uint8 // register that receives the key code
}

// Keypad holds the key states.
type Keypad struct {
	keys  [Keys]bool
	wait  WaitState
	armed uint16 // keys pressed while waiting, bit per key
}

// Set updates the state of a key. When the keypad is waiting and a key that
// was pressed during the wait is released, the wait ends and resolved is true.
func (k *Keypad) Set(code uint8, pressed bool) (resolved bool, err error) {
	if code >= Keys {
		return false, fmt.Errorf("%w: %d", ErrInvalidKey, code)
	}

	previous := k.keys[code]
	k.keys[code] = pressed
	if !k.wait.Waiting {
		return false, nil
	}

	mask := uint16(1) << code
	switch {
	case pressed && !previous:
		k.armed |= mask

	case !pressed && previous && k.armed&mask != 0:
		k.wait = WaitState{}
		k.armed = 0
		return true, nil
	}
	return false, nil
}

// Pressed returns whether the key with the low nibble of code is pressed.
func (k *Keypad) Pressed(code uint8) bool {
	return k.keys[code&0x0F]
}

// StartWait suspends the interpreter until a key is pressed and released.
func (k *Keypad) StartWait(register uint8) {
	k.wait = WaitState{Waiting: true, Register: register}
	k.armed = 0
}

// Wait returns the current wait state.
func (k *Keypad) Wait() WaitState {
	return k.wait
}

// States returns a copy of all key states.
func (k *Keypad) States() [Keys]bool {
	return k.keys
}

// Reset releases all keys and ends any wait.
func (k *Keypad) Reset() {
	*k = Keypad{}
}
