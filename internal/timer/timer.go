// Package timer implements the delay and sound timers.
package timer

// Timers are decremented once per frame until they reach zero.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both timers, stopping at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// SoundOn returns whether the buzzer is sounding.
func (t *Timers) SoundOn() bool {
	return t.Sound > 0
}

// Reset zeroes both timers.
func (t *Timers) Reset() {
	*t = Timers{}
}
