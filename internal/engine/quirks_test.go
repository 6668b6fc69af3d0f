package engine

import (
	"testing"

	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/assert"
)

var variants = []variant.Variant{variant.CHIP8, variant.SuperChip}

// runQuirk runs program in both variants with the quirk set to enabled and
// calls check afterwards.
func runQuirk(t *testing.T, name string, steps int, program []uint16, check func(t *testing.T, e *Engine, enabled bool)) {
	t.Helper()
	for _, v := range variants {
		for _, enabled := range []bool{false, true} {
			t.Run(v.String(), func(t *testing.T) {
				e := newTestEngine(t, v, program...)
				e.SetQuirks(quirks.Octo())
				assert.NoError(t, e.SetQuirk(name, enabled))
				step(t, e, steps)
				check(t, e, enabled)
			})
		}
	}
}

func TestQuirkVFReset(t *testing.T) {
	for _, op := range []uint16{0x8011, 0x8012, 0x8013} {
		program := []uint16{
			0x6F05, // ld VF, 5
			0x6003, // ld V0, 3
			0x6106, // ld V1, 6
			op,
		}
		runQuirk(t, quirks.VFResetName, 4, program, func(t *testing.T, e *Engine, enabled bool) {
			if enabled {
				assert.Equal(t, byte(0), e.Registers().V[0xF])
			} else {
				assert.Equal(t, byte(5), e.Registers().V[0xF])
			}
		})
	}
}

func TestQuirkMemoryIncrement(t *testing.T) {
	program := []uint16{
		0xA300, // ld I, $300
		0xF255, // ld [I], V2
		0xF265, // ld V2, [I]
	}
	runQuirk(t, quirks.MemoryIncrementName, 2, program, func(t *testing.T, e *Engine, enabled bool) {
		if enabled {
			assert.Equal(t, uint16(0x303), e.Registers().I)
		} else {
			assert.Equal(t, uint16(0x300), e.Registers().I)
		}
	})
	runQuirk(t, quirks.MemoryIncrementName, 3, program, func(t *testing.T, e *Engine, enabled bool) {
		if enabled {
			assert.Equal(t, uint16(0x306), e.Registers().I)
		} else {
			assert.Equal(t, uint16(0x300), e.Registers().I)
		}
	})
}

func TestQuirkShifting(t *testing.T) {
	program := []uint16{
		0x6005, // ld V0, 5
		0x6182, // ld V1, $82
		0x8016, // shr V0 {, V1}
		0x620C, // ld V2, $0C
		0x631F, // ld V3, $1F
		0x823E, // shl V2 {, V3}
	}
	runQuirk(t, quirks.ShiftingName, 6, program, func(t *testing.T, e *Engine, enabled bool) {
		regs := e.Registers()
		if enabled {
			assert.Equal(t, byte(0x02), regs.V[0])
			assert.Equal(t, byte(0x18), regs.V[2])
		} else {
			assert.Equal(t, byte(0x41), regs.V[0])
			assert.Equal(t, byte(0x3E), regs.V[2])
		}
		assert.Equal(t, byte(0), regs.V[0xF])
	})
}

func TestQuirkJumping(t *testing.T) {
	program := []uint16{
		0x6002, // ld V0, 2
		0x6304, // ld V3, 4
		0xB300, // jp V0, $300
	}
	runQuirk(t, quirks.JumpingName, 3, program, func(t *testing.T, e *Engine, enabled bool) {
		if enabled {
			assert.Equal(t, uint16(0x304), e.Registers().PC)
		} else {
			assert.Equal(t, uint16(0x302), e.Registers().PC)
		}
	})
}

func TestQuirkClipping(t *testing.T) {
	program := []uint16{
		0xA20A, // ld I, $20A
		0x603C, // ld V0, 60
		0x611F, // ld V1, 31
		0xD012, // drw V0, V1, 2
		0x1208, // jp $208
		0xFFFF, // sprite data
	}
	runQuirk(t, quirks.ClippingName, 4, program, func(t *testing.T, e *Engine, enabled bool) {
		assert.True(t, e.Pixel(63, 31))
		assert.True(t, e.Pixel(60, 31))
		assert.Equal(t, enabled, !e.Pixel(0, 31))
		assert.Equal(t, enabled, !e.Pixel(60, 0))
		assert.Equal(t, enabled, !e.Pixel(3, 0))
		assert.False(t, e.Pixel(4, 0))
	})
}

func TestQuirkClippingStartWraps(t *testing.T) {
	program := []uint16{
		0xA20A, // ld I, $20A
		0x6042, // ld V0, 66
		0x6121, // ld V1, 33
		0xD011, // drw V0, V1, 1
		0x1208, // jp $208
		0x8000, // sprite data
	}
	runQuirk(t, quirks.ClippingName, 4, program, func(t *testing.T, e *Engine, _ bool) {
		assert.True(t, e.Pixel(2, 1))
	})
}

func TestQuirkClippingNoCollision(t *testing.T) {
	program := []uint16{
		0xA20E, // ld I, $20E
		0x603F, // ld V0, 63
		0xD011, // drw V0, V1, 1
		0x6000, // ld V0, 0
		0xD011, // drw V0, V1, 1
		0x120A, // jp $20A
		0x0000,
		0xC000, // sprite data
	}
	runQuirk(t, quirks.ClippingName, 3, program, func(t *testing.T, e *Engine, enabled bool) {
		assert.Equal(t, enabled, !e.Pixel(0, 0))
	})
	runQuirk(t, quirks.ClippingName, 5, program, func(t *testing.T, e *Engine, enabled bool) {
		if enabled {
			assert.Equal(t, byte(0), e.Registers().V[0xF])
		} else {
			assert.Equal(t, byte(1), e.Registers().V[0xF])
		}
	})
}

func TestQuirkDisplayWait(t *testing.T) {
	program := []uint16{
		0xA20A, // ld I, $20A
		0xD011, // drw V0, V1, 1
		0x6005, // ld V0, 5
		0x1206, // jp $206
		0x0000,
		0x8000, // sprite data
	}
	runQuirk(t, quirks.DisplayWaitName, 4, program, func(t *testing.T, e *Engine, enabled bool) {
		if enabled {
			assert.Equal(t, byte(0), e.Registers().V[0])
			assert.Equal(t, uint16(0x204), e.Registers().PC)

			e.TickFrame()
			step(t, e, 1)
		}
		assert.Equal(t, byte(5), e.Registers().V[0])
	})
}

func TestQuirkDisplayWaitFrameCount(t *testing.T) {
	e := newTestEngine(t, variant.CHIP8,
		0xA20A, // ld I, $20A
		0xD011, // drw V0, V1, 1
		0x7001, // add V0, 1
		0x1202, // jp $202
		0x0000,
		0x8000, // sprite data
	)
	assert.True(t, e.Quirks().DisplayWait)

	for range 3 {
		_, err := e.AdvanceFrame(100)
		assert.NoError(t, err)
	}
	assert.Equal(t, byte(2), e.Registers().V[0])
}

func TestQuirkHalfScroll(t *testing.T) {
	program := []uint16{
		0xA20C, // ld I, $20C
		0x6008, // ld V0, 8
		0xD011, // drw V0, V1, 1
		0x00FB, // scr
		0x00C2, // scd 2
		0x120A, // jp $20A
		0x8000, // sprite data
	}
	for _, enabled := range []bool{false, true} {
		e := newTestEngine(t, variant.SuperChip, program...)
		e.SetQuirks(quirks.Octo())
		assert.NoError(t, e.SetQuirk(quirks.HalfScrollName, enabled))
		step(t, e, 5)

		if enabled {
			assert.True(t, e.Pixel(10, 1))
		} else {
			assert.True(t, e.Pixel(12, 2))
		}
		assert.Equal(t, 1, litPixels(e))
	}

	e := newTestEngine(t, variant.SuperChip,
		0x00FF, // high
		0xA20E, // ld I, $20E
		0x6008, // ld V0, 8
		0xD011, // drw V0, V1, 1
		0x00FB, // scr
		0x00C2, // scd 2
		0x120C, // jp $20C
		0x8000, // sprite data
	)
	e.SetQuirks(quirks.Octo())
	assert.NoError(t, e.SetQuirk(quirks.HalfScrollName, true))
	step(t, e, 6)
	assert.True(t, e.Pixel(12, 2))
}

func TestVariantDefaultQuirks(t *testing.T) {
	chip8 := newTestEngine(t, variant.CHIP8)
	assert.Equal(t, quirks.VIP(), chip8.Quirks())

	schip := newTestEngine(t, variant.SuperChip)
	assert.Equal(t, quirks.SuperChip(), schip.Quirks())
}

func TestSuperChipResolution(t *testing.T) {
	e := newTestEngine(t, variant.SuperChip,
		0x00FF, // high
		0xA20E, // ld I, $20E
		0xD010, // drw V0, V1, 0
		0x00FE, // low
		0x00FF, // high
		0x120A, // jp $20A
		0x0000,
		0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF,
		0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF,
	)

	sig, err := e.Step()
	assert.NoError(t, err)
	assert.True(t, sig.Redraw)
	assert.True(t, e.HighRes())
	snap := e.Snapshot()
	assert.Equal(t, 128, snap.Width)
	assert.Equal(t, 64, snap.Height)
	assert.Len(t, snap.Pixels, 64)

	step(t, e, 2)
	assert.Equal(t, 256, litPixels(e))
	assert.True(t, e.Pixel(15, 15))
	assert.False(t, e.Pixel(16, 0))

	step(t, e, 1)
	assert.False(t, e.HighRes())
	assert.Equal(t, 0, litPixels(e))
	assert.Len(t, e.Framebuffer(), 32)

	step(t, e, 1)
	assert.True(t, e.HighRes())
	assert.Equal(t, 0, litPixels(e))
}

func TestSuperChipBigSpriteLowRes(t *testing.T) {
	e := newTestEngine(t, variant.SuperChip,
		0xA206, // ld I, $206
		0xD010, // drw V0, V1, 0
		0x1204, // jp $204
		0x8000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
		0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0001,
	)
	step(t, e, 2)
	assert.True(t, e.Pixel(0, 0))
	assert.True(t, e.Pixel(15, 15))
	assert.Equal(t, 2, litPixels(e))
}

func TestChip8DrawZeroRows(t *testing.T) {
	e := newTestEngine(t, variant.CHIP8, 0xD010)
	sig, err := e.Step()
	assert.NoError(t, err)
	assert.True(t, sig.Redraw)
	assert.Equal(t, 0, litPixels(e))
}

func TestSuperChipScroll(t *testing.T) {
	e := newTestEngine(t, variant.SuperChip,
		0x00FF, // high
		0xA212, // ld I, $212
		0x6010, // ld V0, 16
		0xD011, // drw V0, V1, 1
		0x00C3, // scd 3
		0x00FC, // scl
		0x00FB, // scr
		0x00FB, // scr
		0x1210, // jp $210
		0x8000, // sprite data
	)
	step(t, e, 4)
	assert.True(t, e.Pixel(16, 0))

	step(t, e, 1)
	assert.True(t, e.Pixel(16, 3))
	step(t, e, 1)
	assert.True(t, e.Pixel(12, 3))
	step(t, e, 2)
	assert.True(t, e.Pixel(20, 3))
	assert.Equal(t, 1, litPixels(e))
}

func TestSuperChipBigFont(t *testing.T) {
	e := newTestEngine(t, variant.SuperChip,
		0x6A07, // ld VA, 7
		0xFA30, // ld HF, VA
	)
	step(t, e, 2)
	assert.Equal(t, memory.BigFontGlyph(7), e.Registers().I)
	assert.Equal(t, uint16(memory.BigFontAddress+70), e.Registers().I)
}

func TestSuperChipExit(t *testing.T) {
	e := newTestEngine(t, variant.SuperChip,
		0x6001, // ld V0, 1
		0x00FD, // exit
		0x6002, // ld V0, 2
	)
	step(t, e, 1)
	sig, err := e.Step()
	assert.NoError(t, err)
	assert.True(t, sig.Halted)
	assert.True(t, e.Halted())
	assert.Nil(t, e.Fault())

	sig, err = e.Step()
	assert.NoError(t, err)
	assert.True(t, sig.Halted)
	assert.Equal(t, byte(1), e.Registers().V[0])

	sig, err = e.AdvanceFrame(10)
	assert.NoError(t, err)
	assert.True(t, sig.Halted)
}
