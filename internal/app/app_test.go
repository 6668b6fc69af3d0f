package app

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/deepchip/internal/decoder"
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/romloader"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var listingProgram = []byte{
	0x22, 0x08, // 200: call $208
	0x30, 0x01, // 202: se V0, $01
	0x12, 0x04, // 204: jp $204
	0x12, 0x00, // 206: jp $200
	0xA2, 0x0E, // 208: ld I, $20E
	0x00, 0xEE, // 20A: ret
	0xAB, 0xCD, // 20C: unreached
	0xF0, 0x90, // 20E: sprite
}

func ins(opcode uint16) string {
	return "  " + decoder.Decode(opcode, false).String()
}

func TestListingTrace(t *testing.T) {
	l := NewListing(listingProgram, ListingOptions{})

	for _, address := range []uint16{0x200, 0x202, 0x204, 0x206, 0x208, 0x20A} {
		assert.True(t, l.IsCode(address), fmt.Sprintf("$%03X should be code", address))
	}
	assert.False(t, l.IsCode(0x20C))
	assert.False(t, l.IsCode(0x20E))

	assert.True(t, l.HasLabel(0x200))
	assert.True(t, l.HasLabel(0x204))
	assert.True(t, l.HasLabel(0x208))
	assert.False(t, l.HasLabel(0x202))
}

func TestListingWrite(t *testing.T) {
	l := NewListing(listingProgram, ListingOptions{})

	var buf bytes.Buffer
	assert.NoError(t, l.Write(&buf))

	expected := strings.Join([]string{
		"label_200:",
		ins(0x2208),
		ins(0x3001),
		"",
		"label_204:",
		ins(0x1204),
		ins(0x1200),
		"",
		"label_208:",
		ins(0xA20E),
		ins(0x00EE),
		"  .byte $AB, $CD, $F0, $90",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestListingComments(t *testing.T) {
	rom := []byte{0x81, 0x26, 0x00, 0xFD, 0x01}
	opts := ListingOptions{
		SuperChip:      true,
		Quirks:         quirks.SuperChip(),
		Explain:        true,
		HexComments:    true,
		OffsetComments: true,
	}
	l := NewListing(rom, opts)

	var buf bytes.Buffer
	assert.NoError(t, l.Write(&buf))

	shift := decoder.Decode(0x8126, true)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, fmt.Sprintf("%-24s ; $200 8126 %s", "  "+shift.String(), decoder.Explain(shift, opts.Quirks)), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  exit"))
	assert.Equal(t, fmt.Sprintf("%-24s ; $204", "  .byte $01"), lines[2])
}

func TestListingVariant(t *testing.T) {
	rom := []byte{0x00, 0xFF, 0x12, 0x00}

	l := NewListing(rom, ListingOptions{SuperChip: true})
	assert.True(t, l.IsCode(0x202))

	// without the SUPER-CHIP opcodes the trace stops at the invalid word
	l = NewListing(rom, ListingOptions{})
	assert.False(t, l.IsCode(0x200))
	assert.False(t, l.IsCode(0x202))

	var buf bytes.Buffer
	assert.NoError(t, l.Write(&buf))
	assert.Equal(t, "  .byte $00, $FF, $12, $00\n", buf.String())
}

func TestPrintInfo(t *testing.T) {
	logger := log.NewTestLogger(t)
	rom := romloader.ROM{Name: "ant.sc8", Data: listingProgram, Format: romloader.FormatZIP}

	PrintInfo(logger, options.Program{}, rom, variant.SuperChip, quirks.SuperChip())
	PrintInfo(logger, options.Program{}, rom, variant.CHIP8, quirks.VIP())
	PrintInfo(logger, options.Program{Flags: options.Flags{Quiet: true}}, rom, variant.CHIP8, quirks.VIP())
}
