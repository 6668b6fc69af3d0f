package detector

import (
	"testing"

	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name        string
		systemOpt   string
		inputFile   string
		programName string
		wantVariant variant.Variant
	}{
		{
			name:        "explicit schip system option",
			systemOpt:   "schip",
			inputFile:   "game.ch8",
			wantVariant: variant.SuperChip,
		},
		{
			name:        "explicit chip8 system option",
			systemOpt:   "chip8",
			inputFile:   "game.sc8",
			wantVariant: variant.CHIP8,
		},
		{
			name:        "unknown system option falls back to detection",
			systemOpt:   "nes",
			inputFile:   "game.sc8",
			wantVariant: variant.SuperChip,
		},
		{
			name:        "detect from .sc8 extension",
			inputFile:   "game.sc8",
			wantVariant: variant.SuperChip,
		},
		{
			name:        "detect from .ch8 extension",
			inputFile:   "game.ch8",
			wantVariant: variant.CHIP8,
		},
		{
			name:        "program name inside archive",
			inputFile:   "games.zip",
			programName: "car.schip",
			wantVariant: variant.SuperChip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{System: tt.systemOpt},
			}

			got := d.Detect(opts, tt.programName)
			assert.Equal(t, tt.wantVariant, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name        string
		filename    string
		wantVariant variant.Variant
	}{
		{
			name:        ".sc8 extension",
			filename:    "ant.sc8",
			wantVariant: variant.SuperChip,
		},
		{
			name:        ".SCHIP extension (uppercase)",
			filename:    "BLINKY.SCHIP",
			wantVariant: variant.SuperChip,
		},
		{
			name:        ".ch8 extension",
			filename:    "pong.ch8",
			wantVariant: variant.CHIP8,
		},
		{
			name:        ".rom extension",
			filename:    "game.rom",
			wantVariant: variant.CHIP8,
		},
		{
			name:        "no extension",
			filename:    "game",
			wantVariant: variant.CHIP8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantVariant, got)
		})
	}
}
