// Package app provides the main application helpers for the emulator host
// and the disassembler.
package app

import (
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/romloader"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the loaded program and the
// interpreter configuration it runs with.
func PrintInfo(logger *log.Logger, opts options.Program, rom romloader.ROM, v variant.Variant, q quirks.Quirks) {
	if opts.Quiet {
		return
	}

	switch v {
	case variant.SuperChip:
		logger.Info("Running SUPER-CHIP program",
			log.String("file", rom.Name),
			log.Int("size", len(rom.Data)),
			log.Stringer("quirks", q),
		)

	default:
		logger.Info("Running CHIP-8 program",
			log.String("file", rom.Name),
			log.Int("size", len(rom.Data)),
			log.Stringer("quirks", q),
		)
	}

	if rom.Format != romloader.FormatRaw {
		logger.Info("Program extracted from archive", log.Stringer("format", rom.Format))
	}
	if len(opts.Keys) == 0 {
		logger.Debug("No key events scripted, programs waiting for input will not advance")
	}
}
