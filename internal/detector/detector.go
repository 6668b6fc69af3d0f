// Package detector handles interpreter variant detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles variant detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new variant detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the interpreter variant from options or file auto-detection.
// It first checks if a variant is explicitly specified in options, otherwise
// attempts to detect the variant from the program name extension. The program
// name is the name of the file inside an archive, for raw files it is the
// input file name.
func (d *Detector) Detect(opts options.Program, programName string) variant.Variant {
	if opts.System != "" {
		v, err := variant.Parse(opts.System)
		if err == nil {
			return v
		}
		d.logger.Warn("Ignoring unknown system option", log.String("system", opts.System))
	}

	if programName == "" {
		programName = opts.Input
	}
	v := d.detectFromFile(programName)
	d.logger.Debug("Auto-detected variant",
		log.Stringer("variant", v),
		log.String("file", programName))
	return v
}

// detectFromFile determines the variant based on file extension.
func (d *Detector) detectFromFile(filename string) variant.Variant {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8", ".schip":
		return variant.SuperChip
	default:
		// .ch8, .c8 and .rom files as well as unknown extensions run as CHIP-8
		return variant.CHIP8
	}
}
