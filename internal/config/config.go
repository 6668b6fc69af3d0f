// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/deepchip/internal/engine"
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Quirks returns the quirks for the variant, replaced by the preset if one
// is set and with the overrides applied in order.
func Quirks(v variant.Variant, opts options.Program) (quirks.Quirks, error) {
	q := v.DefaultQuirks()

	if opts.Preset != "" {
		preset, err := quirks.ByPreset(opts.Preset)
		if err != nil {
			return quirks.Quirks{}, fmt.Errorf("applying preset: %w", err)
		}
		q = preset
	}

	for _, override := range opts.Quirks {
		if err := q.Set(override.Name, override.Value); err != nil {
			return quirks.Quirks{}, fmt.Errorf("applying quirk override: %w", err)
		}
	}
	return q, nil
}

// EngineOptions returns the engine options for the variant and program options.
func EngineOptions(logger *log.Logger, v variant.Variant, opts options.Program) ([]engine.Option, error) {
	q, err := Quirks(v, opts)
	if err != nil {
		return nil, err
	}

	// the quirks option has to follow the variant option which sets the variant defaults
	engineOptions := []engine.Option{
		engine.WithLogger(logger),
		engine.WithVariant(v),
		engine.WithQuirks(q),
		engine.WithTrace(opts.Trace),
	}
	if opts.Seed != 0 {
		engineOptions = append(engineOptions, engine.WithRandomSeed(opts.Seed))
	}
	return engineOptions, nil
}
