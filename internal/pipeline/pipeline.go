// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/retroenv/deepchip/internal/app"
	"github.com/retroenv/deepchip/internal/config"
	"github.com/retroenv/deepchip/internal/detector"
	"github.com/retroenv/deepchip/internal/engine"
	"github.com/retroenv/deepchip/internal/flagstore"
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/romloader"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/deepchip/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// FlagsExtension is the extension of the persistent flags file that is
// used when no flags file is set.
const FlagsExtension = ".flags"

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
}

// Result describes a finished run.
type Result struct {
	Name     string          // program name
	Variant  variant.Variant // variant the program ran with
	Frames   uint            // number of completed frames
	Snapshot engine.Snapshot // state after the last frame
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
	}
}

// Execute runs the complete emulation pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, w io.Writer) (*Result, error) {
	rom, err := romloader.Load(opts.Input, romloader.Extensions)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	v := p.detector.Detect(opts, rom.Name)
	return p.ExecuteWithROM(ctx, rom, v, opts, w)
}

// ExecuteWithROM runs the emulation pipeline with a pre-loaded program.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom romloader.ROM, v variant.Variant,
	opts options.Program, w io.Writer) (*Result, error) {

	e, err := p.createEngine(rom, v, opts)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	store := flagstore.New(FlagsPath(opts))
	flags, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading flags: %w", err)
	}
	e.LoadFlags(flags)

	app.PrintInfo(p.logger, opts, rom, e.Variant(), e.Quirks())
	p.logger.Debug("Run configuration",
		log.Int("frames", int(opts.Frames)),
		log.Int("cycles", int(opts.Cycles)),
		log.String("flags", store.Path()))

	frames, runErr := p.run(ctx, e, store, opts)
	if runErr != nil && errors.Is(runErr, ctx.Err()) {
		return nil, runErr
	}

	result := &Result{
		Name:     rom.Name,
		Variant:  e.Variant(),
		Frames:   frames,
		Snapshot: e.Snapshot(),
	}

	out := writer.New(w, writer.DefaultOptions())
	if err := out.Write(rom.Name, result.Snapshot); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	if runErr != nil {
		return result, fmt.Errorf("running program: %w", runErr)
	}
	return result, nil
}

// FlagsPath returns the flags file option or the input file name with the
// flags extension.
func FlagsPath(opts options.Program) string {
	if opts.FlagsFile != "" {
		return opts.FlagsFile
	}
	ext := filepath.Ext(opts.Input)
	return strings.TrimSuffix(opts.Input, ext) + FlagsExtension
}

// createEngine creates and configures the engine and loads the program.
func (p *Pipeline) createEngine(rom romloader.ROM, v variant.Variant, opts options.Program) (*engine.Engine, error) {
	engineOptions, err := config.EngineOptions(p.logger, v, opts)
	if err != nil {
		return nil, err
	}

	e, err := engine.New(engineOptions...)
	if err != nil {
		return nil, err
	}
	if err := e.LoadROM(rom.Data); err != nil {
		return nil, err
	}
	return e, nil
}

// run executes the frames and applies the scripted key events at the start
// of their frame. It returns the number of completed frames.
func (p *Pipeline) run(ctx context.Context, e *engine.Engine, store *flagstore.Store, opts options.Program) (uint, error) {
	var frame uint
	for ; frame < opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return frame, err
		}

		for _, event := range opts.Keys {
			if event.Frame != frame {
				continue
			}
			if err := e.SetKey(event.Key, event.Pressed); err != nil {
				return frame, err
			}
		}

		sig, err := e.AdvanceFrame(uint32(opts.Cycles))
		if sig.FlagsSaved {
			if err := store.Save(e.Flags()); err != nil {
				return frame, fmt.Errorf("saving flags: %w", err)
			}
			p.logger.Debug("Saved flags", log.String("file", store.Path()))
		}
		if err != nil {
			return frame, err
		}
		if sig.Halted {
			p.logger.Debug("Program exited", log.Int("frame", int(frame)))
			return frame, nil
		}
	}
	return frame, nil
}
