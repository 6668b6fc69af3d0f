package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// Option configures an engine on creation.
type Option func(e *Engine) error

func (e *Engine) setOptions(options ...Option) error {
	for i, option := range options {
		if err := option(e); err != nil {
			return fmt.Errorf("setting option index %d: %w", i, err)
		}
	}
	return nil
}

// WithLogger sets the logger used for faults, state changes and tracing.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		e.logger = logger
		return nil
	}
}

// WithTrace enables logging of every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(e *Engine) error {
		e.trace = trace
		return nil
	}
}

// WithVariant selects the variant and its default quirks.
// Quirks set by a following WithQuirks option take precedence.
func WithVariant(v variant.Variant) Option {
	return func(e *Engine) error {
		if v != variant.CHIP8 && v != variant.SuperChip {
			return fmt.Errorf("%w: %d", variant.ErrUnknownVariant, int(v))
		}
		e.variant = v
		e.quirks = v.DefaultQuirks()
		return nil
	}
}

// WithQuirks sets the quirks.
func WithQuirks(q quirks.Quirks) Option {
	return func(e *Engine) error {
		e.quirks = q
		return nil
	}
}

// WithRandomSeed makes the Cxnn instruction deterministic.
func WithRandomSeed(seed int64) Option {
	return func(e *Engine) error {
		e.rng = rand.New(rand.NewSource(seed))
		return nil
	}
}
