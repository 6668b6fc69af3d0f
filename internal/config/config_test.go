package config

import (
	"testing"

	"github.com/retroenv/deepchip/internal/engine"
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestQuirks(t *testing.T) {
	tests := []struct {
		name     string
		variant  variant.Variant
		opts     options.Program
		expected quirks.Quirks
	}{
		{
			name:     "chip8 defaults",
			variant:  variant.CHIP8,
			expected: quirks.VIP(),
		},
		{
			name:     "schip defaults",
			variant:  variant.SuperChip,
			expected: quirks.SuperChip(),
		},
		{
			name:     "preset replaces defaults",
			variant:  variant.SuperChip,
			opts:     options.Program{Flags: options.Flags{Preset: quirks.PresetOcto}},
			expected: quirks.Octo(),
		},
		{
			name:    "overrides apply in order",
			variant: variant.CHIP8,
			opts: options.Program{Script: options.Script{Quirks: []options.QuirkOverride{
				{Name: "logic", Value: false},
				{Name: quirks.ClippingName, Value: false},
				{Name: quirks.VFResetName, Value: true},
			}}},
			expected: func() quirks.Quirks {
				q := quirks.VIP()
				q.Clipping = false
				q.VFReset = true
				return q
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Quirks(tt.variant, tt.opts)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, q)
		})
	}
}

func TestQuirksErrors(t *testing.T) {
	_, err := Quirks(variant.CHIP8, options.Program{Flags: options.Flags{Preset: "cosmac"}})
	assert.ErrorContains(t, err, "applying preset")

	_, err = Quirks(variant.CHIP8, options.Program{Script: options.Script{
		Quirks: []options.QuirkOverride{{Name: "wobble", Value: true}},
	}})
	assert.ErrorContains(t, err, "applying quirk override")
}

func TestEngineOptions(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := options.Program{
		Flags: options.Flags{Preset: quirks.PresetOcto, Seed: 42},
		Script: options.Script{Quirks: []options.QuirkOverride{
			{Name: quirks.ShiftingName, Value: true},
		}},
	}

	engineOptions, err := EngineOptions(logger, variant.SuperChip, opts)
	assert.NoError(t, err)

	e, err := engine.New(engineOptions...)
	assert.NoError(t, err)
	assert.Equal(t, variant.SuperChip, e.Variant())

	expected := quirks.Octo()
	expected.Shifting = true
	assert.Equal(t, expected, e.Quirks())
}
