// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/deepchip/internal/keypad"
	"github.com/retroenv/deepchip/internal/options"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/variant"
)

var errInvalidKeyEvent = errors.New("invalid key event")

// ParseFlags parses the process command line and returns the program options.
func ParseFlags() (options.Program, error) {
	return Parse(os.Args[0], os.Args[1:])
}

// Parse parses the given arguments and returns the program options.
func Parse(name string, arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments)
	if errors.Is(err, flag.ErrHelp) {
		return opts, &UsageError{flags: flags}
	}
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	args := flags.Args()
	if len(args) == 0 && opts.Input == "" && opts.Batch == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the message of the error followed by the flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: deepchip [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.System != "" {
		v, err := variant.Parse(opts.System)
		if err != nil {
			return fmt.Errorf("invalid system: %w", err)
		}
		if v == variant.SuperChip {
			opts.System = "schip"
		} else {
			opts.System = "chip8"
		}
	}

	opts.Preset = strings.ToLower(strings.TrimSpace(opts.Preset))
	if opts.Preset != "" {
		if _, err := quirks.ByPreset(opts.Preset); err != nil {
			return fmt.Errorf("invalid preset: %w", err)
		}
	}

	if opts.Cycles == 0 {
		return errors.New("cycles per frame must be greater than 0")
	}
	if opts.Cycles > math.MaxUint32 {
		return fmt.Errorf("cycles per frame must not exceed %d", uint64(math.MaxUint32))
	}
	if opts.Trace && !opts.Debug {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file or archive")
	flags.StringVar(&opts.Output, "o", "", "name of the output .txt file, printed on console if no name given")
	flags.StringVar(&opts.FlagsFile, "flags", "", "persistent flags file, defaults to the program name with .flags extension")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .txt file naming, for example *.ch8")
	flags.StringVar(&opts.System, "s", "", "interpreter variant (chip8, schip) - if not auto-detected from file extension")
	flags.StringVar(&opts.Preset, "p", "", "quirk preset (vip, octo, schip) - defaults to the quirks of the variant")
	flags.UintVar(&opts.Frames, "frames", options.DefaultFrames, "number of frames to run")
	flags.UintVar(&opts.Cycles, "cycles", options.DefaultCycles, "number of instructions to execute per frame")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses the current time")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction with its explanation, enables -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.Func("quirk", "quirk override as name=true|false, can be repeated ("+strings.Join(quirks.Names(), ", ")+")",
		func(value string) error {
			override, err := parseQuirk(value)
			if err != nil {
				return err
			}
			opts.Quirks = append(opts.Quirks, override)
			return nil
		})
	flags.Func("keys", "scripted key events as frame:key:down|up, comma separated, for example 10:5:down,12:5:up",
		func(value string) error {
			events, err := parseKeyEvents(value)
			if err != nil {
				return err
			}
			opts.Keys = append(opts.Keys, events...)
			return nil
		})
}

// parseQuirk parses a name=bool quirk override. A name without value enables the quirk.
func parseQuirk(value string) (options.QuirkOverride, error) {
	name, setting, found := strings.Cut(value, "=")
	name = strings.ToLower(strings.TrimSpace(name))

	enabled := true
	if found {
		var err error
		enabled, err = strconv.ParseBool(strings.TrimSpace(setting))
		if err != nil {
			return options.QuirkOverride{}, fmt.Errorf("invalid value for quirk '%s': %w", name, err)
		}
	}

	var q quirks.Quirks
	if err := q.Set(name, enabled); err != nil {
		return options.QuirkOverride{}, err
	}
	return options.QuirkOverride{Name: name, Value: enabled}, nil
}

// parseKeyEvents parses a comma separated list of frame:key:down|up events.
// The key is a hexadecimal digit.
func parseKeyEvents(value string) ([]options.KeyEvent, error) {
	var events []options.KeyEvent

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w '%s': expected frame:key:down|up", errInvalidKeyEvent, item)
		}

		frame, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': invalid frame: %w", errInvalidKeyEvent, item, err)
		}
		key, err := strconv.ParseUint(parts[1], 16, 8)
		if err != nil || key >= keypad.Keys {
			return nil, fmt.Errorf("%w '%s': key must be 0-F", errInvalidKeyEvent, item)
		}

		var pressed bool
		switch strings.ToLower(parts[2]) {
		case "down", "press", "1":
			pressed = true
		case "up", "release", "0":
		default:
			return nil, fmt.Errorf("%w '%s': state must be down or up", errInvalidKeyEvent, item)
		}

		events = append(events, options.KeyEvent{
			Frame:   uint(frame),
			Key:     uint8(key),
			Pressed: pressed,
		})
	}

	return events, nil
}
