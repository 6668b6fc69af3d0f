// Package main implements a CHIP-8 and SUPER-CHIP program disassembler
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/deepchip/internal/app"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/deepchip/internal/romloader"
	"github.com/retroenv/deepchip/internal/variant"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string
	system string
	preset string

	explain bool
	quiet   bool

	noHexComments bool
	noOffsets     bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner(options)
	}

	if err := disasmFile(options); err != nil {
		fmt.Println(fmt.Errorf("disassembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVar(&options.system, "s", "", "interpreter variant (chip8, schip) - if not auto-detected from file extension")
	flags.StringVar(&options.preset, "p", "", "quirk preset used for the explanations (vip, octo, schip)")
	flags.BoolVar(&options.explain, "explain", false, "add an explanation of every instruction as comment")
	flags.BoolVar(&options.noHexComments, "nohexcomments", false, "do not output opcode words as hex values in comments")
	flags.BoolVar(&options.noOffsets, "nooffsets", false, "do not output addresses in comments")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner(options)
		fmt.Printf("usage: c8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner(options optionFlags) {
	if !options.quiet {
		fmt.Println("[------------------------------------------------]")
		fmt.Println("[ c8disasm - CHIP-8 and SUPER-CHIP disassembler  ]")
		fmt.Printf("[------------------------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func disasmFile(options optionFlags) error {
	rom, err := romloader.Load(options.input, romloader.Extensions)
	if err != nil {
		return fmt.Errorf("loading file: %w", err)
	}

	v, err := selectVariant(options, rom.Name)
	if err != nil {
		return err
	}

	q := v.DefaultQuirks()
	if options.preset != "" {
		q, err = quirks.ByPreset(options.preset)
		if err != nil {
			return fmt.Errorf("selecting preset: %w", err)
		}
	}

	listing := app.NewListing(rom.Data, app.ListingOptions{
		SuperChip:      v.SupportsSuperChip(),
		Quirks:         q,
		Explain:        options.explain,
		HexComments:    !options.noHexComments,
		OffsetComments: !options.noOffsets,
	})

	var outputFile io.WriteCloser
	if options.output == "" {
		outputFile = os.Stdout
	} else {
		outputFile, err = os.Create(options.output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
	}

	if _, err = fmt.Fprintf(outputFile, "; %s (%s)\n\n", rom.Name, v); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err = listing.Write(outputFile); err != nil {
		return fmt.Errorf("processing file: %w", err)
	}
	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

// selectVariant returns the variant set by option or detected from the
// extension of the program name.
func selectVariant(options optionFlags, name string) (variant.Variant, error) {
	if options.system != "" {
		v, err := variant.Parse(options.system)
		if err != nil {
			return variant.CHIP8, fmt.Errorf("selecting variant: %w", err)
		}
		return v, nil
	}
	if v, err := variant.Parse(strings.TrimPrefix(filepath.Ext(name), ".")); err == nil {
		return v, nil
	}
	return variant.CHIP8, nil
}
