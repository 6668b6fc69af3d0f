package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/deepchip/internal/decoder"
	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/deepchip/internal/quirks"
	"github.com/retroenv/retrogolib/set"
)

const dataBytesPerLine = 8

// ListingOptions control the disassembly listing.
type ListingOptions struct {
	SuperChip      bool          // decode the SUPER-CHIP opcodes
	Quirks         quirks.Quirks // quirks used for the explanations
	Explain        bool          // add the instruction explanation as comment
	HexComments    bool          // add the opcode word as comment
	OffsetComments bool          // add the address as comment
}

// Listing is a disassembled program. Words that are reachable from the entry
// point are code, all other bytes are data.
type Listing struct {
	rom     []byte
	options ListingOptions
	code    set.Set[uint16]
	labels  set.Set[uint16]
}

// NewListing traces the program from the entry point, following jumps,
// calls and skips.
func NewListing(rom []byte, options ListingOptions) *Listing {
	l := &Listing{
		rom:     rom,
		options: options,
		code:    set.New[uint16](),
		labels:  set.New[uint16](),
	}
	l.trace(memory.ProgramStart)
	return l
}

// IsCode returns whether the address was reached by the trace.
func (l *Listing) IsCode(address uint16) bool {
	return l.code.Contains(address)
}

// HasLabel returns whether the address is a jump or call target.
func (l *Listing) HasLabel(address uint16) bool {
	return l.labels.Contains(address)
}

func (l *Listing) trace(entry uint16) {
	queue := []uint16{entry}

	for len(queue) > 0 {
		address := queue[0]
		queue = queue[1:]

		opcode, ok := l.word(address)
		if !ok || l.code.Contains(address) {
			continue
		}
		ins := decoder.Decode(opcode, l.options.SuperChip)
		if !ins.Valid() {
			continue
		}
		l.code.Add(address)
		next := address + 2

		switch {
		case ins.Op == decoder.OpJp:
			l.labels.Add(ins.NNN)
			queue = append(queue, ins.NNN)
		case ins.IsJump():
			// the target of a computed jump is unknown
		case ins.IsCall():
			l.labels.Add(ins.NNN)
			queue = append(queue, ins.NNN, next)
		case ins.IsSkip():
			queue = append(queue, next, next+2)
		case ins.IsReturn(), ins.Op == decoder.OpExit:
		default:
			queue = append(queue, next)
		}
	}
}

// word returns the opcode at the address if it is inside the program.
func (l *Listing) word(address uint16) (uint16, bool) {
	if address < memory.ProgramStart {
		return 0, false
	}
	offset := int(address - memory.ProgramStart)
	if offset+1 >= len(l.rom) {
		return 0, false
	}
	return uint16(l.rom[offset])<<8 | uint16(l.rom[offset+1]), true
}

// Write outputs the listing.
func (l *Listing) Write(w io.Writer) error {
	for offset := 0; offset < len(l.rom); {
		address := uint16(memory.ProgramStart + offset)

		if l.labels.Contains(address) {
			if offset > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return fmt.Errorf("writing line: %w", err)
				}
			}
			if _, err := fmt.Fprintf(w, "label_%03X:\n", address); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		if l.code.Contains(address) {
			if err := l.writeCode(w, address); err != nil {
				return err
			}
			offset += 2
			continue
		}

		count, err := l.writeData(w, offset)
		if err != nil {
			return err
		}
		offset += count
	}
	return nil
}

func (l *Listing) writeCode(w io.Writer, address uint16) error {
	opcode, _ := l.word(address)
	ins := decoder.Decode(opcode, l.options.SuperChip)

	line := "  " + ins.String()
	var comments []string
	if l.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%03X", address))
	}
	if l.options.HexComments {
		comments = append(comments, fmt.Sprintf("%04X", opcode))
	}
	if l.options.Explain {
		comments = append(comments, decoder.Explain(ins, l.options.Quirks))
	}
	if len(comments) > 0 {
		line = fmt.Sprintf("%-24s ; %s", line, strings.Join(comments, " "))
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("writing code line: %w", err)
	}
	return nil
}

// writeData bundles up to dataBytesPerLine data bytes per line and stops at
// code or a label. It returns the number of bytes written.
func (l *Listing) writeData(w io.Writer, offset int) (int, error) {
	start := uint16(memory.ProgramStart + offset)

	var values []string
	for i := offset; i < len(l.rom) && len(values) < dataBytesPerLine; i++ {
		address := uint16(memory.ProgramStart + i)
		if i > offset && (l.code.Contains(address) || l.labels.Contains(address)) {
			break
		}
		values = append(values, fmt.Sprintf("$%02X", l.rom[i]))
	}

	line := "  .byte " + strings.Join(values, ", ")
	if l.options.OffsetComments {
		line = fmt.Sprintf("%-24s ; $%03X", line, start)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return 0, fmt.Errorf("writing data line: %w", err)
	}
	return len(values), nil
}
