// Package writer implements the text output of an engine state.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/deepchip/internal/engine"
	"github.com/retroenv/deepchip/internal/registers"
)

const bytesPerLine = 8

// Writer writes an engine snapshot as text.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	PixelOn  byte // character for a lit pixel
	PixelOff byte // character for an unlit pixel
	Border   bool // surround the framebuffer with a border
}

// DefaultOptions returns the default writer options.
func DefaultOptions() Options {
	return Options{
		PixelOn:  '#',
		PixelOff: '.',
	}
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Write writes the header, the register dump and the framebuffer.
func (w Writer) Write(name string, snapshot engine.Snapshot) error {
	if err := w.WriteHeader(name, snapshot); err != nil {
		return err
	}
	if err := w.WriteRegisters(snapshot); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return w.WriteFramebuffer(snapshot.Pixels)
}

// WriteHeader writes the program name and the interpreter configuration as comments.
func (w Writer) WriteHeader(name string, snapshot engine.Snapshot) error {
	quirks := snapshot.Quirks.String()
	if quirks == "" {
		quirks = "none"
	}

	lines := []string{
		fmt.Sprintf("; Program: %s", name),
		fmt.Sprintf("; Variant: %s", snapshot.Variant),
		fmt.Sprintf("; Quirks: %s", quirks),
		fmt.Sprintf("; Cycles: %d", snapshot.Cycles),
	}
	if snapshot.Halted {
		state := "exit"
		if snapshot.Fault != nil {
			state = snapshot.Fault.Error()
		}
		lines = append(lines, fmt.Sprintf("; Halted: %s", state))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// WriteRegisters writes the registers, stack, timers, keys and flags.
func (w Writer) WriteRegisters(snapshot engine.Snapshot) error {
	regs := snapshot.Registers

	if err := w.bundleBytes("V", regs.V[:]); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w.writer, "PC = $%03X  I = $%03X  SP = %d\n", regs.PC, regs.I, regs.SP); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "DT = $%02X  ST = $%02X\n", snapshot.Timers.Delay, snapshot.Timers.Sound); err != nil {
		return fmt.Errorf("writing timers: %w", err)
	}

	if regs.SP > 0 {
		stack := make([]string, 0, regs.SP)
		for _, address := range regs.Stack[:min(int(regs.SP), registers.StackDepth)] {
			stack = append(stack, fmt.Sprintf("$%03X", address))
		}
		if _, err := fmt.Fprintf(w.writer, "Stack = %s\n", strings.Join(stack, ", ")); err != nil {
			return fmt.Errorf("writing stack: %w", err)
		}
	}

	var keys []string
	for code, pressed := range snapshot.Keys {
		if pressed {
			keys = append(keys, fmt.Sprintf("%X", code))
		}
	}
	if len(keys) > 0 {
		if _, err := fmt.Fprintf(w.writer, "Keys = %s\n", strings.Join(keys, ", ")); err != nil {
			return fmt.Errorf("writing keys: %w", err)
		}
	}
	if snapshot.Wait.Waiting {
		if _, err := fmt.Fprintf(w.writer, "Waiting for key into V%X\n", snapshot.Wait.Register); err != nil {
			return fmt.Errorf("writing key wait: %w", err)
		}
	}

	return w.bundleBytes("R", snapshot.Flags[:])
}

// WriteFramebuffer writes one line per pixel row.
func (w Writer) WriteFramebuffer(rows [][]bool) error {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}

	var border string
	if w.options.Border {
		border = "+" + strings.Repeat("-", width) + "+"
		if _, err := fmt.Fprintln(w.writer, border); err != nil {
			return fmt.Errorf("writing border: %w", err)
		}
	}

	buf := make([]byte, 0, width+2)
	for _, row := range rows {
		buf = buf[:0]
		if w.options.Border {
			buf = append(buf, '|')
		}
		for _, lit := range row {
			if lit {
				buf = append(buf, w.options.PixelOn)
			} else {
				buf = append(buf, w.options.PixelOff)
			}
		}
		if w.options.Border {
			buf = append(buf, '|')
		}
		buf = append(buf, '\n')

		if _, err := w.writer.Write(buf); err != nil {
			return fmt.Errorf("writing framebuffer row: %w", err)
		}
	}

	if w.options.Border {
		if _, err := fmt.Fprintln(w.writer, border); err != nil {
			return fmt.Errorf("writing border: %w", err)
		}
	}
	return nil
}

// bundleBytes writes bytesPerLine indexed bytes per line, prefixed by the
// name and the index of the first byte.
func (w Writer) bundleBytes(prefix string, data []byte) error {
	for i := 0; i < len(data); i += bytesPerLine {
		end := min(i+bytesPerLine, len(data))

		buf := &strings.Builder{}
		fmt.Fprintf(buf, "%s%X-%s%X =", prefix, i, prefix, end-1)
		for _, b := range data[i:end] {
			fmt.Fprintf(buf, " $%02X", b)
		}

		if _, err := fmt.Fprintln(w.writer, buf.String()); err != nil {
			return fmt.Errorf("writing %s values: %w", prefix, err)
		}
	}
	return nil
}
