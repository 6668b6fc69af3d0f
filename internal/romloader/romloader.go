// Package romloader loads CHIP-8 program files from disk. Programs can be
// stored raw or inside ZIP, 7z, gzip, tar.gz and RAR archives, the format is
// detected by magic bytes with the file extension as fallback.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/deepchip/internal/memory"
)

// Extensions are the file extensions of CHIP-8 and SUPER-CHIP programs.
var Extensions = []string{".ch8", ".c8", ".sc8", ".schip", ".rom"}

var (
	// ErrNoROMFile is returned when an archive contains no program file.
	ErrNoROMFile = errors.New("no rom file found in archive")
	// ErrUnsupportedFormat is returned for files that are neither an archive nor a program.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned when a program does not fit into the address space.
	ErrFileTooLarge = errors.New("file exceeds maximum rom size")
)

var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21}
)

// Format is a detected container format.
type Format int

// Container formats.
const (
	FormatUnknown Format = iota
	FormatRaw
	FormatZIP
	Format7z
	FormatGzip
	FormatRAR
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatZIP:
		return "zip"
	case Format7z:
		return "7z"
	case FormatGzip:
		return "gzip"
	case FormatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// ROM is a loaded program.
type ROM struct {
	Data   []byte
	Name   string // base name of the program file, inside the archive if packed
	Format Format
}

// entry is a file inside an archive.
type entry struct {
	name   string
	dir    bool
	reader func() (io.ReadCloser, error)
}

// archive iterates over the files of an archive. next returns io.EOF after the last entry.
type archive interface {
	next() (entry, error)
	Close() error
}

// Load reads a program from a file. Archives are searched for the first file
// matching one of the extensions, raw files must match one of them.
func Load(path string, extensions []string) (ROM, error) {
	header, err := readHeader(path)
	if err != nil {
		return ROM{}, err
	}

	format := DetectFormat(header, path, extensions)
	var ar archive

	switch format {
	case FormatRaw:
		return loadRaw(path)
	case FormatZIP:
		ar, err = openZIP(path)
	case Format7z:
		ar, err = open7z(path)
	case FormatGzip:
		return loadGzip(path, extensions)
	case FormatRAR:
		ar, err = openRAR(path)
	default:
		return ROM{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return ROM{}, fmt.Errorf("opening %s archive '%s': %w", format, path, err)
	}
	defer func() {
		_ = ar.Close()
	}()

	rom, err := firstROM(ar, extensions)
	if err != nil {
		return ROM{}, fmt.Errorf("extracting from '%s': %w", path, err)
	}
	rom.Format = format
	return rom, nil
}

// DetectFormat determines the container format from the magic bytes of
// the file header and falls back to the file extension.
func DetectFormat(header []byte, path string, extensions []string) Format {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEmpty):
		return FormatZIP
	case bytes.HasPrefix(header, magicRAR):
		return FormatRAR
	case bytes.HasPrefix(header, magic7z):
		return Format7z
	case bytes.HasPrefix(header, magicGzip):
		return FormatGzip
	}

	lower := strings.ToLower(path)
	switch ext := filepath.Ext(lower); ext {
	case ".zip":
		return FormatZIP
	case ".7z":
		return Format7z
	case ".gz", ".tgz":
		return FormatGzip
	case ".rar":
		return FormatRAR
	}

	if isROMFile(lower, extensions) {
		return FormatRaw
	}
	return FormatUnknown
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	return header[:n], nil
}

func loadRaw(path string) (ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return ROM{}, fmt.Errorf("opening file '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := limitedRead(f)
	if err != nil {
		return ROM{}, fmt.Errorf("reading file '%s': %w", path, err)
	}
	return ROM{Data: data, Name: filepath.Base(path), Format: FormatRaw}, nil
}

// firstROM returns the first regular file of the archive that matches one of the extensions.
func firstROM(ar archive, extensions []string) (ROM, error) {
	for {
		e, err := ar.next()
		if errors.Is(err, io.EOF) {
			return ROM{}, ErrNoROMFile
		}
		if err != nil {
			return ROM{}, fmt.Errorf("reading archive entry: %w", err)
		}
		if e.dir || !isROMFile(e.name, extensions) {
			continue
		}

		data, err := readEntry(e)
		if err != nil {
			return ROM{}, err
		}
		return ROM{Data: data, Name: filepath.Base(e.name)}, nil
	}
}

func readEntry(e entry) ([]byte, error) {
	rc, err := e.reader()
	if err != nil {
		return nil, fmt.Errorf("opening '%s' in archive: %w", e.name, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := limitedRead(rc)
	if err != nil {
		return nil, fmt.Errorf("reading '%s': %w", e.name, err)
	}
	return data, nil
}

// isROMFile checks case-insensitively whether the name has one of the extensions.
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads at most memory.MaxROMSize bytes and fails for larger inputs.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, memory.MaxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > memory.MaxROMSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, memory.MaxROMSize)
	}
	return data, nil
}
