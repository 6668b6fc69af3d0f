package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/deepchip/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

var testROM = []byte{0x00, 0xE0, 0x12, 0x00}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func zipData(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range files {
		fw, err := w.Create(name)
		assert.NoError(t, err)
		_, err = fw.Write(data)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func gzipData(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func tarData(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	assert.NoError(t, w.WriteHeader(&tar.Header{Name: "docs/", Typeflag: tar.TypeDir, Mode: 0o755}))
	assert.NoError(t, w.WriteHeader(&tar.Header{Name: "readme.txt", Typeflag: tar.TypeReg, Mode: 0o644, Size: 2}))
	_, err := w.Write([]byte("hi"))
	assert.NoError(t, err)
	assert.NoError(t, w.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(data))}))
	_, err = w.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoadRaw(t *testing.T) {
	path := writeFile(t, "pong.ch8", testROM)
	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(testROM, rom.Data))
	assert.Equal(t, "pong.ch8", rom.Name)
	assert.Equal(t, FormatRaw, rom.Format)
}

func TestLoadRawUppercaseExtension(t *testing.T) {
	path := writeFile(t, "PONG.SC8", testROM)
	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.Equal(t, "PONG.SC8", rom.Name)
}

func TestLoadZIP(t *testing.T) {
	data := zipData(t, map[string][]byte{
		"readme.txt":    []byte("not a program"),
		"games/ant.sc8": testROM,
	})
	path := writeFile(t, "bundle.zip", data)

	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(testROM, rom.Data))
	assert.Equal(t, "ant.sc8", rom.Name)
	assert.Equal(t, FormatZIP, rom.Format)
}

func TestLoadZIPWithoutROM(t *testing.T) {
	data := zipData(t, map[string][]byte{"readme.txt": []byte("text")})
	path := writeFile(t, "bundle.zip", data)

	_, err := Load(path, Extensions)
	assert.True(t, errors.Is(err, ErrNoROMFile))
}

func TestLoadZIPByMagic(t *testing.T) {
	data := zipData(t, map[string][]byte{"game.ch8": testROM})
	path := writeFile(t, "download.bin", data)

	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.Equal(t, FormatZIP, rom.Format)
}

func TestLoadGzip(t *testing.T) {
	path := writeFile(t, "game.ch8.gz", gzipData(t, testROM))
	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(testROM, rom.Data))
	assert.Equal(t, "game.ch8", rom.Name)
	assert.Equal(t, FormatGzip, rom.Format)
}

func TestLoadTarGz(t *testing.T) {
	data := gzipData(t, tarData(t, "roms/blinky.ch8", testROM))
	path := writeFile(t, "collection.tar.gz", data)

	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(testROM, rom.Data))
	assert.Equal(t, "blinky.ch8", rom.Name)
}

func TestLoadTooLarge(t *testing.T) {
	path := writeFile(t, "huge.ch8", make([]byte, memory.MaxROMSize+1))
	_, err := Load(path, Extensions)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	path = writeFile(t, "huge.ch8.gz", gzipData(t, make([]byte, memory.MaxROMSize+1)))
	_, err = Load(path, Extensions)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	path = writeFile(t, "max.ch8", make([]byte, memory.MaxROMSize))
	rom, err := Load(path, Extensions)
	assert.NoError(t, err)
	assert.Len(t, rom.Data, memory.MaxROMSize)
}

func TestLoadUnsupported(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello"))
	_, err := Load(path, Extensions)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ch8"), Extensions)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadInvalidArchives(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"fake.7z", []byte("not a 7z archive")},
		{"fake.rar", []byte("not a rar archive")},
		{"partial.rar", []byte{0x52, 0x61}},
		{"empty.zip", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.name, tt.data)
			_, err := Load(path, Extensions)
			assert.Error(t, err)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		header   []byte
		path     string
		expected Format
	}{
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "file.bin", FormatZIP},
		{"empty zip magic", []byte{0x50, 0x4B, 0x05, 0x06}, "file.bin", FormatZIP},
		{"7z magic", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "file.bin", Format7z},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08}, "file.bin", FormatGzip},
		{"rar magic", []byte("Rar!\x1a\x07"), "file.bin", FormatRAR},
		{"zip extension", nil, "file.ZIP", FormatZIP},
		{"7z extension", nil, "file.7z", Format7z},
		{"tgz extension", nil, "file.tgz", FormatGzip},
		{"tar.gz extension", nil, "file.tar.gz", FormatGzip},
		{"rar extension", nil, "file.rar", FormatRAR},
		{"rom extension", []byte{0x00, 0xE0}, "file.ch8", FormatRaw},
		{"schip extension", []byte{0x00, 0xFF}, "file.schip", FormatRaw},
		{"unknown", []byte{0x00, 0xE0}, "file.txt", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.header, tt.path, Extensions))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "7z", Format7z.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
