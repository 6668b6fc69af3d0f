package romloader

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

type zipArchive struct {
	r     *zip.ReadCloser
	index int
}

func openZIP(path string) (archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &zipArchive{r: r}, nil
}

func (a *zipArchive) next() (entry, error) {
	if a.index >= len(a.r.File) {
		return entry{}, io.EOF
	}
	f := a.r.File[a.index]
	a.index++
	return entry{name: f.Name, dir: f.FileInfo().IsDir(), reader: f.Open}, nil
}

func (a *zipArchive) Close() error {
	return a.r.Close()
}

type sevenZipArchive struct {
	r     *sevenzip.ReadCloser
	index int
}

func open7z(path string) (archive, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &sevenZipArchive{r: r}, nil
}

func (a *sevenZipArchive) next() (entry, error) {
	if a.index >= len(a.r.File) {
		return entry{}, io.EOF
	}
	f := a.r.File[a.index]
	a.index++
	return entry{name: f.Name, dir: f.FileInfo().IsDir(), reader: f.Open}, nil
}

func (a *sevenZipArchive) Close() error {
	return a.r.Close()
}

// rarArchive streams the entries, the reader of an entry is only valid
// until next is called again.
type rarArchive struct {
	r *rardecode.ReadCloser
}

func openRAR(path string) (archive, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &rarArchive{r: r}, nil
}

func (a *rarArchive) next() (entry, error) {
	header, err := a.r.Next()
	if err != nil {
		return entry{}, err
	}
	reader := func() (io.ReadCloser, error) {
		return io.NopCloser(a.r), nil
	}
	return entry{name: header.Name, dir: header.IsDir, reader: reader}, nil
}

func (a *rarArchive) Close() error {
	return a.r.Close()
}

// tarArchive streams the regular files of a tar archive.
type tarArchive struct {
	r *tar.Reader
}

func (a *tarArchive) next() (entry, error) {
	header, err := a.r.Next()
	if err != nil {
		return entry{}, err
	}
	reader := func() (io.ReadCloser, error) {
		return io.NopCloser(a.r), nil
	}
	return entry{name: header.Name, dir: header.Typeflag != tar.TypeReg, reader: reader}, nil
}

func (a *tarArchive) Close() error {
	return nil
}

// loadGzip reads a gzip compressed program or the first program of a gzip
// compressed tar archive.
func loadGzip(path string, extensions []string) (ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return ROM{}, fmt.Errorf("opening file '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return ROM{}, fmt.Errorf("opening gzip stream '%s': %w", path, err)
	}
	defer func() {
		_ = gr.Close()
	}()

	name := filepath.Base(path)
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		rom, err := firstROM(&tarArchive{r: tar.NewReader(gr)}, extensions)
		if err != nil {
			return ROM{}, fmt.Errorf("extracting from '%s': %w", path, err)
		}
		rom.Format = FormatGzip
		return rom, nil
	}

	data, err := limitedRead(gr)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return ROM{}, err
		}
		return ROM{}, fmt.Errorf("decompressing '%s': %w", path, err)
	}
	return ROM{Data: data, Name: strings.TrimSuffix(name, filepath.Ext(name)), Format: FormatGzip}, nil
}
