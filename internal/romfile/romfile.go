// Package romfile reads cartridge images from disk, unpacking gzip, zip and
// 7z archives on the way.
package romfile

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrEmptyArchive is returned for an archive without file entries.
var ErrEmptyArchive = errors.New("archive has no files")

var romExts = []string{".gb", ".gbc", ".bin"}

func isROMName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range romExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Load returns the ROM image stored at path. The archive type is chosen by
// extension; anything unknown is returned as read.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return gunzip(data)
	case ".zip":
		return unzip(data)
	case ".7z":
		return un7z(data)
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// entry is the common view of a zip or 7z member.
type entry struct {
	name string
	dir  bool
	open func() (io.ReadCloser, error)
}

// pick returns the first ROM-named entry, or the first file when none has a
// ROM extension.
func pick(entries []entry) (entry, error) {
	var first *entry
	for i := range entries {
		e := &entries[i]
		if e.dir {
			continue
		}
		if isROMName(e.name) {
			return *e, nil
		}
		if first == nil {
			first = e
		}
	}
	if first == nil {
		return entry{}, ErrEmptyArchive
	}
	return *first, nil
}

func readEntry(e entry) ([]byte, error) {
	rc, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", e.name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func unzip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	entries := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		entries = append(entries, entry{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open})
	}
	e, err := pick(entries)
	if err != nil {
		return nil, err
	}
	return readEntry(e)
}

func un7z(data []byte) ([]byte, error) {
	zr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("7z: %w", err)
	}
	entries := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		entries = append(entries, entry{name: f.Name, dir: f.FileInfo().IsDir(), open: f.Open})
	}
	e, err := pick(entries)
	if err != nil {
		return nil, err
	}
	return readEntry(e)
}
