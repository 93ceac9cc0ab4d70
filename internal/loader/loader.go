// Package loader reads a ROM image from disk, transparently
// decompressing .zip/.7z/.gz archives, and writes a composed frame out
// as a golden-reference BMP.
package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// LoadROM reads path and returns the ROM image it contains. A .zip,
// .7z, or .gz archive has its first entry extracted and returned
// instead of the archive bytes themselves; any other extension is
// returned as-is.
func LoadROM(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".gz":
		return decompressGzip(data)
	case ".zip":
		return decompressZip(data)
	case ".7z":
		return decompress7z(path, data)
	default:
		return data, nil
	}
}

func decompressGzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loader: gzip: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: gzip: %w", err)
	}
	return out, nil
}

func decompressZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: zip: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("loader: zip: archive is empty")
	}
	entry, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("loader: zip: %w", err)
	}
	defer entry.Close()
	out, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("loader: zip: %w", err)
	}
	return out, nil
}

// decompress7z wraps the already-read bytes in a bytes.Reader, which
// supplies the ReaderAt and total size sevenzip.NewReader wants; path is
// used only to name the archive in the empty-archive error.
func decompress7z(path string, data []byte) ([]byte, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: 7z: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("loader: 7z: archive %s is empty", path)
	}
	entry, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("loader: 7z: %w", err)
	}
	defer entry.Close()
	out, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("loader: 7z: %w", err)
	}
	return out, nil
}
