// Package fileutil provides file helpers shared by the CLI and session
// layers, including transparent decompression of .gz and .xz inputs.
package fileutil

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ReadFile reads the named file. Files ending in .gz or .xz are
// decompressed transparently.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		r = xr
	}
	return io.ReadAll(r)
}

// WriteFile writes data to the named file, creating parent directories
// as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLines reads the named file (decompressing if needed) and returns
// its lines without trailing newlines.
func ReadLines(path string) ([]string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := strings.TrimRight(string(data), "\n")
	if s == "" {
		return nil, nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines, nil
}

// BaseName returns the file name without its directory and extension,
// peeling a compression suffix first ("a/b.txt.xz" yields "b").
func BaseName(path string) string {
	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".gz", ".xz":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TrimExt returns path with its extension removed, treating a
// compression suffix as part of the extension.
func TrimExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".xz":
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// WriteGzip writes data to the named file gzip-compressed. Used by tests
// and batch exports; ReadFile reads it back transparently.
func WriteGzip(path string, data []byte) error {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return WriteFile(path, buf.Bytes())
}
