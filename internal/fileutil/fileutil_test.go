package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")
	data := []byte(`{"graphs": []}`)

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadFile = %q, want %q", got, data)
	}
}

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json.gz")
	data := []byte("line one\nline two\n")

	if err := WriteGzip(path, data); err != nil {
		t.Fatalf("WriteGzip failed: %v", err)
	}

	// The file on disk is compressed...
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile failed: %v", err)
	}
	if bytes.Equal(raw, data) {
		t.Error("WriteGzip wrote uncompressed data")
	}

	// ...but ReadFile sees through it.
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadFile = %q, want %q", got, data)
	}
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sents.txt")
	if err := WriteFile(path, []byte("a b c\r\nd e\n\nf\n")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	want := []string{"a b c", "d e", "", "f"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ReadLines = %q, want %q", lines, want)
	}
}

func TestReadLinesEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := WriteFile(path, nil); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("ReadLines = %q, want none", lines)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/corpus.txt", "corpus"},
		{"corpus.json", "corpus"},
		{"a/b.txt.xz", "b"},
		{"a/b.txt.GZ", "b"},
		{"noext", "noext"},
		{"dir/.hidden", ""},
	}
	for _, tt := range tests {
		if got := BaseName(tt.path); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTrimExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/corpus.txt", "a/b/corpus"},
		{"corpus.json.gz", "corpus"},
		{"corpus", "corpus"},
	}
	for _, tt := range tests {
		if got := TrimExt(tt.path); got != tt.want {
			t.Errorf("TrimExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
