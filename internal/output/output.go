// Package output writes the rendered JSON document to its destination.
package output

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
)

const defaultPerm os.FileMode = 0o644

// Sink is either a file path or a stream. With a path set, the file is
// replaced atomically so a failed run never leaves a truncated file behind.
type Sink struct {
	Path   string
	Stream io.Writer

	// Newline appends "\n" when writing to Stream.
	Newline bool
}

// Write delivers data and returns the number of bytes written.
func (s Sink) Write(data []byte) (int64, error) {
	if s.Path != "" {
		return WriteFile(s.Path, data, defaultPerm)
	}

	w := s.Stream
	if w == nil {
		w = os.Stdout
	}
	bw := bufio.NewWriter(w)
	n, err := bw.Write(data)
	if err == nil && s.Newline && !bytes.HasSuffix(data, []byte("\n")) {
		var m int
		m, err = bw.WriteString("\n")
		n += m
	}
	if err != nil {
		return int64(n), err
	}
	return int64(n), bw.Flush()
}

// Describe names the destination for log lines.
func (s Sink) Describe() string {
	if s.Path != "" {
		return s.Path
	}
	return "<stdout>"
}

// WriteFile writes data to a temp file beside path, syncs it and renames it
// into place.
func WriteFile(path string, data []byte, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".csv2json-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, perm)

	n, err := tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return int64(n), err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return int64(n), err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return int64(n), err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return int64(n), err
	}
	return int64(n), nil
}
