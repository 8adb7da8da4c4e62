package types

import "errors"

var ErrInvalidWindow = errors.New("invalid window")

// Window restricts which data records are converted: Offset leading records are
// discarded, then at most Limit records are collected. Limit only applies when
// HasLimit is set, so the zero Window keeps every record.
type Window struct {
	Offset   int
	Limit    int
	HasLimit bool
}

// All returns the window that keeps every record.
func All() Window {
	return Window{}
}

// Page skips offset records and keeps at most limit of the rest.
func Page(offset, limit int) Window {
	return Window{Offset: offset, Limit: limit, HasLimit: true}
}

func (w Window) Validate() error {
	if w.Offset < 0 || w.Limit < 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Bounded reports whether the window caps the number of collected records.
func (w Window) Bounded() bool {
	return w.HasLimit
}

type ConversionResult struct {
	InputFile     string
	OutputFile    string
	ColumnsFound  []string
	RowsProcessed int
	BytesRead     int64
	BytesWritten  int64
}

type FileData struct {
	Headers []string
	Rows    [][]string
}
