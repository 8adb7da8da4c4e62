package converter

import (
	"errors"
	"fmt"

	"github.com/nconklindev/csv2json/internal/types"
)

// Sentinels for errors.Is. Every typed error below matches exactly one of them.
var (
	ErrHeader        = errors.New("header")
	ErrRecord        = errors.New("record")
	ErrIO            = errors.New("io")
	ErrSerialize     = errors.New("serialize")
	ErrInvalidWindow = types.ErrInvalidWindow

	// ErrEmptyInput is the cause inside a HeaderError when the input holds no
	// records at all.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidText is the cause when a cell is not valid UTF-8.
	ErrInvalidText = errors.New("invalid UTF-8")
)

// HeaderError means the field names could not be established: the input was
// empty or its first record could not be decoded.
type HeaderError struct {
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("reading header: %v", e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

func (e *HeaderError) Is(target error) bool { return target == ErrHeader }

// RecordError is a fatal failure on one data record. Index counts records
// after the offset was applied, starting at 0. Line is the 1-based input line
// (or spreadsheet row) when the reader knows it, 0 otherwise.
type RecordError struct {
	Index int
	Line  int
	Err   error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d (line %d): %v", e.Index, e.Line, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func (e *RecordError) Is(target error) bool { return target == ErrRecord }

// IOError wraps failures opening, reading or writing a stream.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// SerializeError means the result set could not be rendered as JSON.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("encoding json: %v", e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

func (e *SerializeError) Is(target error) bool { return target == ErrSerialize }

// ShapeError is reported (inside a RecordError) when a record's cell count
// differs from the header width.
type ShapeError struct {
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("record has %d fields, header has %d", e.Got, e.Want)
}
