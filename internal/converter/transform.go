package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/nconklindev/csv2json/internal/types"
)

// RecordReader yields one record per call and io.EOF when the input is done.
// *csv.Reader satisfies it. Implementations must return a fresh slice on
// every call since Objects keep a reference to it.
type RecordReader interface {
	Read() ([]string, error)
}

// TransformOptions carries optional hooks for Transform.
type TransformOptions struct {
	// OnHeader is called once the header has been read.
	OnHeader func(h *Header)
	// OnRecord is called after each collected record with the running count.
	OnRecord func(n int)
}

// Transform reads the header, skips w.Offset records, then turns at most
// w.Limit records into Objects.
//
// Skipped records are not validated, though an I/O failure while skipping is
// still returned as an *IOError. Any failure on a collected record stops
// the run and no partial result is returned.
func Transform(r RecordReader, w types.Window) ([]Object, error) {
	return TransformWith(r, w, TransformOptions{})
}

// TransformWith is Transform with observer hooks.
func TransformWith(r RecordReader, w types.Window, opts TransformOptions) ([]Object, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	names, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyInput
		}
		return nil, &HeaderError{Err: err}
	}
	if err := validText(names); err != nil {
		return nil, &HeaderError{Err: err}
	}
	header := NewHeader(names)
	if opts.OnHeader != nil {
		opts.OnHeader(header)
	}

	for skipped := 0; skipped < w.Offset; skipped++ {
		_, err := r.Read()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return []Object{}, nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		return nil, &IOError{Op: "read", Err: err}
	}

	objects := []Object{}
	for i := 0; !w.Bounded() || i < w.Limit; i++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RecordError{Index: i, Line: lineOf(err), Err: err}
		}
		if len(cells) != header.Width() {
			return nil, &RecordError{
				Index: i,
				Line:  lineOfReader(r),
				Err:   &ShapeError{Want: header.Width(), Got: len(cells)},
			}
		}
		if err := validText(cells); err != nil {
			return nil, &RecordError{Index: i, Line: lineOfReader(r), Err: err}
		}
		objects = append(objects, newObject(header, cells))
		if opts.OnRecord != nil {
			opts.OnRecord(len(objects))
		}
	}

	return objects, nil
}

// validText rejects cells that are not valid UTF-8. Bytes are never replaced,
// so accepted text round-trips exactly.
func validText(cells []string) error {
	for i, c := range cells {
		if !utf8.ValidString(c) {
			return fmt.Errorf("field %d: %w", i, ErrInvalidText)
		}
	}
	return nil
}

func lineOf(err error) int {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return perr.Line
	}
	return 0
}

// lineOfReader asks the reader where the last record started, if it can tell.
func lineOfReader(r RecordReader) int {
	type positioner interface {
		FieldPos(field int) (line, column int)
	}
	if p, ok := r.(positioner); ok {
		line, _ := p.FieldPos(0)
		return line
	}
	return 0
}
