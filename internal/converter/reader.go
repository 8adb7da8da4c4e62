package converter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/transform"
)

// Format selects the record decoder.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "", "auto", "csv" and "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported input format: %q", s)
	}
}

// Resolve picks a concrete format, using the file extension for FormatAuto.
func (f Format) Resolve(name string) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ReaderOptions configures Open.
type ReaderOptions struct {
	Format Format

	// Name is the input path, used for FormatAuto. Empty for stdin.
	Name string

	Delimiter  rune
	LazyQuotes bool

	// Sheet is the XLSX sheet to read; the first sheet when empty.
	Sheet string
}

// Input is an opened record source. Close releases decoder resources; the
// underlying io.Reader stays owned by the caller.
type Input struct {
	records RecordReader
	counter *countingReader
	close   func() error
	format  Format
}

// Open wraps r in the decoder selected by opts.
func Open(r io.Reader, opts ReaderOptions) (*Input, error) {
	counter := &countingReader{reader: r}
	in := &Input{counter: counter, close: func() error { return nil }}

	switch in.format = opts.Format.Resolve(opts.Name); in.format {
	case FormatXLSX:
		xr, err := newXLSXReader(counter, opts.Sheet)
		if err != nil {
			return nil, err
		}
		in.records = xr
		in.close = xr.Close
	default:
		in.records = newCSVReader(counter, opts)
	}
	return in, nil
}

// Read implements RecordReader.
func (in *Input) Read() ([]string, error) {
	return in.records.Read()
}

// FieldPos reports where the most recent record started, when the decoder tracks it.
func (in *Input) FieldPos(field int) (line, column int) {
	if p, ok := in.records.(interface {
		FieldPos(int) (int, int)
	}); ok {
		return p.FieldPos(field)
	}
	return 0, 0
}

func (in *Input) Format() Format { return in.format }

// BytesRead is the number of raw input bytes consumed so far.
func (in *Input) BytesRead() int64 {
	return in.counter.n
}

func (in *Input) Close() error {
	return in.close()
}

func newCSVReader(r io.Reader, opts ReaderOptions) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, &bomStripper{}))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = opts.LazyQuotes
	cr.FieldsPerRecord = 0
	return cr
}

var utf8BOM = []byte("\xef\xbb\xbf")

// bomStripper drops a leading UTF-8 byte order mark and passes every other
// byte through untouched. Invalid UTF-8 is left for Transform to reject.
type bomStripper struct {
	checked bool
}

func (b *bomStripper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !b.checked {
		if len(src) < len(utf8BOM) && !atEOF && bytes.HasPrefix(utf8BOM, src) {
			return 0, 0, transform.ErrShortSrc
		}
		b.checked = true
		if bytes.HasPrefix(src, utf8BOM) {
			nSrc = len(utf8BOM)
		}
	}
	n := copy(dst, src[nSrc:])
	if n < len(src)-nSrc {
		err = transform.ErrShortDst
	}
	return n, nSrc + n, err
}

func (b *bomStripper) Reset() { b.checked = false }

// xlsxReader streams rows from one sheet. Spreadsheet rows omit trailing blank
// cells, so short rows are padded back to the header width.
type xlsxReader struct {
	file  *excelize.File
	rows  *excelize.Rows
	width int
	row   int
	start int
}

func newXLSXReader(r io.Reader, sheet string) (*xlsxReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &HeaderError{Err: fmt.Errorf("opening workbook: %w", err)}
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, &HeaderError{Err: fmt.Errorf("sheet %q not found", sheet)}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, &HeaderError{Err: err}
	}
	return &xlsxReader{file: f, rows: rows, width: -1}, nil
}

func (x *xlsxReader) Read() ([]string, error) {
	for x.rows.Next() {
		x.row++
		cols, err := x.rows.Columns()
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			continue
		}
		x.start = x.row
		if x.width < 0 {
			x.width = len(cols)
			return cols, nil
		}
		for len(cols) < x.width {
			cols = append(cols, "")
		}
		return cols, nil
	}
	if err := x.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (x *xlsxReader) FieldPos(int) (line, column int) {
	return x.start, 1
}

func (x *xlsxReader) Close() error {
	if err := x.rows.Close(); err != nil {
		x.file.Close()
		return err
	}
	return x.file.Close()
}

// countingReader tracks bytes read for progress reporting.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}
