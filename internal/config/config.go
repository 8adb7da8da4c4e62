// Package config holds the immutable run configuration assembled once at
// startup from command-line flags and environment defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nconklindev/csv2json/internal/converter"
	"github.com/nconklindev/csv2json/internal/types"
)

// Config is built once per process and passed by value.
type Config struct {
	// InputFile is the CSV/XLSX path; empty when Stdin is set.
	InputFile string
	Stdin     bool

	// OutputFile is the JSON destination; empty means standard output.
	OutputFile string

	Pretty  bool
	Verbose bool
	Window  types.Window

	Format     converter.Format
	Delimiter  rune
	Sheet      string
	LazyQuotes bool

	LogFormat string
}

// Validate checks the invariants the converter relies on.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.InputFile != "" && c.Stdin:
		errs = append(errs, errors.New("--input-file and stdin input are mutually exclusive"))
	case c.InputFile == "" && !c.Stdin:
		errs = append(errs, errors.New("either --input-file or - (stdin) is required"))
	}

	if c.Window.Offset < 0 {
		errs = append(errs, fmt.Errorf("offset must be >= 0, got %d", c.Window.Offset))
	}
	if c.Window.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit must be >= 0, got %d", c.Window.Limit))
	}

	if _, err := converter.ParseFormat(string(c.Format)); err != nil {
		errs = append(errs, err)
	}
	if err := validDelimiter(c.Delimiter); err != nil {
		errs = append(errs, err)
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// ReaderOptions maps the config onto the record reader settings.
func (c Config) ReaderOptions() converter.ReaderOptions {
	return converter.ReaderOptions{
		Format:     c.Format,
		Name:       c.InputFile,
		Delimiter:  c.Delimiter,
		LazyQuotes: c.LazyQuotes,
		Sheet:      c.Sheet,
	}
}

// ParseDelimiter accepts a single character, or the escapes "\t" and "tab".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if err := validDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

func validDelimiter(r rune) error {
	if r == 0 {
		return nil
	}
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || !utf8.ValidRune(r) {
		return fmt.Errorf("invalid delimiter %q", r)
	}
	return nil
}
