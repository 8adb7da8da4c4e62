// Package cli wires the command line onto the converter.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nconklindev/csv2json/internal/config"
	"github.com/nconklindev/csv2json/internal/converter"
	"github.com/nconklindev/csv2json/internal/logging"
	"github.com/nconklindev/csv2json/internal/output"
	"github.com/nconklindev/csv2json/internal/types"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Streams are the process handles the commands use.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// usageError marks bad invocations so they map to ExitUsage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute runs the CLI against the real process and returns the exit code.
func Execute(info BuildInfo) int {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Getenv: os.Getenv}

	if err := config.LoadDotEnv(".env"); err != nil {
		printError(streams.Stderr, err)
		return ExitUsage
	}
	return Run(NewRootCommand(info, streams), streams.Stderr)
}

// Run executes cmd and reports any error on stderr.
func Run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	printError(stderr, err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	return ExitFailure
}

// flagValues collects raw flag values before they become a config.Config.
type flagValues struct {
	inputFile  string
	outputFile string
	pretty     bool
	verbose    bool
	limit      int
	offset     int
	delimiter  string
	format     string
	sheet      string
	lazyQuotes bool
	logFormat  string
}

// NewRootCommand builds the csv2json command tree.
func NewRootCommand(info BuildInfo, streams Streams) *cobra.Command {
	if streams.Getenv == nil {
		streams.Getenv = func(string) string { return "" }
	}
	defaults, envErr := config.LoadDefaults(streams.Getenv)

	var fv flagValues

	cmd := &cobra.Command{
		Use:   "csv2json [-]",
		Short: "Convert CSV records into a JSON array of objects",
		Long: `csv2json reads a header row and the records after it, and writes one JSON
object per record keyed by the header fields. All values stay strings.

Read from a file with -i, or pass "-" to read standard input.`,
		Example: `  csv2json -i people.csv -p
  cat people.csv | csv2json - -s 10 -l 5 -o page.json
  csv2json -i book.xlsx --sheet Data`,
		Version: fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", info.Version, info.Commit, info.Date),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return &usageError{envErr}
			}
			cfg, err := buildConfig(cmd, args, fv)
			if err != nil {
				return &usageError{err}
			}
			logger := logging.Setup(streams.Stderr, cfg.Verbose, cfg.LogFormat)
			return convert(cfg, streams, logger)
		},
	}
	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stdout)
	cmd.SetErr(streams.Stderr)
	cmd.SetVersionTemplate("csv2json {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&fv.inputFile, "input-file", "i", "", "read CSV from this path (conflicts with -)")
	flags.StringVarP(&fv.outputFile, "output-file", "o", "", "write JSON to this path instead of stdout")

	pflags := cmd.PersistentFlags()
	pflags.BoolVarP(&fv.pretty, "pretty", "p", defaults.Pretty, "pretty-print the JSON output")
	pflags.BoolVarP(&fv.verbose, "verbose", "v", false, "log arguments and record counts to stderr")
	pflags.IntVarP(&fv.limit, "limit", "l", 0, "convert at most N records; all when unset")
	pflags.IntVarP(&fv.offset, "offset", "s", 0, "skip the first N records")
	pflags.StringVarP(&fv.delimiter, "delimiter", "d", defaults.Delimiter, `field delimiter, a single character or \t`)
	pflags.StringVar(&fv.format, "format", defaults.Format, "input format: auto, csv or xlsx")
	pflags.StringVar(&fv.sheet, "sheet", "", "XLSX sheet to read (default first sheet)")
	pflags.BoolVar(&fv.lazyQuotes, "lazy-quotes", false, "allow quotes inside unquoted fields")
	pflags.StringVar(&fv.logFormat, "log-format", defaults.LogFormat, "diagnostic log format: text or json")

	cmd.AddCommand(newBrowseCommand(streams, &fv))
	return cmd
}

// buildConfig turns parsed flags and positional args into a validated Config.
func buildConfig(cmd *cobra.Command, args []string, fv flagValues) (config.Config, error) {
	cfg := config.Config{
		InputFile:  fv.inputFile,
		OutputFile: fv.outputFile,
		Pretty:     fv.pretty,
		Verbose:    fv.verbose,
		Sheet:      fv.sheet,
		LazyQuotes: fv.lazyQuotes,
		LogFormat:  fv.logFormat,
	}

	if len(args) == 1 {
		if args[0] != "-" {
			return cfg, fmt.Errorf("unexpected argument %q: use -i to read a file or - for stdin", args[0])
		}
		cfg.Stdin = true
	}

	window, err := windowFromFlags(cmd, fv)
	if err != nil {
		return cfg, err
	}
	cfg.Window = window

	if cfg.Delimiter, err = config.ParseDelimiter(fv.delimiter); err != nil {
		return cfg, err
	}
	if cfg.Format, err = converter.ParseFormat(fv.format); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func windowFromFlags(cmd *cobra.Command, fv flagValues) (types.Window, error) {
	w := types.Window{Offset: fv.offset}
	if cmd.Flags().Changed("limit") {
		if fv.limit < 0 {
			return w, fmt.Errorf("limit must be >= 0, got %d", fv.limit)
		}
		w = types.Page(fv.offset, fv.limit)
	}
	if fv.offset < 0 {
		return w, fmt.Errorf("offset must be >= 0, got %d", fv.offset)
	}
	return w, nil
}

// convert runs one conversion. The output is only touched after the whole
// input converted cleanly.
func convert(cfg config.Config, streams Streams, logger *slog.Logger) error {
	logger.Debug("parsed arguments",
		"input", inputName(cfg),
		"output", output.Sink{Path: cfg.OutputFile}.Describe(),
		"pretty", cfg.Pretty,
		"offset", cfg.Window.Offset,
		"limit", describeLimit(cfg.Window),
		"format", cfg.Format,
		"delimiter", string(cfg.Delimiter),
	)

	var src io.Reader = streams.Stdin
	if cfg.Stdin {
		logger.Debug("reading CSV from stdin")
	} else {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			return &converter.IOError{Op: "open", Path: cfg.InputFile, Err: err}
		}
		defer f.Close()
		src = f
	}

	in, err := converter.Open(src, cfg.ReaderOptions())
	if err != nil {
		return err
	}
	defer in.Close()
	logger.Debug("input opened", "format", in.Format())

	objects, err := converter.TransformWith(in, cfg.Window, converter.TransformOptions{
		OnHeader: func(h *converter.Header) {
			logger.Debug("header read", "fields", h.Names())
		},
	})
	if err != nil {
		return fmt.Errorf("converting %s: %w", inputName(cfg), err)
	}

	data, err := converter.Marshal(objects, cfg.Pretty)
	if err != nil {
		return err
	}

	sink := output.Sink{Path: cfg.OutputFile, Stream: streams.Stdout, Newline: true}
	written, err := sink.Write(data)
	if err != nil {
		return &converter.IOError{Op: "write", Path: cfg.OutputFile, Err: err}
	}

	logger.Debug("conversion complete",
		"records", len(objects),
		"read", humanize.Bytes(uint64(in.BytesRead())),
		"written", humanize.Bytes(uint64(written)),
		"output", sink.Describe(),
	)
	return nil
}

func describeLimit(w types.Window) string {
	if !w.Bounded() {
		return "all"
	}
	return fmt.Sprint(w.Limit)
}

func inputName(cfg config.Config) string {
	if cfg.Stdin {
		return "<stdin>"
	}
	return cfg.InputFile
}
