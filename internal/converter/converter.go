package converter

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/csv2json/internal/output"
	"github.com/nconklindev/csv2json/internal/types"
)

// PreviewRows is how many data rows ReadFileData samples.
const PreviewRows = 10

// Options bundles everything a file-to-file conversion needs.
type Options struct {
	Reader ReaderOptions
	Window types.Window
	Pretty bool
}

// DefaultOutputPath swaps the input extension for .json.
func DefaultOutputPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return strings.TrimSuffix(inputFile, ext) + ".json"
}

// ConvertFile converts inputFile into a JSON array written atomically to
// outputFile. Progress (0..1, by bytes consumed) is sent on progressChan
// without blocking; a nil channel disables reporting.
func ConvertFile(inputFile, outputFile string, opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	inFile, err := os.Open(inputFile)
	if err != nil {
		return nil, &IOError{Op: "open", Path: inputFile, Err: err}
	}
	defer inFile.Close()

	var total int64
	if info, err := inFile.Stat(); err == nil {
		total = info.Size()
	}

	ropts := opts.Reader
	ropts.Name = inputFile
	in, err := Open(inFile, ropts)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var header *Header
	objects, err := TransformWith(in, opts.Window, TransformOptions{
		OnHeader: func(h *Header) { header = h },
		OnRecord: func(int) {
			if progressChan == nil || total <= 0 {
				return
			}
			select {
			case progressChan <- float64(in.BytesRead()) / float64(total):
			default:
			}
		},
	})
	if err != nil {
		return nil, err
	}

	data, err := Marshal(objects, opts.Pretty)
	if err != nil {
		return nil, err
	}

	written, err := output.WriteFile(outputFile, data, 0o644)
	if err != nil {
		return nil, &IOError{Op: "write", Path: outputFile, Err: err}
	}

	if progressChan != nil {
		select {
		case progressChan <- 1:
		default:
		}
	}

	return &types.ConversionResult{
		InputFile:     inputFile,
		OutputFile:    outputFile,
		ColumnsFound:  header.Keys(),
		RowsProcessed: len(objects),
		BytesRead:     in.BytesRead(),
		BytesWritten:  written,
	}, nil
}

// ReadFileData reads the header and up to PreviewRows data rows. Reading stops
// quietly at the first malformed row; the full conversion reports it.
func ReadFileData(filePath string, opts ReaderOptions) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filePath, Err: err}
	}
	defer file.Close()

	opts.Name = filePath
	in, err := Open(file, opts)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	headers, err := in.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyInput
		}
		return nil, &HeaderError{Err: err}
	}

	data := &types.FileData{Headers: headers}
	for len(data.Rows) < PreviewRows {
		row, err := in.Read()
		if err != nil {
			break
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}
