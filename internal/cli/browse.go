package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nconklindev/csv2json/internal/config"
	"github.com/nconklindev/csv2json/internal/converter"
	"github.com/nconklindev/csv2json/internal/ui"
)

func newBrowseCommand(streams Streams, fv *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [dir]",
		Short: "Pick a CSV or XLSX file interactively and convert it",
		Long: `browse opens a file picker in the terminal. After a file is chosen its
columns are previewed, and enter writes <name>.json next to the input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				dir = args[0]
			}

			opts, err := browseOptions(cmd, *fv)
			if err != nil {
				return &usageError{err}
			}

			p := tea.NewProgram(ui.InitialModel(dir, opts),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithInput(streams.Stdin),
				tea.WithOutput(streams.Stdout),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("interactive session: %w", err)
			}
			if m, ok := final.(ui.Model); ok && m.Err() != nil {
				return m.Err()
			}
			return nil
		},
	}
}

func browseOptions(cmd *cobra.Command, fv flagValues) (converter.Options, error) {
	window, err := windowFromFlags(cmd, fv)
	if err != nil {
		return converter.Options{}, err
	}
	delim, err := config.ParseDelimiter(fv.delimiter)
	if err != nil {
		return converter.Options{}, err
	}
	format, err := converter.ParseFormat(fv.format)
	if err != nil {
		return converter.Options{}, err
	}
	return converter.Options{
		Reader: converter.ReaderOptions{
			Format:     format,
			Delimiter:  delim,
			LazyQuotes: fv.lazyQuotes,
			Sheet:      fv.sheet,
		},
		Window: window,
		Pretty: fv.pretty,
	}, nil
}
