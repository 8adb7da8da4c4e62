package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// printError renders the failure on w. Colors are dropped automatically when
// w is not a terminal.
func printError(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().
		Foreground(lipgloss.Color("#FF4757")).
		Bold(true).
		Render("Error:")
	fmt.Fprintf(w, "%s %v\n", label, err)
}
