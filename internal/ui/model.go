package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nconklindev/csv2json/internal/converter"
	"github.com/nconklindev/csv2json/internal/types"
)

type state int

const (
	stateFilePicker state = iota
	stateOptions
	stateProcessing
	stateComplete
	stateError
)

// previewRows caps the sample rows shown on the options screen.
const previewRows = 3

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	outputFile   string
	fileData     *types.FileData
	opts         converter.Options
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel starts in the file picker rooted at dir. opts are the
// conversion settings taken from the command line.
func InitialModel(dir string, opts converter.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt", ".xlsx"}
	fp.CurrentDirectory = dir

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		opts:       opts,
		progress:   progress.New(progress.WithGradient("#2BB3A3", "#7DD3C0")),
	}
}

// Err is the failure that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle and help.
		height := msg.Height - 12
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateOptions:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "p":
				m.opts.Pretty = !m.opts.Pretty
			case "esc":
				m.state = stateFilePicker
				m.fileData = nil
				return m, nil
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}
			return m, nil

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.outputFile = converter.DefaultOutputPath(m.selectedFile)
		m.state = stateOptions
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	opts := m.opts.Reader
	return func() tea.Msg {
		data, err := converter.ReadFileData(path, opts)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	progressChan := m.progressChan
	resultChan := m.resultChan
	inputFile := m.selectedFile
	outputFile := m.outputFile
	opts := m.opts

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.ConvertFile(inputFile, outputFile, opts, progressChan)
				resultChan <- conversionResultMsg{result: result, err: err}
				close(progressChan)
				close(resultChan)
			}()
			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}
		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateOptions:
		return m.viewOptions()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("csv2json"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX file to convert to JSON"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select • q: quit"))

	return s.String()
}

func (m Model) viewOptions() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Convert " + filepath.Base(m.selectedFile)))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d column(s) • writes %s", len(m.fileData.Headers), filepath.Base(m.outputFile))))
	s.WriteString("\n\n")
	s.WriteString(previewTable(m.fileData, previewRows))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Pretty output: %s\n", checkbox(m.opts.Pretty)))
	s.WriteString(fmt.Sprintf("Window:        %s\n", describeWindow(m.opts.Window)))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("p: toggle pretty • enter: convert • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Converting..."))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(SuccessStyle.Render("✓ Conversion complete"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:   %s (%s)\n", truncatePath(m.result.InputFile, maxPathLen), humanize.Bytes(uint64(m.result.BytesRead))))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:  %s (%s)", truncatePath(m.result.OutputFile, maxPathLen), humanize.Bytes(uint64(m.result.BytesWritten)))))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Fields:  %s\n", strings.Join(m.result.ColumnsFound, ", ")))
	s.WriteString(fmt.Sprintf("Records: %s\n", humanize.Comma(int64(m.result.RowsProcessed))))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press enter to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press enter to exit"))

	return BoxStyle.Render(s.String())
}

// previewTable lays the header and the first rows out in aligned columns.
func previewTable(data *types.FileData, rows int) string {
	if rows > len(data.Rows) {
		rows = len(data.Rows)
	}

	columns := make([]string, 0, len(data.Headers))
	for i, h := range data.Headers {
		cells := []string{HeaderCellStyle.Render(h)}
		for _, row := range data.Rows[:rows] {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells = append(cells, CellStyle.Render(v))
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func describeWindow(w types.Window) string {
	switch {
	case !w.Bounded() && w.Offset == 0:
		return "all records"
	case !w.Bounded():
		return fmt.Sprintf("skip %d, then all", w.Offset)
	default:
		return fmt.Sprintf("skip %d, then at most %d", w.Offset, w.Limit)
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func truncatePath(p string, max int) string {
	if len(p) > max {
		return "..." + p[len(p)-max+3:]
	}
	return p
}
