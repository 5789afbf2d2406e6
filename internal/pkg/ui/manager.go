// Package ui provides terminal output and prompts for guito.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	ShowMessage(message string)
	ShowOutput(output string)
	ShowSection(title string, lines []string)
	ShowInfo(message string)
	ShowWarning(message string)
	ShowSuccess(message string)
	ShowError(err error)
	ShowSpinner(text string) Spinner
	PromptConfirm(message string) (bool, error)
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns a DefaultManager on a terminal and a NonInteractiveManager
// otherwise, both writing to out and errOut.
func New(colorEnabled bool, out, errOut io.Writer) Manager {
	if IsInteractive() {
		return NewDefaultManagerWithOutput(colorEnabled, out, errOut)
	}
	return NewNonInteractiveManagerWithOutput(colorEnabled, out, errOut)
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	message    lipgloss.Style
	output     lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
	border     lipgloss.Style
}

func newStyles(colorEnabled, bordered bool) *styles {
	if !colorEnabled {
		s := &styles{
			title:      lipgloss.NewStyle(),
			message:    lipgloss.NewStyle(),
			output:     lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			warning:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
			border:     lipgloss.NewStyle(),
		}
		return s
	}

	s := &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		message: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		border: lipgloss.NewStyle(),
	}
	if bordered {
		s.border = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	}
	return s
}

// printer holds the output logic shared by both managers.
type printer struct {
	out    io.Writer
	errOut io.Writer
	styles *styles
}

// ShowMessage displays a commit message.
func (p *printer) ShowMessage(message string) {
	fmt.Fprintln(p.out, p.styles.border.Render(p.styles.message.Render(message)))
}

// ShowOutput prints git output, skipping it when blank.
func (p *printer) ShowOutput(output string) {
	output = strings.TrimRight(output, "\n")
	if strings.TrimSpace(output) == "" {
		return
	}
	fmt.Fprintln(p.out, p.styles.output.Render(output))
}

// ShowSection prints a titled, indented block.
func (p *printer) ShowSection(title string, lines []string) {
	if title != "" {
		fmt.Fprintln(p.out, p.styles.title.Render(title))
	}
	for _, line := range lines {
		fmt.Fprintln(p.out, "  "+line)
	}
}

// ShowInfo displays an informational line.
func (p *printer) ShowInfo(message string) {
	fmt.Fprintln(p.out, p.styles.info.Render(message))
}

// ShowWarning displays a warning on the error stream.
func (p *printer) ShowWarning(message string) {
	fmt.Fprintln(p.errOut, p.styles.warning.Render("Warning: "+message))
}

// ShowSuccess displays a success message to the user.
func (p *printer) ShowSuccess(message string) {
	fmt.Fprintln(p.out, p.styles.success.Render("[OK] "+message))
}

// ShowError displays an error, with its context chain in verbose mode.
func (p *printer) ShowError(err error) {
	if err == nil {
		return
	}
	text := apperrors.FormatError(err)
	if apperrors.IsVerbose() {
		text = apperrors.FormatErrorVerbose(err)
	}
	fmt.Fprintln(p.errOut, p.styles.errorStyle.Render(strings.TrimRight(text, "\n")))
}

// DefaultManager renders with lipgloss and prompts through Bubble Tea.
type DefaultManager struct {
	printer
	colorEnabled bool
}

// NewDefaultManager creates a DefaultManager writing to stdout and stderr.
func NewDefaultManager(colorEnabled bool) *DefaultManager {
	return NewDefaultManagerWithOutput(colorEnabled, os.Stdout, os.Stderr)
}

// NewDefaultManagerWithOutput creates a DefaultManager with explicit writers.
func NewDefaultManagerWithOutput(colorEnabled bool, out, errOut io.Writer) *DefaultManager {
	return &DefaultManager{
		printer: printer{
			out:    out,
			errOut: errOut,
			styles: newStyles(colorEnabled, true),
		},
		colorEnabled: colorEnabled,
	}
}

// ShowSpinner creates a spinner drawn on stderr.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text, m.errOut)
}

// PromptConfirm prompts the user for a yes/no confirmation using Bubble Tea.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message, m.colorEnabled), tea.WithOutput(m.errOut))

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	return finalModel.(confirmModel).confirmed, nil
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
	color     bool
}

func newConfirmModel(message string, color bool) confirmModel {
	return confirmModel{
		message: message,
		cursor:  1, // destructive prompts default to No
		color:   color,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "n", "N", "esc":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "tab":
			m.cursor = 1 - m.cursor
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle()
	selectedStyle := lipgloss.NewStyle().Underline(true)
	normalStyle := lipgloss.NewStyle()
	if m.color {
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("220"))
		selectedStyle = selectedStyle.Bold(true).Foreground(lipgloss.Color("42"))
		normalStyle = normalStyle.Foreground(lipgloss.Color("245"))
	}

	yesStyle, noStyle := normalStyle, normalStyle
	if m.cursor == 0 {
		yesStyle = selectedStyle
	} else {
		noStyle = selectedStyle
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")
	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))
	return sb.String()
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	text    string
	out     io.Writer
	program *tea.Program
	model   *spinnerModel
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for simple spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerTextMsg is sent to update spinner text from outside.
type spinnerTextMsg struct {
	text string
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTextMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string, out io.Writer) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &bubbleSpinner{
		text: text,
		out:  out,
		model: &spinnerModel{
			spinner: s,
			text:    text,
		},
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}
	s.program = tea.NewProgram(s.model, tea.WithOutput(s.out), tea.WithInput(nil))
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.program, s.done)
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	select {
	case <-s.done:
	case <-time.After(200 * time.Millisecond):
		s.program.Kill()
	}
	s.program = nil
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	if s.program != nil {
		s.program.Send(spinnerTextMsg{text: text})
	}
}

// NonInteractiveManager prints plain output and never prompts. It is used
// when guito is piped or run from scripts.
type NonInteractiveManager struct {
	printer
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return NewNonInteractiveManagerWithOutput(colorEnabled, os.Stdout, os.Stderr)
}

// NewNonInteractiveManagerWithOutput creates a NonInteractiveManager with explicit writers.
func NewNonInteractiveManagerWithOutput(colorEnabled bool, out, errOut io.Writer) *NonInteractiveManager {
	return &NonInteractiveManager{
		printer: printer{
			out:    out,
			errOut: errOut,
			styles: newStyles(colorEnabled, false),
		},
	}
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return noopSpinner{}
}

// PromptConfirm always returns true in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(message string) (bool, error) {
	return true, nil
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (noopSpinner) Start()            {}
func (noopSpinner) Stop()             {}
func (noopSpinner) UpdateText(string) {}
