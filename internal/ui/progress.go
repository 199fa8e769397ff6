package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Progress creates indicators for long-running steps.
type Progress interface {
	Spinner(title string) Spinner
}

// Spinner is an indeterminate indicator that ends with a success or
// failure line.
type Spinner interface {
	SetTitle(title string)
	Success(msg string)
	Fail(msg string)
}

var (
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✔")
	failMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✖")
	accent      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// progressImpl implements Progress.
type progressImpl struct {
	writer   io.Writer
	headless bool
}

// NewProgress returns a Progress writing to w. Without a terminal on w it
// falls back to plain log lines.
func NewProgress(w io.Writer) Progress {
	return &progressImpl{writer: w, headless: !isTerminal(w)}
}

// NewHeadlessProgress returns a Progress that only writes plain lines.
func NewHeadlessProgress(w io.Writer) Progress {
	return &progressImpl{writer: w, headless: true}
}

// Discard returns a Progress that writes nothing.
func Discard() Progress {
	return NewHeadlessProgress(io.Discard)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Spinner starts an indicator titled title.
func (p *progressImpl) Spinner(title string) Spinner {
	if p.headless {
		return newHeadlessSpinner(title, p.writer)
	}
	return newInteractiveSpinner(title, p.writer)
}

// --- interactiveSpinner ---

// spinnerTitleMsg is sent to update the spinner title.
type spinnerTitleMsg string

// spinnerStopMsg is sent to stop the spinner.
type spinnerStopMsg struct{}

// spinnerModel is the bubbletea Model for the animated spinner.
type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = accent
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTitleMsg:
		m.title = string(msg)
		return m, nil
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// interactiveSpinner implements Spinner with an animated bubbles spinner.
type interactiveSpinner struct {
	program *tea.Program
	writer  io.Writer
	once    sync.Once
	done    chan struct{}
}

func newInteractiveSpinner(title string, w io.Writer) *interactiveSpinner {
	// No input reader and no signal handler: an interrupt must still
	// terminate the process.
	p := tea.NewProgram(newSpinnerModel(title),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return startSpinner(p, w)
}

func startSpinner(p *tea.Program, w io.Writer) *interactiveSpinner {
	s := &interactiveSpinner{program: p, writer: w, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_, _ = p.Run()
	}()
	return s
}

// SetTitle updates the spinner title.
func (s *interactiveSpinner) SetTitle(title string) {
	s.program.Send(spinnerTitleMsg(title))
}

// Success stops the spinner and prints msg with a success mark.
func (s *interactiveSpinner) Success(msg string) {
	s.finish(successMark, msg)
}

// Fail stops the spinner and prints msg with a failure mark.
func (s *interactiveSpinner) Fail(msg string) {
	s.finish(failMark, msg)
}

func (s *interactiveSpinner) finish(mark, msg string) {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		<-s.done
		_, _ = fmt.Fprintf(s.writer, "%s %s\n", mark, msg)
	})
}

// --- headlessSpinner ---

// headlessSpinner implements Spinner with plain text log output.
type headlessSpinner struct {
	title   string
	writer  io.Writer
	stopped bool
}

func newHeadlessSpinner(title string, w io.Writer) *headlessSpinner {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	return &headlessSpinner{title: title, writer: w}
}

// SetTitle updates the title and prints it as a log line.
func (s *headlessSpinner) SetTitle(title string) {
	s.title = title
	_, _ = fmt.Fprintf(s.writer, "%s\n", title)
}

// Success prints msg once.
func (s *headlessSpinner) Success(msg string) {
	s.finish("OK", msg)
}

// Fail prints msg once.
func (s *headlessSpinner) Fail(msg string) {
	s.finish("FAILED", msg)
}

func (s *headlessSpinner) finish(status, msg string) {
	if s.stopped {
		return
	}
	s.stopped = true
	_, _ = fmt.Fprintf(s.writer, "%s: %s\n", status, msg)
}
