package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/natodrill/internal/clock"
)

var (
	letterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// TeaReader runs one inline Bubble Tea text input per prompt. All prompts
// share one input buffer, so keys typed ahead reach the next prompt.
type TeaReader struct {
	input *sharedInput
	fd    int
	out   io.Writer
	limit time.Duration
	clock clock.Clock
	width int
}

// NewTeaReader constructs a TeaReader. width is the visible input width in cells.
// When in is a terminal it is switched to raw mode for the duration of each prompt.
func NewTeaReader(in io.Reader, out io.Writer, limit time.Duration, clk clock.Clock, width int) *TeaReader {
	if clk == nil {
		clk = clock.System{}
	}
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &TeaReader{input: newSharedInput(in), fd: fd, out: out, limit: limit, clock: clk, width: width}
}

// InputWidth returns the cell width needed to show the widest of codes plus the cursor.
func InputWidth(codes []string) int {
	width := 0
	for _, code := range codes {
		if w := runewidth.StringWidth(code); w > width {
			width = w
		}
	}
	return width + 1
}

// Prompt shows "<letter>: " with a text field and waits for Enter, Ctrl-C or Ctrl-D.
func (r *TeaReader) Prompt(ctx context.Context, letter string) (Result, error) {
	gate := r.input.gate()
	defer gate.close()
	stop := context.AfterFunc(ctx, gate.close)
	defer stop()
	if r.fd >= 0 {
		state, err := term.MakeRaw(r.fd)
		if err != nil {
			return Result{}, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		// Best-effort restore; the next prompt or process exit resets the terminal.
		defer func() { _ = term.Restore(r.fd, state) }()
	}

	m := newPromptModel(letter, r.clock, r.width)
	m.onDone = gate.close
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(gate),
		tea.WithOutput(r.out),
		tea.WithoutSignalHandler(),
	)
	start := r.clock.Now()
	final, err := program.Run()
	killed := errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil
	if err != nil && !killed {
		return Result{}, fmt.Errorf("failed to run prompt: %w", err)
	}
	pm, ok := final.(*promptModel)
	if killed && (!ok || !pm.done) {
		if _, werr := fmt.Fprintln(r.out); werr != nil {
			return Result{}, fmt.Errorf("failed to write output: %w", werr)
		}
		return interrupted(), nil
	}
	if !ok {
		return Result{}, fmt.Errorf("unexpected prompt model %T", final)
	}
	switch {
	case pm.interrupted:
		return interrupted(), nil
	case pm.endOfInput:
		return endOfInput(), nil
	}
	return answered(pm.value, pm.answeredAt.Sub(start), r.limit), nil
}

type promptModel struct {
	input  textinput.Model
	clock  clock.Clock
	onDone func()

	value       string
	answeredAt  time.Time
	done        bool
	interrupted bool
	endOfInput  bool
}

func newPromptModel(letter string, clk clock.Clock, width int) *promptModel {
	input := textinput.New()
	input.Prompt = letterStyle.Render(letter) + ": "
	input.Width = width
	input.Focus()
	return &promptModel{input: input, clock: clk}
}

// Init implements tea.Model.
func (m *promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.answeredAt = m.clock.Now()
			m.value = m.input.Value()
			return m.finish()
		case tea.KeyCtrlC:
			m.interrupted = true
			return m.finish()
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.endOfInput = true
				return m.finish()
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// finish stops input delivery before quitting so no later keys are consumed.
func (m *promptModel) finish() (tea.Model, tea.Cmd) {
	m.done = true
	if m.onDone != nil {
		m.onDone()
	}
	return m, tea.Quit
}

// View implements tea.Model. The final frame ends the line so it survives teardown.
func (m *promptModel) View() string {
	if m.done {
		return m.input.Prompt + answerStyle.Render(m.value) + "\n"
	}
	return m.input.View()
}
