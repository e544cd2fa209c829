// Package drill runs a phonetic alphabet session over a prompt reader.
package drill

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/natodrill/internal/clock"
	"github.com/verte-zerg/natodrill/internal/generator"
	"github.com/verte-zerg/natodrill/internal/model"
	"github.com/verte-zerg/natodrill/internal/prompt"
	"github.com/verte-zerg/natodrill/internal/stats"
)

// State is the drill lifecycle state.
type State int

const (
	StateRunning State = iota
	StateQuit
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateQuit:
		return "quit"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Prompter asks for one answer to a letter prompt.
type Prompter interface {
	Prompt(ctx context.Context, letter string) (prompt.Result, error)
}

// Session drains a queue of codes, repeating each until it is typed exactly.
type Session struct {
	queue    []string
	prompter Prompter
	out      io.Writer
	clock    clock.Clock
	logger   *zap.Logger

	state     State
	startedAt time.Time
	misses    int
	warnings  []model.Warning
}

// NewSession constructs a session over queue. The queue is copied.
func NewSession(queue []string, prompter Prompter, out io.Writer, clk clock.Clock, logger *zap.Logger) *Session {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		queue:    append([]string(nil), queue...),
		prompter: prompter,
		out:      out,
		clock:    clk,
		logger:   logger,
		state:    StateRunning,
	}
}

// Run prompts until the queue is empty or the user quits. The summary is only
// printed, and only meaningful, when the session ends in StateDone.
func (s *Session) Run(ctx context.Context) (model.Summary, error) {
	s.startedAt = s.clock.Now()
	s.logger.Debug("session started", zap.Int("codes", len(s.queue)))
	if _, err := fmt.Fprintf(s.out, "\nEnter %q at any time.\n\n", model.QuitKeyword); err != nil {
		return model.Summary{}, fmt.Errorf("failed to write output: %w", err)
	}

	for s.state == StateRunning && len(s.queue) > 0 {
		code := s.queue[0]
		res, err := s.prompter.Prompt(ctx, generator.Letter(code))
		if err != nil {
			return model.Summary{}, fmt.Errorf("failed to read answer for %s: %w", code, err)
		}
		if err := s.apply(code, res); err != nil {
			return model.Summary{}, err
		}
	}
	if s.state == StateQuit {
		return model.Summary{}, nil
	}
	return s.finish()
}

func (s *Session) apply(code string, res prompt.Result) error {
	if strings.ToLower(res.Text) == model.QuitKeyword {
		s.state = StateQuit
		s.logger.Debug("session quit",
			zap.Bool("interrupted", res.Interrupted),
			zap.Bool("end_of_input", res.EndOfInput),
			zap.Int("remaining", len(s.queue)))
		if _, err := fmt.Fprint(s.out, "\nQuitting...\n\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if res.Text == code {
		s.queue = s.queue[1:]
		if !res.FastEnough {
			s.warnings = append(s.warnings, model.Warning{Code: code, Seconds: stats.Seconds(res.Elapsed)})
		}
		s.logger.Debug("answer correct",
			zap.String("code", code),
			zap.Duration("elapsed", res.Elapsed),
			zap.Bool("fast_enough", res.FastEnough))
		return nil
	}

	s.misses++
	s.logger.Debug("answer missed", zap.String("code", code), zap.String("entry", res.Text))
	if _, err := fmt.Fprintf(s.out, "\n - %s - \n\n", code); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (s *Session) finish() (model.Summary, error) {
	s.state = StateDone
	summary := model.Summary{
		Elapsed:  stats.Seconds(s.clock.Now().Sub(s.startedAt)),
		Misses:   s.misses,
		Warnings: append([]model.Warning(nil), s.warnings...),
	}
	s.logger.Debug("session done",
		zap.Float64("elapsed", summary.Elapsed),
		zap.Int("misses", summary.Misses),
		zap.Int("warnings", len(summary.Warnings)))
	if err := stats.RenderSummary(s.out, summary); err != nil {
		return model.Summary{}, fmt.Errorf("failed to write summary: %w", err)
	}
	return summary, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Misses returns the number of incorrect, non-quit answers so far.
func (s *Session) Misses() int {
	return s.misses
}

// Warnings returns the slow but correct answers so far, in order.
func (s *Session) Warnings() []model.Warning {
	return append([]model.Warning(nil), s.warnings...)
}

// Remaining returns the codes still to be answered, next first.
func (s *Session) Remaining() []string {
	return append([]string(nil), s.queue...)
}
