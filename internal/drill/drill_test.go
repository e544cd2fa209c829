package drill

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/natodrill/internal/clock"
	"github.com/verte-zerg/natodrill/internal/generator"
	"github.com/verte-zerg/natodrill/internal/model"
	"github.com/verte-zerg/natodrill/internal/prompt"
)

const limit = 3 * time.Second

type answer struct {
	text  string
	delay time.Duration
}

// scriptedPrompter replays answers, advancing the clock by each answer's delay.
type scriptedPrompter struct {
	clk     *clock.Fake
	answers []answer
	letters []string
	err     error
}

func (p *scriptedPrompter) Prompt(_ context.Context, letter string) (prompt.Result, error) {
	p.letters = append(p.letters, letter)
	if len(p.answers) == 0 {
		if p.err != nil {
			return prompt.Result{}, p.err
		}
		return prompt.Result{Text: model.QuitKeyword, EndOfInput: true}, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	p.clk.Advance(a.delay)
	return prompt.Result{Text: a.text, Elapsed: a.delay, FastEnough: a.delay <= limit}, nil
}

func newTestSession(queue []string, answers ...answer) (*Session, *scriptedPrompter, *bytes.Buffer) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &scriptedPrompter{clk: clk, answers: answers}
	out := &bytes.Buffer{}
	return NewSession(queue, p, out, clk, nil), p, out
}

func TestCorrectFastAnswerRemovesCode(t *testing.T) {
	s, p, _ := newTestSession([]string{"Alfa"}, answer{"Alfa", 900 * time.Millisecond})

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.State() != StateDone {
		t.Fatalf("expected done, got %s", s.State())
	}
	if summary.Misses != 0 || len(summary.Warnings) != 0 {
		t.Fatalf("expected clean summary, got %+v", summary)
	}
	if diff := cmp.Diff([]string{"A"}, p.letters); diff != "" {
		t.Fatalf("unexpected prompts (-want +got):\n%s", diff)
	}
}

func TestWrongCaseIsMissAndRepeats(t *testing.T) {
	s, p, out := newTestSession([]string{"Alfa"},
		answer{"alfa", time.Second},
		answer{"Alfa", time.Second},
	)

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", summary.Misses)
	}
	if diff := cmp.Diff([]string{"A", "A"}, p.letters); diff != "" {
		t.Fatalf("expected A to be prompted again (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "\n - Alfa - \n\n") {
		t.Fatalf("expected corrective feedback, got %q", out.String())
	}
}

func TestWhitespaceIsNotTrimmed(t *testing.T) {
	s, _, _ := newTestSession([]string{"Golf"},
		answer{"Golf ", time.Second},
		answer{"Golf", time.Second},
	)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Misses != 1 {
		t.Fatalf("expected trailing space to be a miss, got %d misses", summary.Misses)
	}
}

func TestSlowCorrectAnswerIsWarned(t *testing.T) {
	s, _, out := newTestSession([]string{"Bravo"}, answer{"Bravo", 4500 * time.Millisecond})

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []model.Warning{{Code: "Bravo", Seconds: 4.5}}
	if diff := cmp.Diff(want, summary.Warnings); diff != "" {
		t.Fatalf("unexpected warnings (-want +got):\n%s", diff)
	}
	if summary.Misses != 0 {
		t.Fatalf("expected no misses, got %d", summary.Misses)
	}
	if !strings.Contains(out.String(), "\nTook too long on:\n  - Bravo: 4.5s\n") {
		t.Fatalf("expected warning section, got %q", out.String())
	}
}

func TestWarningRoundsToTwoDecimals(t *testing.T) {
	s, _, _ := newTestSession([]string{"Hotel"}, answer{"Hotel", 3456789 * time.Microsecond})
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Warnings) != 1 || summary.Warnings[0].Seconds != 3.46 {
		t.Fatalf("expected warning of 3.46s, got %+v", summary.Warnings)
	}
}

func TestSlowMissIsNotWarned(t *testing.T) {
	s, _, _ := newTestSession([]string{"India"},
		answer{"Indigo", 10 * time.Second},
		answer{"India", time.Second},
	)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", summary.Warnings)
	}
}

func TestQuitSkipsSummary(t *testing.T) {
	for _, word := range []string{"quit", "QUIT", "Quit"} {
		t.Run(word, func(t *testing.T) {
			s, _, out := newTestSession([]string{"Charlie", "Delta"},
				answer{"Charlie", time.Second},
				answer{"nope", time.Second},
				answer{word, time.Second},
			)
			if _, err := s.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if s.State() != StateQuit {
				t.Fatalf("expected quit, got %s", s.State())
			}
			got := out.String()
			if !strings.HasSuffix(got, "\nQuitting...\n\n") {
				t.Fatalf("expected quitting notice, got %q", got)
			}
			if strings.Contains(got, "Time:") || strings.Contains(got, "Misses:") {
				t.Fatalf("expected no summary on quit, got %q", got)
			}
			if diff := cmp.Diff([]string{"Delta"}, s.Remaining()); diff != "" {
				t.Fatalf("unexpected remaining codes (-want +got):\n%s", diff)
			}
			if s.Misses() != 1 {
				t.Fatalf("expected quit not to count as a miss, got %d", s.Misses())
			}
		})
	}
}

func TestEndOfInputQuits(t *testing.T) {
	s, _, out := newTestSession([]string{"Echo"})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.State() != StateQuit {
		t.Fatalf("expected quit, got %s", s.State())
	}
	if !strings.Contains(out.String(), "Quitting...") {
		t.Fatalf("expected quitting notice, got %q", out.String())
	}
}

func TestPromptErrorIsReturned(t *testing.T) {
	s, p, _ := newTestSession([]string{"Kilo"})
	p.err = errors.New("broken pipe")
	_, err := s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected prompt error, got %v", err)
	}
	if s.State() != StateRunning {
		t.Fatalf("expected state to stay running, got %s", s.State())
	}
}

func TestFullSessionWithoutMistakes(t *testing.T) {
	queue := generator.NewWithSource(rand.NewSource(1)).Shuffled()
	answers := make([]answer, 0, len(queue))
	for _, code := range queue {
		answers = append(answers, answer{code, 2 * time.Second})
	}
	s, p, out := newTestSession(queue, answers...)

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(p.letters) != 26 {
		t.Fatalf("expected 26 prompts, got %d", len(p.letters))
	}
	if summary.Elapsed != 52 || summary.Misses != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	got := out.String()
	if !strings.HasPrefix(got, "\nEnter \"quit\" at any time.\n\n") {
		t.Fatalf("expected banner, got %q", got)
	}
	if !strings.HasSuffix(got, "\nTime: 52.0s\nMisses: 0\n\n") {
		t.Fatalf("expected summary without warnings, got %q", got)
	}
	if strings.Contains(got, "Took too long on") {
		t.Fatalf("expected no warning section")
	}
	if len(s.Remaining()) != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestMissesAndWarningsAccumulate(t *testing.T) {
	s, _, out := newTestSession([]string{"Lima", "Mike"},
		answer{"Lima", 5 * time.Second},
		answer{"mike", time.Second},
		answer{"Mik", time.Second},
		answer{"Mike", 3100 * time.Millisecond},
	)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Misses != 2 {
		t.Fatalf("expected 2 misses, got %d", summary.Misses)
	}
	want := []model.Warning{{Code: "Lima", Seconds: 5}, {Code: "Mike", Seconds: 3.1}}
	if diff := cmp.Diff(want, summary.Warnings); diff != "" {
		t.Fatalf("unexpected warnings (-want +got):\n%s", diff)
	}
	if summary.Elapsed != 10.1 {
		t.Fatalf("expected 10.1s elapsed, got %v", summary.Elapsed)
	}
	if !strings.Contains(out.String(), "  - Lima: 5.0s\n  - Mike: 3.1s\n") {
		t.Fatalf("unexpected warning lines: %q", out.String())
	}
}

func TestStateString(t *testing.T) {
	if StateDone.String() != "done" || State(9).String() != "State(9)" {
		t.Fatalf("unexpected state names")
	}
}
