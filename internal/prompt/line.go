package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/natodrill/internal/clock"
)

type lineResult struct {
	text string
	err  error
}

// LineReader prompts on a writer and reads newline-terminated answers.
//
// Reads happen on one worker goroutine so a prompt can return as soon as its
// context is cancelled. A read left in flight by a cancelled prompt is handed
// to the next prompt instead of starting a second read.
type LineReader struct {
	out   io.Writer
	limit time.Duration
	clock clock.Clock

	br        *bufio.Reader
	requests  chan struct{}
	lines     chan lineResult
	pending   bool
	startOnce sync.Once
	closeOnce sync.Once
}

// NewLineReader constructs a LineReader with the given time limit.
func NewLineReader(in io.Reader, out io.Writer, limit time.Duration, clk clock.Clock) *LineReader {
	if clk == nil {
		clk = clock.System{}
	}
	return &LineReader{
		out:      out,
		limit:    limit,
		clock:    clk,
		br:       bufio.NewReader(in),
		requests: make(chan struct{}),
		lines:    make(chan lineResult, 1),
	}
}

// Prompt writes "<letter>: " and blocks until a line arrives, input ends or ctx is done.
func (r *LineReader) Prompt(ctx context.Context, letter string) (Result, error) {
	r.startOnce.Do(func() { go r.readLoop() })

	start := r.clock.Now()
	if _, err := fmt.Fprintf(r.out, "%s: ", letter); err != nil {
		return Result{}, fmt.Errorf("failed to write prompt: %w", err)
	}
	if ctx.Err() != nil {
		return r.finish(interrupted())
	}
	if !r.pending {
		select {
		case r.requests <- struct{}{}:
			r.pending = true
		case <-ctx.Done():
			return r.finish(interrupted())
		}
	}

	select {
	case <-ctx.Done():
		return r.finish(interrupted())
	case line := <-r.lines:
		r.pending = false
		elapsed := r.clock.Now().Sub(start)
		if line.err != nil {
			if !errors.Is(line.err, io.EOF) {
				return Result{}, fmt.Errorf("failed to read input: %w", line.err)
			}
			if line.text == "" {
				return r.finish(endOfInput())
			}
		}
		return answered(line.text, elapsed, r.limit), nil
	}
}

// Close stops the worker once any in-flight read returns.
func (r *LineReader) Close() error {
	r.closeOnce.Do(func() { close(r.requests) })
	return nil
}

func (r *LineReader) readLoop() {
	for range r.requests {
		text, err := r.br.ReadString('\n')
		r.lines <- lineResult{text: trimLineEnding(text), err: err}
	}
}

// finish ends the prompt line, since no newline was echoed for it.
func (r *LineReader) finish(res Result) (Result, error) {
	if _, err := fmt.Fprintln(r.out); err != nil {
		return Result{}, fmt.Errorf("failed to write output: %w", err)
	}
	return res, nil
}

func trimLineEnding(text string) string {
	if !strings.HasSuffix(text, "\n") {
		return text
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.TrimSuffix(text, "\r")
}
