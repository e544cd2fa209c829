// Package prompt displays a letter prompt, captures one answer and times it.
package prompt

import (
	"time"

	"github.com/verte-zerg/natodrill/internal/model"
)

// Result is the outcome of a single timed exchange.
type Result struct {
	Text       string
	Elapsed    time.Duration
	FastEnough bool

	// Interrupted is set when the user cancelled the prompt; Text is then the quit keyword.
	Interrupted bool
	// EndOfInput is set when the input stream ended; Text is then the quit keyword.
	EndOfInput bool
}

// Seconds returns the elapsed time in fractional seconds.
func (r Result) Seconds() float64 {
	return r.Elapsed.Seconds()
}

func answered(text string, elapsed, limit time.Duration) Result {
	return Result{
		Text:       text,
		Elapsed:    elapsed,
		FastEnough: elapsed <= limit,
	}
}

func interrupted() Result {
	return Result{Text: model.QuitKeyword, Interrupted: true}
}

func endOfInput() Result {
	return Result{Text: model.QuitKeyword, EndOfInput: true}
}
