// Package model defines shared data structures.
package model

import "time"

// DefaultTimeLimit is the per-prompt threshold above which a correct answer is flagged.
const DefaultTimeLimit = 3 * time.Second

// QuitKeyword ends a session when entered at any prompt, compared case-insensitively.
const QuitKeyword = "quit"

// Config defines drill settings.
type Config struct {
	TimeLimit time.Duration
	Plain     bool
}

// Warning records a correct answer that exceeded the time limit.
type Warning struct {
	Code    string
	Seconds float64
}

// Summary captures a completed drill session.
type Summary struct {
	Elapsed  float64
	Misses   int
	Warnings []Warning
}
