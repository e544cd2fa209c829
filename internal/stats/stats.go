// Package stats contains timing calculations and session reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/natodrill/internal/model"
)

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Seconds converts d to fractional seconds rounded to two decimal places.
func Seconds(d time.Duration) float64 {
	return Round2(d.Seconds())
}

// FormatSeconds renders v in shortest form with at least one fractional digit.
func FormatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// RenderSummary prints elapsed time, misses and any slow answers.
func RenderSummary(w io.Writer, summary model.Summary) error {
	if _, err := fmt.Fprintf(w, "\nTime: %ss\nMisses: %d\n", FormatSeconds(summary.Elapsed), summary.Misses); err != nil {
		return err
	}
	if len(summary.Warnings) > 0 {
		if _, err := fmt.Fprintln(w, "\nTook too long on:"); err != nil {
			return err
		}
		for _, warn := range summary.Warnings {
			if _, err := fmt.Fprintf(w, "  - %s: %ss\n", warn.Code, FormatSeconds(warn.Seconds)); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
