package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatColumns lays out a header and rows as left-aligned columns separated by
// one space. Widths are measured in terminal cells; the last column is not padded.
// Cells past the header count are dropped.
func FormatColumns(headers []string, rows [][]string) []string {
	if len(headers) == 0 {
		return nil
	}
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinColumns(headers, widths))
	for _, row := range rows {
		lines = append(lines, joinColumns(row, widths))
	}
	return lines
}

func joinColumns(row []string, widths []int) string {
	var b strings.Builder
	last := len(widths) - 1
	for i := 0; i <= last; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == last {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	return b.String()
}
