// Package table aligns rows of text cells into columns.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const columnGap = "  "

// Format returns the rows padded according to the widest entry in each
// column. Rows may be ragged; missing cells count as empty.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			if width := ansi.StringWidth(cell); width > widths[c] {
				widths[c] = width
			}
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString(columnGap)
			}
			pad := widths[c] - ansi.StringWidth(cell)
			last := c == colCount-1
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if !last {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

// FormatWidth formats rows like Format and cuts every line to maxWidth
// cells with a trailing ellipsis. A non-positive maxWidth disables the cut.
func FormatWidth(rows [][]string, alignments []Alignment, maxWidth int) []string {
	lines := Format(rows, alignments)
	if maxWidth <= 0 {
		return lines
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > maxWidth {
			lines[i] = truncate.StringWithTail(line, uint(maxWidth), "…")
		}
	}
	return lines
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
