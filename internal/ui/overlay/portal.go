package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Measure returns the natural height of a rendered panel in rows.
func Measure(panel string) int {
	if panel == "" {
		return 0
	}
	return lipgloss.Height(panel)
}

// Compose splices panel onto base at geom. Both are newline separated
// frames; base is padded to height rows and the panel is clipped to the
// width by height screen. Rows of the panel above the top edge are dropped
// rather than shifted so it never overlaps its anchor.
func Compose(base, panel string, geom Geometry, width, height int) string {
	lines := splitLines(base, height)
	if !geom.Visible || panel == "" || width <= 0 {
		return strings.Join(lines, "\n")
	}
	left := geom.Left
	if left < 0 {
		left = 0
	}
	if left >= width {
		return strings.Join(lines, "\n")
	}
	panelWidth := geom.Width
	if left+panelWidth > width {
		panelWidth = width - left
	}
	if panelWidth <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, row := range strings.Split(panel, "\n") {
		y := geom.Top + i
		if y < 0 || y >= len(lines) {
			continue
		}
		lines[y] = splice(lines[y], row, left, panelWidth, width)
	}
	return strings.Join(lines, "\n")
}

func splice(bg, fg string, x, w, width int) string {
	left := ansi.Cut(bg, 0, x)
	if n := ansi.StringWidth(left); n < x {
		left += strings.Repeat(" ", x-n)
	}
	right := ansi.Cut(bg, x+w, width)

	if n := ansi.StringWidth(fg); n < w {
		fg += strings.Repeat(" ", w-n)
	} else if n > w {
		fg = ansi.Cut(fg, 0, w)
	}
	return left + fg + right
}

func splitLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height <= 0 {
		return lines
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}
