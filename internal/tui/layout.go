package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLine cuts or pads one line to exactly width cells, ANSI-aware.
func fitLine(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the width computation on pathological lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// normalizePane makes s exactly width cells wide and, when height > 0,
// exactly height lines tall, so panes line up under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// columnWidths splits total into n pane widths separated by gap cells. The
// remainder goes to the leftmost panes.
func columnWidths(total, n, gap int) []int {
	if n <= 0 {
		return nil
	}
	avail := total - gap*(n-1)
	if avail < n {
		avail = n
	}
	out := make([]int, n)
	for i := range out {
		out[i] = avail / n
		if i < avail%n {
			out[i]++
		}
	}
	return out
}

// scrollWindow returns the first visible index so cursor stays inside a
// window of size visible over n entries.
func scrollWindow(cursor, n, visible int) int {
	if visible <= 0 || n <= visible {
		return 0
	}
	start := cursor - visible + 1
	if start < 0 {
		start = 0
	}
	if start > n-visible {
		start = n - visible
	}
	return start
}
