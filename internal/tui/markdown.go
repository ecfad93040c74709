package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. A fixed style avoids the
	// terminal queries WithAutoStyle makes, which can block.
	mdRenderers = map[string]*glamour.TermRenderer{}

	mdStyleOverride string
)

// setMarkdownStyle pins the glamour standard style ("dark", "light", "notty",
// "ascii"). Empty picks one from the terminal background.
func setMarkdownStyle(style string) {
	mdRendererMu.Lock()
	mdStyleOverride = strings.ToLower(strings.TrimSpace(style))
	mdRendererMu.Unlock()
}

func markdownStyle() string {
	if mdStyleOverride != "" {
		return mdStyleOverride
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
