package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"country-editor/internal/loader"
	"country-editor/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the interactive editor.
type Options struct {
	// Source serves the default state and the country names.
	Source        loader.Source
	LoaderOptions []loader.Option

	// APIBase is shown in the header.
	APIBase string

	// Store holds ui_state.json.
	Store store.Store

	Glyphs        string
	MarkdownStyle string

	// Debug logs load transitions to debug.log in the store dir.
	Debug bool
}

// DebugEnabled reports whether COUNTRY_EDITOR_DEBUG asks for a debug log.
func DebugEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("COUNTRY_EDITOR_DEBUG")))
	return v != "" && v != "0" && v != "false"
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)
	setMarkdownStyle(opts.MarkdownStyle)

	if opts.Debug && strings.TrimSpace(opts.Store.Dir) != "" {
		if err := opts.Store.Ensure(); err == nil {
			f, err := tea.LogToFile(filepath.Join(opts.Store.Dir, "debug.log"), "country-editor")
			if err == nil {
				defer f.Close()
			}
		}
	}

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
