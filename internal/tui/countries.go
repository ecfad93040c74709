package tui

import (
	"fmt"
	"io"

	"country-editor/internal/countrypicker"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type countryItem struct {
	row countrypicker.Row
}

func (it countryItem) FilterValue() string { return it.row.DisplayName + " " + it.row.Code }
func (it countryItem) Title() string       { return it.row.DisplayName }

// countryDelegate renders one checkbox row per country.
type countryDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCountryDelegate() countryDelegate {
	return countryDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
	}
}

func (d countryDelegate) Height() int                             { return 1 }
func (d countryDelegate) Spacing() int                            { return 0 }
func (d countryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d countryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(countryItem)
	if !ok || m.Width() < 4 {
		return
	}
	cursor := " "
	style := d.normal
	if index == m.Index() {
		cursor = glyphCursor()
		style = d.selected
	}
	line := fmt.Sprintf("%s %s %s", cursor, glyphChecked(it.row.Checked), it.row.DisplayName)
	if it.row.DisplayName != it.row.Code {
		line += styleMuted().Render(" " + it.row.Code)
	}
	fmt.Fprint(w, style.Render(fitLine(line, m.Width())))
}

func newCountryList() list.Model {
	l := list.New(nil, newCountryDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Filtering would shift indexes away from the picker rows.
	l.SetFilteringEnabled(false)
	// q and esc belong to the editor, not the list.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	return l
}

// syncCountryList mirrors the picker rows into the list, keeping the cursor.
func syncCountryList(l *list.Model, p *countrypicker.Picker) {
	rows := p.Rows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, countryItem{row: r})
	}
	idx := l.Index()
	l.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	l.Select(idx)
}
