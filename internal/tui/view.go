package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"country-editor/internal/lawgrid"
	"country-editor/internal/loader"

	"github.com/charmbracelet/lipgloss"
)

const (
	columnGap = 2
	// Rendered height of one selector box: border, title, option, image, border.
	selectorHeight = 5
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	header := m.viewHeader(width)
	footer := m.viewFooter(width)
	countries := m.viewCountries(width)

	bodyH := height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(countries)
	if bodyH < selectorHeight+1 {
		bodyH = selectorHeight + 1
	}

	var body string
	switch {
	case m.showHelp:
		body = normalizePane(renderMarkdown(helpMarkdown, width-2), width, bodyH)
	case m.showSnapshot:
		body = normalizePane(m.viewSnapshot(), width, bodyH)
	default:
		body = m.viewGrid(width, bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, countries, footer)
}

func (m appModel) viewHeader(width int) string {
	st := m.loader.State()
	left := styleHeader().Render("Country editor")
	if m.apiBase != "" {
		left += styleMuted().Render("  " + m.apiBase)
	}

	var right string
	switch st {
	case loader.Loading, loader.Populating:
		// The loading indicator.
		right = m.spinner.View() + " loading " + st.String()
	case loader.Failed:
		right = styleError().Render("load failed")
	case loader.Ready:
		right = styleMuted().Render(fmt.Sprintf("%d laws", m.grid.Len()))
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return fitLine(left+strings.Repeat(" ", gap)+right, width)
}

func (m appModel) viewGrid(width, height int) string {
	widths := columnWidths(width, lawgrid.Columns, columnGap)
	panes := make([]string, 0, lawgrid.Columns*2)
	for c := 0; c < lawgrid.Columns; c++ {
		if c > 0 {
			panes = append(panes, strings.Repeat(" ", columnGap))
		}
		panes = append(panes, m.viewColumn(c, widths[c], height))
	}
	// Gap strings are one line tall; pad them so the join stays aligned.
	for i := range panes {
		if i%2 == 1 {
			panes[i] = normalizePane(panes[i], columnGap, height)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m appModel) viewColumn(c, width, height int) string {
	focused := m.focus == focusGrid && m.col == c
	sels := m.grid.Column(c)

	var b strings.Builder
	b.WriteString(styleColumnTitle(focused).Render(fmt.Sprintf("Column %d", c+1)))
	if len(sels) == 0 {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("(empty)"))
		return normalizePane(b.String(), width, height)
	}

	visible := (height - 1) / selectorHeight
	if visible < 1 {
		visible = 1
	}
	start := scrollWindow(m.row[c], len(sels), visible)
	end := start + visible
	if end > len(sels) {
		end = len(sels)
	}
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(viewSelector(sels[i], focused && i == m.row[c], width))
	}
	return normalizePane(b.String(), width, height)
}

func viewSelector(s *lawgrid.Selector, focused bool, width int) string {
	// Width on the style excludes the border.
	inner := width - 2
	if inner < 4 {
		inner = 4
	}
	contentW := inner - 2

	l, r := glyphCycle()
	value := fmt.Sprintf("%s %s %s", l, s.Label(), r)
	bg := s.Visual().Background
	if bg == "" {
		bg = "none"
	}
	lines := []string{
		fitLine(lipgloss.NewStyle().Bold(true).Render(s.Title()), contentW),
		fitLine(value, contentW),
		fitLine(styleMuted().Render("bg: "+bg), contentW),
	}
	return styleSelector(focused, inner).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewSnapshot() string {
	b, err := json.MarshalIndent(m.grid.Snapshot(), "", "  ")
	if err != nil {
		return styleError().Render(err.Error())
	}
	return styleHeader().Render("Snapshot") + "\n" + string(b)
}

// viewCountries renders the dropdown trigger with the summary chips and, when
// open, the list below it.
func (m appModel) viewCountries(width int) string {
	focused := m.focus == focusCountries
	sum := m.picker.Summary()

	var chips []string
	if sum.HasSelection {
		for _, c := range sum.Chips {
			chips = append(chips, styleChip().Render(c))
		}
	} else {
		chips = append(chips, styleMuted().Render("no countries selected"))
	}
	trigger := styleTrigger(focused).Render("Countries " + glyphDropdown(m.picker.IsOpen()))
	line := lipgloss.JoinHorizontal(lipgloss.Center, trigger, " "+strings.Join(chips, " "))
	out := normalizePane(line, width, 0)

	if m.picker.IsOpen() {
		var list string
		if m.picker.Len() == 0 {
			list = styleMuted().Render("  no countries loaded")
		} else {
			list = m.countries.View()
		}
		out += "\n" + normalizePane(list, width, 0)
	}
	return out
}

func (m appModel) viewFooter(width int) string {
	var lines []string
	if m.loader.State() == loader.Failed {
		msg := "load failed"
		if err := m.loader.Err(); err != nil {
			msg = err.Error()
		}
		lines = append(lines, fitLine(styleError().Render(msg)+styleMuted().Render("  press r to retry"), width))
	} else if m.changes.count > 0 {
		ch := m.changes.last
		lines = append(lines, fitLine(styleMuted().Render(fmt.Sprintf("%s: %s -> %s", ch.SelectorID, ch.Previous, ch.Value)), width))
	}
	lines = append(lines, fitLine(m.help.View(m.keys), width))
	return strings.Join(lines, "\n")
}
