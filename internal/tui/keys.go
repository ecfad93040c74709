package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Reload   key.Binding
	Focus    key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Dropdown key.Binding
	Check    key.Binding
	Close    key.Binding
	Snapshot key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "laws/countries")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
		Right:    key.NewBinding(key.WithKeys("l", "right")),
		Up:       key.NewBinding(key.WithKeys("k", "up", "ctrl+p"), key.WithHelp("j/k", "move")),
		Down:     key.NewBinding(key.WithKeys("j", "down", "ctrl+n")),
		Next:     key.NewBinding(key.WithKeys("enter", " ", "]"), key.WithHelp("enter", "next option")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous option")),
		Dropdown: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "countries")),
		Check:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "check")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Snapshot: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snapshot")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Up, k.Focus, k.Dropdown, k.Snapshot, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Up, k.Next, k.Prev},
		{k.Focus, k.Dropdown, k.Check, k.Close},
		{k.Snapshot, k.Reload, k.Help, k.Quit},
	}
}

const helpMarkdown = `
# Country editor

Laws are laid out in three columns. Each box is one law; its current option
is shown under the title together with the image that backs it.

## Laws

| Key | Action |
| --- | --- |
| h / l | previous / next column |
| j / k | move within a column |
| enter, space, ] | next option |
| [ | previous option |

## Countries

| Key | Action |
| --- | --- |
| tab | switch between laws and countries |
| c | open or close the country list |
| space, x | check or uncheck a country |
| esc | close the list |

The summary shows up to three checked countries and a count of the rest.

## Other

| Key | Action |
| --- | --- |
| s | show the grid snapshot |
| r | reload, or retry after a failure |
| q | quit |
`
