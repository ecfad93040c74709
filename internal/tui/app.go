package tui

import (
	"context"
	"errors"
	"log"

	"country-editor/internal/countrypicker"
	"country-editor/internal/lawgrid"
	"country-editor/internal/loader"
	"country-editor/internal/model"
	"country-editor/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type focusArea int

const (
	focusGrid focusArea = iota
	focusCountries
)

// Messages carrying network results back to the update loop. gen ties each
// one to the load that asked for it.
type stateFetchedMsg struct {
	gen   uint64
	state model.DefaultState
	err   error
}

type namesResolvedMsg struct {
	gen   uint64
	pairs []model.CountryEntry
	err   error
}

// changeLog records the last selector change. It is shared by pointer so the
// selector observers keep writing to the same place as the model is copied.
type changeLog struct {
	last  lawgrid.Change
	count int
	unsub []func()
}

func (c *changeLog) record(ch lawgrid.Change) {
	c.last = ch
	c.count++
}

func (c *changeLog) detach() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
}

type appModel struct {
	ctx     context.Context
	apiBase string
	store   store.Store

	grid    *lawgrid.GridStore
	picker  *countrypicker.Picker
	loader  *loader.Loader
	changes *changeLog

	width  int
	height int

	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	countries list.Model

	focus        focusArea
	col          int
	row          [lawgrid.Columns]int
	showHelp     bool
	showSnapshot bool
}

func newAppModel(ctx context.Context, opts Options) appModel {
	grid := lawgrid.NewGridStore()
	picker := countrypicker.New()

	lopts := append([]loader.Option{}, opts.LoaderOptions...)
	if opts.Debug {
		lopts = append(lopts, loader.WithObserver(loader.ObserverFunc(func(e loader.Event) {
			if e.Err != nil {
				log.Printf("load %d: %s -> %s: %v", e.Generation, e.From, e.To, e.Err)
				return
			}
			log.Printf("load %d: %s -> %s", e.Generation, e.From, e.To)
		})))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := appModel{
		ctx:       ctx,
		apiBase:   opts.APIBase,
		store:     opts.Store,
		grid:      grid,
		picker:    picker,
		loader:    loader.New(opts.Source, grid, picker, lopts...),
		changes:   &changeLog{},
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		countries: newCountryList(),
	}

	if st, err := m.store.LoadUIState(); err == nil && st != nil {
		m.col = st.FocusColumn
		m.showHelp = st.ShowHelp
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	_, cmd := m.beginLoad()
	return cmd
}

// beginLoad starts a new load generation and returns the fetch command.
func (m appModel) beginLoad() (appModel, tea.Cmd) {
	gen := m.loader.Begin()
	return m, tea.Batch(m.spinner.Tick, fetchStateCmd(m.ctx, m.loader, gen))
}

func fetchStateCmd(ctx context.Context, l *loader.Loader, gen uint64) tea.Cmd {
	return func() tea.Msg {
		st, err := l.FetchState(ctx)
		return stateFetchedMsg{gen: gen, state: st, err: err}
	}
}

func resolveNamesCmd(ctx context.Context, l *loader.Loader, gen uint64, codes []string) tea.Cmd {
	return func() tea.Msg {
		pairs, err := l.ResolveNames(ctx, codes)
		return namesResolvedMsg{gen: gen, pairs: pairs, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeCountries()
		return m, nil

	case spinner.TickMsg:
		if !m.loader.State().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateFetchedMsg:
		return m.onStateFetched(msg)

	case namesResolvedMsg:
		return m.onNamesResolved(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m appModel) onStateFetched(msg stateFetchedMsg) (appModel, tea.Cmd) {
	if msg.err != nil {
		_ = m.loader.Fail(msg.gen, msg.err)
		return m, nil
	}

	if msg.gen != m.loader.Generation() {
		return m, nil
	}

	m.changes.detach()
	if err := m.loader.Populate(msg.gen, msg.state); err != nil {
		if errors.Is(err, loader.ErrSuperseded) {
			return m, nil
		}
		// Failed; whatever was appended stays visible.
		m.watchSelectors()
		m.clampCursor()
		return m, nil
	}
	m.watchSelectors()
	m.clampCursor()
	return m, resolveNamesCmd(m.ctx, m.loader, msg.gen, msg.state.Countries)
}

func (m appModel) onNamesResolved(msg namesResolvedMsg) (appModel, tea.Cmd) {
	if msg.err != nil {
		_ = m.loader.Fail(msg.gen, msg.err)
		return m, nil
	}
	if err := m.loader.Finish(msg.gen, msg.pairs); err != nil {
		return m, nil
	}
	syncCountryList(&m.countries, m.picker)
	return m, nil
}

// watchSelectors subscribes the change log to every selector on the grid.
func (m appModel) watchSelectors() {
	g := m.grid.Grid()
	for c := range g {
		for _, s := range g[c] {
			m.changes.unsub = append(m.changes.unsub, s.Subscribe(m.changes.record))
		}
	}
}

func (m *appModel) clampCursor() {
	m.col = lawgrid.ColumnFor(m.col)
	for c := range m.row {
		n := len(m.grid.Column(c))
		if m.row[c] >= n {
			m.row[c] = n - 1
		}
		if m.row[c] < 0 {
			m.row[c] = 0
		}
	}
}

// focusedSelector is the selector under the grid cursor, if any.
func (m appModel) focusedSelector() (*lawgrid.Selector, bool) {
	col := m.grid.Column(m.col)
	r := m.row[m.col]
	if r < 0 || r >= len(col) {
		return nil, false
	}
	return col[r], true
}

func (m appModel) onKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveUIState()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Snapshot):
		m.showSnapshot = !m.showSnapshot
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.loader.State().Busy() {
			return m, nil
		}
		return m.beginLoad()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusGrid {
			m.focus = focusCountries
		} else {
			m.focus = focusGrid
			m.picker.ClickOutside()
		}
		return m, nil
	case key.Matches(msg, m.keys.Dropdown):
		m.picker.ToggleOpen()
		if m.picker.IsOpen() {
			m.focus = focusCountries
		}
		return m, nil
	}

	if m.focus == focusCountries {
		return m.onCountriesKey(msg)
	}
	return m.onGridKey(msg)
}

func (m appModel) onGridKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.showSnapshot = false
		m.showHelp = false
	case key.Matches(msg, m.keys.Left):
		m.col = lawgrid.ColumnFor(m.col - 1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.col = lawgrid.ColumnFor(m.col + 1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		if m.row[m.col] > 0 {
			m.row[m.col]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row[m.col] < len(m.grid.Column(m.col))-1 {
			m.row[m.col]++
		}
	case key.Matches(msg, m.keys.Next):
		if s, ok := m.focusedSelector(); ok {
			s.Next()
		}
	case key.Matches(msg, m.keys.Prev):
		if s, ok := m.focusedSelector(); ok {
			s.Prev()
		}
	}
	return m, nil
}

func (m appModel) onCountriesKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.picker.ClickOutside()
		return m, nil
	case !m.picker.IsOpen():
		// The trigger: enter or space opens the list.
		if key.Matches(msg, m.keys.Next) {
			m.picker.Open()
		}
		return m, nil
	case key.Matches(msg, m.keys.Check):
		if m.picker.Len() == 0 {
			return m, nil
		}
		if err := m.picker.ToggleAt(m.countries.Index()); err == nil {
			syncCountryList(&m.countries, m.picker)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.countries, cmd = m.countries.Update(msg)
	return m, cmd
}

func (m *appModel) resizeCountries() {
	h := m.height / 3
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	m.countries.SetSize(w, h)
}

func (m appModel) saveUIState() {
	_ = m.store.SaveUIState(&store.UIState{
		Version:     1,
		FocusColumn: m.col,
		ShowHelp:    m.showHelp,
	})
}
