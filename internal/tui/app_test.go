package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"country-editor/internal/loader"
	"country-editor/internal/model"
	"country-editor/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSource struct {
	state model.DefaultState
	names map[string]string
	err   error
}

func (f *fakeSource) DefaultState(context.Context) (model.DefaultState, error) {
	return f.state, f.err
}

func (f *fakeSource) CountryName(_ context.Context, code string) (string, error) {
	if n, ok := f.names[code]; ok {
		return n, nil
	}
	return model.NotAvailable, nil
}

func testState() model.DefaultState {
	return model.DefaultState{
		Laws: []model.LawGroup{
			{Name: "law_agrarianism", Options: model.MustOptionImageMap("on", "img1", "off", "img2"), Column: float64(0)},
			{Name: "law_serfdom", Options: model.MustOptionImageMap("tenant_farmers", "t.png"), Column: float64(1)},
			{Name: "law_slavery_banned", Options: model.MustOptionImageMap("yes", ""), Column: float64(4)},
		},
		Countries: []string{"A1", "A2", "A3", "A4", "A5"},
	}
}

func newTestModel(t *testing.T, src loader.Source) appModel {
	t.Helper()
	m := newAppModel(context.Background(), Options{Source: src, Store: store.Store{Dir: t.TempDir()}})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mAny.(appModel)
}

// runLoad drives one load through the same messages the program would deliver.
func runLoad(t *testing.T, m appModel) appModel {
	t.Helper()
	m, _ = m.beginLoad()
	msg := fetchStateCmd(m.ctx, m.loader, m.loader.Generation())()
	mAny, cmd := m.Update(msg)
	m = mAny.(appModel)
	if cmd == nil {
		return m
	}
	mAny, _ = m.Update(cmd())
	return mAny.(appModel)
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mAny, _ := m.Update(msg)
		m = mAny.(appModel)
	}
	return m
}

func TestLoad_PopulatesGridAndCountries(t *testing.T) {
	src := &fakeSource{state: testState(), names: map[string]string{"A1": "Alpha"}}
	m := runLoad(t, newTestModel(t, src))

	if got := m.loader.State(); got != loader.Ready {
		t.Fatalf("expected ready; got %v (err=%v)", got, m.loader.Err())
	}
	if got := m.grid.Len(); got != 3 {
		t.Fatalf("expected 3 selectors; got %d", got)
	}
	if got := len(m.grid.Column(1)); got != 2 {
		t.Fatalf("expected column 4 to land in column 1; got %d in column 1", got)
	}
	if got := m.picker.Len(); got != 5 {
		t.Fatalf("expected 5 countries; got %d", got)
	}

	v := m.View()
	for _, want := range []string{"Agrarianism", "Serfdom", "Slavery banned", "bg: img1", "bg: none", "no countries selected"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, v)
		}
	}
	if strings.Contains(v, "loading") {
		t.Fatalf("expected loading indicator hidden once ready:\n%s", v)
	}
}

func TestView_ShowsLoadingIndicatorWhileBusy(t *testing.T) {
	m := newTestModel(t, &fakeSource{state: testState()})
	m, _ = m.beginLoad()
	if !strings.Contains(m.View(), "loading") {
		t.Fatalf("expected loading indicator while fetching")
	}
}

func TestGridKeys_CycleFocusedSelector(t *testing.T) {
	m := runLoad(t, newTestModel(t, &fakeSource{state: testState()}))

	m = press(t, m, "enter")
	s, ok := m.focusedSelector()
	if !ok {
		t.Fatalf("expected a focused selector")
	}
	if s.Value() != "off" || s.Visual().Background != "img2" {
		t.Fatalf("expected off/img2 after enter; got %q/%q", s.Value(), s.Visual().Background)
	}
	if !strings.Contains(m.View(), "law_agrarianism: on -> off") {
		t.Fatalf("expected last change in footer:\n%s", m.View())
	}

	m = press(t, m, "[")
	if s.Value() != "on" {
		t.Fatalf("expected [ to go back to on; got %q", s.Value())
	}

	m = press(t, m, "l", "j")
	s, _ = m.focusedSelector()
	if m.col != 1 || s.ID() != "law_slavery_banned" {
		t.Fatalf("expected column 1 row 1; got col=%d id=%q", m.col, s.ID())
	}

	// Wraps around to the last column.
	m = press(t, m, "h", "h")
	if m.col != 2 {
		t.Fatalf("expected wrap to column 2; got %d", m.col)
	}
	if _, ok := m.focusedSelector(); ok {
		t.Fatalf("expected no selector in the empty column")
	}
}

func TestCountryDropdown_SummaryChips(t *testing.T) {
	src := &fakeSource{state: testState(), names: map[string]string{"A1": "Alpha", "A2": "Bravo", "A3": "Charlie"}}
	m := runLoad(t, newTestModel(t, src))

	m = press(t, m, "c")
	if !m.picker.IsOpen() || m.focus != focusCountries {
		t.Fatalf("expected c to open the list and focus it")
	}
	m = press(t, m, " ", "j", " ", "j", "x", "j", " ", "j", " ")

	if got := m.picker.Checked(); len(got) != 5 {
		t.Fatalf("expected all 5 checked; got %v", got)
	}
	sum := m.picker.Summary()
	want := []string{"Alpha", "Bravo", "Charlie", "+ 2 others"}
	if strings.Join(sum.Chips, "|") != strings.Join(want, "|") {
		t.Fatalf("expected chips %v; got %v", want, sum.Chips)
	}
	if !strings.Contains(m.View(), "+ 2 others") {
		t.Fatalf("expected summary in view:\n%s", m.View())
	}

	// Unchecking keeps the dropdown open.
	m = press(t, m, " ")
	if !m.picker.IsOpen() || len(m.picker.Checked()) != 4 {
		t.Fatalf("expected open list with 4 checked; open=%v checked=%v", m.picker.IsOpen(), m.picker.Checked())
	}

	m = press(t, m, "esc")
	if m.picker.IsOpen() {
		t.Fatalf("expected esc to close the list")
	}
	if len(m.picker.Checked()) != 4 {
		t.Fatalf("expected closing to keep the selection")
	}

	m = press(t, m, "enter")
	if !m.picker.IsOpen() {
		t.Fatalf("expected enter on the trigger to open the list")
	}
	m = press(t, m, "tab")
	if m.picker.IsOpen() || m.focus != focusGrid {
		t.Fatalf("expected tab away to close the list and focus the grid")
	}
}

func TestLoadFailure_ShowsRetryAndRecovers(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	m := runLoad(t, newTestModel(t, src))

	if m.loader.State() != loader.Failed {
		t.Fatalf("expected failed; got %v", m.loader.State())
	}
	v := m.View()
	if !strings.Contains(v, "connection refused") || !strings.Contains(v, "press r to retry") {
		t.Fatalf("expected error and retry hint:\n%s", v)
	}

	src.err = nil
	src.state = testState()
	mAny, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatalf("expected r to start a load")
	}
	if m.loader.State() != loader.Loading {
		t.Fatalf("expected loading after r; got %v", m.loader.State())
	}

	msg := fetchStateCmd(m.ctx, m.loader, m.loader.Generation())()
	mAny, cmd = m.Update(msg)
	m = mAny.(appModel)
	mAny, _ = m.Update(cmd())
	m = mAny.(appModel)
	if m.loader.State() != loader.Ready || m.grid.Len() != 3 {
		t.Fatalf("expected ready with 3 selectors; got %v / %d", m.loader.State(), m.grid.Len())
	}
}

func TestStaleResultsAreIgnored(t *testing.T) {
	m := newTestModel(t, &fakeSource{state: testState()})

	m, _ = m.beginLoad()
	stale := m.loader.Generation()
	m, _ = m.beginLoad()

	mAny, cmd := m.Update(stateFetchedMsg{gen: stale, state: testState()})
	m = mAny.(appModel)
	if cmd != nil {
		t.Fatalf("expected no follow-up for a stale result")
	}
	if m.grid.Len() != 0 {
		t.Fatalf("expected stale state to leave the grid alone; got %d selectors", m.grid.Len())
	}

	mAny, _ = m.Update(namesResolvedMsg{gen: stale, pairs: []model.CountryEntry{{Code: "X", DisplayName: "X"}}})
	m = mAny.(appModel)
	if m.picker.Len() != 0 {
		t.Fatalf("expected stale names to leave the picker alone")
	}
	if m.loader.State() != loader.Loading {
		t.Fatalf("expected current load still in flight; got %v", m.loader.State())
	}
}

func TestInvalidColumn_FailsWithPartialGrid(t *testing.T) {
	st := testState()
	st.Laws[1].Column = "middle"
	m := runLoad(t, newTestModel(t, &fakeSource{state: st}))

	if m.loader.State() != loader.Failed {
		t.Fatalf("expected failed; got %v", m.loader.State())
	}
	if m.grid.Len() != 1 {
		t.Fatalf("expected the first group to stay on the grid; got %d", m.grid.Len())
	}
}

func TestUIState_SavedOnQuitAndRestored(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{state: testState()}
	m := newAppModel(context.Background(), Options{Source: src, Store: store.Store{Dir: dir}})
	m = runLoad(t, m)

	m = press(t, m, "l", "?")
	if !m.showHelp {
		t.Fatalf("expected ? to show help")
	}
	_ = m.View()

	mAny, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	m2 := newAppModel(context.Background(), Options{Source: src, Store: store.Store{Dir: dir}})
	if m2.col != 1 || !m2.showHelp {
		t.Fatalf("expected restored col=1 help=true; got col=%d help=%v", m2.col, m2.showHelp)
	}
}

func TestSnapshotView(t *testing.T) {
	m := runLoad(t, newTestModel(t, &fakeSource{state: testState()}))
	m = press(t, m, "s")
	v := m.View()
	if !strings.Contains(v, `"tenant_farmers"`) || !strings.Contains(v, "Snapshot") {
		t.Fatalf("expected snapshot json in view:\n%s", v)
	}
	m = press(t, m, "esc")
	if m.showSnapshot {
		t.Fatalf("expected esc to leave the snapshot")
	}
}

func TestStaleStateKeepsChangeLogAttached(t *testing.T) {
	m := runLoad(t, newTestModel(t, &fakeSource{state: testState()}))

	stale := m.loader.Generation()
	m, _ = m.beginLoad()
	mAny, _ := m.Update(stateFetchedMsg{gen: stale, state: testState()})
	m = mAny.(appModel)

	s, ok := m.focusedSelector()
	if !ok {
		t.Fatalf("expected a focused selector")
	}
	s.Next()
	if m.changes.count != 1 || m.changes.last.SelectorID != "law_agrarianism" {
		t.Fatalf("expected the change log to still record changes; got count=%d last=%+v", m.changes.count, m.changes.last)
	}
}
