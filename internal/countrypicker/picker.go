// Package countrypicker holds the state behind the country multi-select: the
// checkbox rows, the condensed "selected" summary, and the dropdown's
// open/closed flag.
package countrypicker

import (
	"fmt"

	"country-editor/internal/model"
)

// MaxChips is how many checked names the summary lists before collapsing the
// rest into a "+ N others" chip.
const MaxChips = 3

type Row struct {
	model.CountryEntry
	Checked bool `json:"checked"`
}

// Summary is the condensed view of the current selection.
type Summary struct {
	Chips        []string `json:"chips"`
	HasSelection bool     `json:"hasSelection"`
}

// Picker is owned by the goroutine that drives the UI; it is not safe for
// concurrent use.
type Picker struct {
	rows    []Row
	open    bool
	summary Summary

	listeners []func(Summary)
}

func New() *Picker {
	p := &Picker{}
	p.recompute()
	return p
}

// OnChange registers fn to run after every selection change with the fresh summary.
func (p *Picker) OnChange(fn func(Summary)) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}

// Populate replaces the rows with one unchecked row per entry, in order.
func (p *Picker) Populate(entries []model.CountryEntry) {
	p.rows = make([]Row, 0, len(entries))
	for _, e := range entries {
		p.rows = append(p.rows, Row{CountryEntry: e})
	}
	p.changed()
}

func (p *Picker) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

func (p *Picker) Len() int { return len(p.rows) }

// SetChecked sets the checkbox of the first row with code. It reports whether
// such a row exists.
func (p *Picker) SetChecked(code string, checked bool) bool {
	i := p.indexOf(code)
	if i < 0 {
		return false
	}
	return p.SetCheckedAt(i, checked) == nil
}

func (p *Picker) Toggle(code string) bool {
	i := p.indexOf(code)
	if i < 0 {
		return false
	}
	return p.SetCheckedAt(i, !p.rows[i].Checked) == nil
}

func (p *Picker) ToggleAt(i int) error {
	if i < 0 || i >= len(p.rows) {
		return fmt.Errorf("country row out of range: %d", i)
	}
	return p.SetCheckedAt(i, !p.rows[i].Checked)
}

func (p *Picker) SetCheckedAt(i int, checked bool) error {
	if i < 0 || i >= len(p.rows) {
		return fmt.Errorf("country row out of range: %d", i)
	}
	p.rows[i].Checked = checked
	p.changed()
	return nil
}

func (p *Picker) indexOf(code string) int {
	for i, r := range p.rows {
		if r.Code == code {
			return i
		}
	}
	return -1
}

// Checked returns the checked codes in list order.
func (p *Picker) Checked() []string {
	out := []string{}
	for _, r := range p.rows {
		if r.Checked {
			out = append(out, r.Code)
		}
	}
	return out
}

func (p *Picker) Summary() Summary {
	return Summary{
		Chips:        append([]string{}, p.summary.Chips...),
		HasSelection: p.summary.HasSelection,
	}
}

func (p *Picker) HasSelection() bool { return p.summary.HasSelection }

func (p *Picker) changed() {
	p.recompute()
	s := p.Summary()
	for _, fn := range p.listeners {
		fn(s)
	}
}

// recompute derives the summary from the rows; nothing else is kept between changes.
func (p *Picker) recompute() {
	chips := []string{}
	n := 0
	for _, r := range p.rows {
		if !r.Checked {
			continue
		}
		n++
		if n <= MaxChips {
			chips = append(chips, r.DisplayName)
		}
	}
	if n > MaxChips {
		chips = append(chips, fmt.Sprintf("+ %d others", n-MaxChips))
	}
	p.summary = Summary{Chips: chips, HasSelection: n > 0}
}

func (p *Picker) IsOpen() bool { return p.open }

// ToggleOpen is the trigger's action.
func (p *Picker) ToggleOpen() { p.open = !p.open }

func (p *Picker) Open() { p.open = true }

func (p *Picker) Close() { p.open = false }

// ClickOutside handles an interaction that hit neither the trigger nor the list.
func (p *Picker) ClickOutside() { p.open = false }
