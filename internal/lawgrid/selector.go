package lawgrid

import (
	"fmt"

	"country-editor/internal/model"
)

// Option is one choice of a selector as it is presented.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// Visual is what a selector paints behind its label. An empty Background means
// no image (missing or broken references are not errors).
type Visual struct {
	Background string `json:"background"`
}

// Change is delivered to observers after a selector's value changed.
type Change struct {
	SelectorID string
	Previous   string
	Value      string
	Image      string
}

type observer struct {
	id int
	fn func(Change)
}

// Selector is a single law-group control: a fixed option list, a current value,
// and a visual kept in sync with that value.
//
// Selectors are owned by the goroutine driving the grid and are not safe for
// concurrent use.
type Selector struct {
	id      string
	options []Option
	index   map[string]int
	current int
	visual  Visual

	observers []observer
	nextObsID int
	closed    bool
}

// NewSelector builds a selector over options, in map order. The first key is
// the initial value and its image is already applied when NewSelector returns.
func NewSelector(id string, options model.OptionImageMap) (*Selector, error) {
	if options.Len() == 0 {
		return nil, fmt.Errorf("selector %s: %w", id, ErrEmptyOptions)
	}
	s := &Selector{
		id:    id,
		index: make(map[string]int, options.Len()),
	}
	for _, e := range options.Entries() {
		s.index[e.Key] = len(s.options)
		s.options = append(s.options, Option{Key: e.Key, Label: PrettyName(e.Key), Image: e.Image})
	}

	// Visual sync is the first observer so every other subscriber already sees
	// the new background.
	s.Subscribe(func(c Change) {
		s.visual = Visual{Background: c.Image}
	})
	first := s.options[0]
	s.notify(Change{SelectorID: id, Value: first.Key, Image: first.Image})
	return s, nil
}

func (s *Selector) ID() string { return s.id }

func (s *Selector) Value() string { return s.options[s.current].Key }

// Label is the pretty name of the current value.
func (s *Selector) Label() string { return s.options[s.current].Label }

// Title is the pretty name of the selector itself (its law group).
func (s *Selector) Title() string { return PrettyName(s.id) }

func (s *Selector) Visual() Visual { return s.visual }

func (s *Selector) Index() int { return s.current }

func (s *Selector) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

func (s *Selector) Closed() bool { return s.closed }

// SetValue selects key. Selecting the current value again is a no-op and does
// not notify observers.
func (s *Selector) SetValue(key string) error {
	i, ok := s.index[key]
	if !ok {
		return fmt.Errorf("selector %s: %w: %q", s.id, ErrUnknownOption, key)
	}
	s.selectIndex(i)
	return nil
}

// Next cycles forward through the options, wrapping around.
func (s *Selector) Next() { s.selectIndex((s.current + 1) % len(s.options)) }

// Prev cycles backward through the options, wrapping around.
func (s *Selector) Prev() { s.selectIndex((s.current - 1 + len(s.options)) % len(s.options)) }

func (s *Selector) selectIndex(i int) {
	if s.closed || i == s.current {
		return
	}
	prev := s.options[s.current].Key
	s.current = i
	opt := s.options[i]
	s.notify(Change{SelectorID: s.id, Previous: prev, Value: opt.Key, Image: opt.Image})
}

// Subscribe registers fn for value changes and returns a function that removes it.
func (s *Selector) Subscribe(fn func(Change)) (unsubscribe func()) {
	if s.closed || fn == nil {
		return func() {}
	}
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Selector) notify(c Change) {
	// Observers may unsubscribe while being notified.
	obs := append([]observer(nil), s.observers...)
	for _, o := range obs {
		o.fn(c)
	}
}

// Close detaches every observer. A closed selector keeps its last value but
// ignores further changes.
func (s *Selector) Close() {
	s.closed = true
	s.observers = nil
}
