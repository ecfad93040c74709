// Package loader drives a page load: fetch the default state, rebuild the grid
// from it, resolve country names in order, and hand the result to the picker.
//
// Network work (FetchState, ResolveNames) may run on any goroutine. Every step
// that mutates the grid or the picker (Begin, Populate, Finish, Fail) must run
// on the goroutine that owns them; Load does all of it on the caller's.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"country-editor/internal/countrypicker"
	"country-editor/internal/lawgrid"
	"country-editor/internal/model"

	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned when a newer load started while this one was in flight.
var ErrSuperseded = errors.New("load superseded by a newer load")

// Source is the remote side of a load.
type Source interface {
	DefaultState(ctx context.Context) (model.DefaultState, error)
	NameResolver
}

type NameResolver interface {
	CountryName(ctx context.Context, code string) (string, error)
}

type Loader struct {
	src         Source
	names       NameResolver
	grid        *lawgrid.GridStore
	picker      *countrypicker.Picker
	concurrency int
	observer    Observer
	now         func() time.Time

	mu    sync.Mutex
	state State
	gen   uint64
	err   error
}

type Option func(*Loader)

// WithConcurrency bounds how many name lookups are in flight at once. 1 (the
// default) resolves strictly one after another.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithNameResolver resolves country names through r instead of the source.
func WithNameResolver(r NameResolver) Option {
	return func(l *Loader) {
		if r != nil {
			l.names = r
		}
	}
}

func WithObserver(o Observer) Option {
	return func(l *Loader) {
		if o != nil {
			l.observer = o
		}
	}
}

func New(src Source, grid *lawgrid.GridStore, picker *countrypicker.Picker, opts ...Option) *Loader {
	l := &Loader{
		src:         src,
		names:       src,
		grid:        grid,
		picker:      picker,
		concurrency: 1,
		observer:    noopObserver{},
		now:         time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Result is what a finished load produced.
type Result struct {
	Generation uint64                `json:"generation"`
	State      State                 `json:"state"`
	Columns    lawgrid.Snapshot      `json:"columns"`
	Countries  []model.CountryEntry  `json:"countries"`
	Summary    countrypicker.Summary `json:"summary"`
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err is the error that moved the loader into Failed, if any.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Load runs a complete load on the calling goroutine.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	gen := l.Begin()

	st, err := l.FetchState(ctx)
	if err != nil {
		return Result{}, l.Fail(gen, err)
	}
	if err := l.Populate(gen, st); err != nil {
		return Result{}, err
	}
	pairs, err := l.ResolveNames(ctx, st.Countries)
	if err != nil {
		return Result{}, l.Fail(gen, err)
	}
	if err := l.Finish(gen, pairs); err != nil {
		return Result{}, err
	}
	return l.Result(), nil
}

// Retry starts a fresh load. It is the recovery path out of Failed and works
// from any state.
func (l *Loader) Retry(ctx context.Context) (Result, error) {
	return l.Load(ctx)
}

// Result reports the current grid and country list.
func (l *Loader) Result() Result {
	var countries []model.CountryEntry
	for _, r := range l.picker.Rows() {
		countries = append(countries, r.CountryEntry)
	}
	if countries == nil {
		countries = []model.CountryEntry{}
	}
	return Result{
		Generation: l.Generation(),
		State:      l.State(),
		Columns:    l.grid.Snapshot(),
		Countries:  countries,
		Summary:    l.picker.Summary(),
	}
}

// Begin starts a new load generation and enters Loading. Results tagged with an
// older generation are discarded from now on.
func (l *Loader) Begin() uint64 {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()
	l.transition(gen, Loading, nil)
	return gen
}

// FetchState requests the default state. It touches no local state.
func (l *Loader) FetchState(ctx context.Context) (model.DefaultState, error) {
	st, err := l.src.DefaultState(ctx)
	if err != nil {
		return model.DefaultState{}, fmt.Errorf("fetch default state: %w", err)
	}
	return st, nil
}

// Populate clears the grid and appends every law group in document order.
// A group that cannot be placed fails the load; groups appended before it
// stay on the grid.
func (l *Loader) Populate(gen uint64, st model.DefaultState) error {
	if !l.current(gen) {
		return ErrSuperseded
	}
	l.transition(gen, Populating, nil)

	l.grid.Clear()
	for _, g := range st.Laws {
		if _, err := l.grid.AppendColumn(g.Name, g.Options, g.Column); err != nil {
			return l.Fail(gen, fmt.Errorf("populate grid: %w", err))
		}
	}
	return nil
}

// ResolveNames looks up display names for codes. Lookups may overlap (up to
// the configured concurrency) but the result is always in input order. It
// touches no local state.
func (l *Loader) ResolveNames(ctx context.Context, codes []string) ([]model.CountryEntry, error) {
	out := make([]model.CountryEntry, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, code := range codes {
		g.Go(func() error {
			name, err := l.names.CountryName(gctx, code)
			if err != nil {
				return fmt.Errorf("resolve country %s: %w", code, err)
			}
			out[i] = model.CountryEntry{Code: code, DisplayName: model.DisplayName(code, name)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Finish hands the ordered pairs to the picker and enters Ready.
func (l *Loader) Finish(gen uint64, pairs []model.CountryEntry) error {
	if !l.current(gen) {
		return ErrSuperseded
	}
	l.picker.Populate(pairs)
	l.transition(gen, Ready, nil)
	return nil
}

// Fail records err for gen and enters Failed. Nothing already applied to the
// grid is rolled back. Stale generations are ignored and yield ErrSuperseded.
func (l *Loader) Fail(gen uint64, err error) error {
	if !l.current(gen) {
		return ErrSuperseded
	}
	l.transition(gen, Failed, err)
	return err
}

func (l *Loader) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

func (l *Loader) transition(gen uint64, to State, err error) {
	l.mu.Lock()
	from := l.state
	l.state = to
	l.err = err
	l.mu.Unlock()

	l.observer.OnTransition(Event{
		Generation: gen,
		From:       from,
		To:         to,
		Err:        err,
		At:         l.now(),
	})
}
