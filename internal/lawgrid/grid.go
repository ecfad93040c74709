package lawgrid

import (
	"encoding/json"
	"math"

	"country-editor/internal/model"
)

// Columns is the fixed number of lanes selectors are distributed into.
const Columns = 3

// Grid is the column-major view of the selectors. The array type keeps the
// column count fixed; a column may be empty but never absent.
type Grid [Columns][]*Selector

// ColumnFor reduces any logical column number into [0, Columns).
func ColumnFor(c int) int {
	return ((c % Columns) + Columns) % Columns
}

// GridStore owns the selectors of one editor page.
//
// Like the selectors it holds, a GridStore belongs to a single goroutine.
type GridStore struct {
	grid Grid
	byID map[string]*Selector
}

func NewGridStore() *GridStore {
	s := &GridStore{}
	s.reset()
	return s
}

func (s *GridStore) reset() {
	for i := range s.grid {
		s.grid[i] = []*Selector{}
	}
	s.byID = map[string]*Selector{}
}

// Append builds a selector for id and adds it to the end of column mod 3.
func (s *GridStore) Append(id string, options model.OptionImageMap, column int) (*Selector, error) {
	sel, err := NewSelector(id, options)
	if err != nil {
		return nil, err
	}
	c := ColumnFor(column)
	s.grid[c] = append(s.grid[c], sel)
	s.byID[id] = sel
	return sel, nil
}

// AppendColumn is Append for column values decoded from JSON. Anything that is
// not an integral number fails with ErrInvalidColumnIndex before a selector
// is built.
func (s *GridStore) AppendColumn(id string, options model.OptionImageMap, column any) (*Selector, error) {
	c, ok := columnInt(column)
	if !ok {
		return nil, &ColumnIndexError{SelectorID: id, Value: column}
	}
	return s.Append(id, options, c)
}

func columnInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		if t > math.MaxInt32 || t < math.MinInt32 {
			// Reduce before converting so huge values still land on a column.
			return int(math.Mod(t, Columns)), true
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n % Columns), true
	default:
		return 0, false
	}
}

// Clear closes every selector and starts over with fresh, empty columns. The
// returned grid is the new (empty) state.
func (s *GridStore) Clear() Grid {
	for _, col := range s.grid {
		for _, sel := range col {
			sel.Close()
		}
	}
	s.reset()
	return s.Grid()
}

// Grid returns a copy of the column slices; the selectors are shared.
func (s *GridStore) Grid() Grid {
	var g Grid
	for i, col := range s.grid {
		g[i] = append([]*Selector{}, col...)
	}
	return g
}

func (s *GridStore) Column(c int) []*Selector {
	return append([]*Selector{}, s.grid[ColumnFor(c)]...)
}

// Lookup finds a live selector by id. Ids are expected to be unique; with
// duplicates the most recently appended selector wins.
func (s *GridStore) Lookup(id string) (*Selector, bool) {
	sel, ok := s.byID[id]
	return sel, ok
}

func (s *GridStore) Len() int {
	n := 0
	for _, col := range s.grid {
		n += len(col)
	}
	return n
}

func (s *GridStore) Snapshot() Snapshot { return Extract(s.grid) }
