package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"country-editor/internal/lawgrid"
)

const uiStateFileName = "ui_state.json"

// UIState remembers small bits of the editor screen between launches.
//
// Best effort: callers should tolerate missing or invalid data.
type UIState struct {
	Version int `json:"version"`

	// FocusColumn is the grid column that had focus, 0..2.
	FocusColumn int `json:"focusColumn"`

	ShowHelp bool `json:"showHelp,omitempty"`
}

func (s Store) LoadUIState() (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.path(uiStateFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	st.FocusColumn = lawgrid.ColumnFor(st.FocusColumn)
	return &st, nil
}

func (s Store) SaveUIState(st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, uiStateFileName+".*.tmp", s.path(uiStateFileName), b, 0o644)
}
