package store

import (
	"os"
	"path/filepath"
)

// Store is the local directory holding editor-side state (preferences, the
// optional country name cache). It never holds law edits.
type Store struct {
	Dir string
}

// Default returns the store rooted at the config dir.
func Default() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}
