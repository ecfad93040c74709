package lawgrid

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOptions       = errors.New("selector has no options")
	ErrUnknownOption      = errors.New("unknown option")
	ErrInvalidColumnIndex = errors.New("invalid column index")
)

// ColumnIndexError reports a column value that cannot be used as a grid column.
type ColumnIndexError struct {
	SelectorID string
	Value      any
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("invalid column index for %s: %#v", e.SelectorID, e.Value)
}

func (e *ColumnIndexError) Unwrap() error { return ErrInvalidColumnIndex }
