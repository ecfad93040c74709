package loader

import (
	"fmt"
	"time"
)

type State int

const (
	Idle State = iota
	Loading
	Populating
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Populating:
		return "populating"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Busy reports whether a load is still in progress.
func (s State) Busy() bool { return s == Loading || s == Populating }

// Event describes one state transition.
type Event struct {
	Generation uint64
	From       State
	To         State
	Err        error
	At         time.Time
}

// Observer receives state transitions. It is called synchronously on the
// goroutine that made the transition.
type Observer interface {
	OnTransition(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnTransition(e Event) {
	if f != nil {
		f(e)
	}
}

type noopObserver struct{}

func (noopObserver) OnTransition(Event) {}
