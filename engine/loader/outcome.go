package loader

import (
	"slices"

	"github.com/spaghettifunk/anima-io/engine/core"
)

// State tags an Outcome. Pending is the only non-terminal state.
type State uint8

const (
	StatePending State = iota
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateFailure
}

// Outcome is the result of fetching one resource. A zero-length Success is
// a resolved resource, never a pending one.
type Outcome struct {
	State State
	Data  []byte
	Err   error
}

func Pending() Outcome {
	return Outcome{State: StatePending}
}

func Success(data []byte) Outcome {
	if data == nil {
		data = []byte{}
	}
	return Outcome{State: StateSuccess, Data: data}
}

func Failure(err error) Outcome {
	if err == nil {
		err = core.ErrUnknown
	}
	return Outcome{State: StateFailure, Err: err}
}

// Loaded maps every requested resource identifier to its outcome. The map
// handed to a completion callback contains only terminal outcomes.
type Loaded map[string]Outcome

// IDs returns the identifiers in lexical order.
func (l Loaded) IDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Failed returns the error of every failed resource.
func (l Loaded) Failed() map[string]error {
	failed := make(map[string]error)
	for id, o := range l {
		if o.State == StateFailure {
			failed[id] = o.Err
		}
	}
	return failed
}

// Resolved counts the terminal entries.
func (l Loaded) Resolved() int {
	n := 0
	for _, o := range l {
		if o.State.IsTerminal() {
			n++
		}
	}
	return n
}

func (l Loaded) TotalBytes() uint64 {
	var n uint64
	for _, o := range l {
		if o.State == StateSuccess {
			n += uint64(len(o.Data))
		}
	}
	return n
}
