// Package status holds the order lifecycle state machine.
package status

import "fmt"

type Status string

const (
	Pending   Status = "pending"
	Preparing Status = "preparing"
	Ready     Status = "ready"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
)

// transitions is the full set of legal edges. Terminal states have no
// outgoing edges, so a completed or cancelled order can never change again.
var transitions = map[Status][]Status{
	Pending:   {Preparing, Cancelled},
	Preparing: {Ready, Cancelled},
	Ready:     {Completed, Cancelled},
	Completed: {},
	Cancelled: {},
}

func Valid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

func Terminal(s Status) bool {
	edges, ok := transitions[s]
	return ok && len(edges) == 0
}

// Transition reports whether from -> to is a legal edge.
func Transition(from, to Status) error {
	if !Valid(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("illegal status transition %s -> %s", from, to)
}
