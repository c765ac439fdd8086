// Package upload implements the select-validate-submit workflow shared by every
// page: one selection, one outbound request, and a lifecycle that moves from Idle
// through Pending to Succeeded or Failed.
package upload

import "fmt"

// State is a position in the submission lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

var stateNames = [...]string{"idle", "pending", "succeeded", "failed"}

func (s State) String() string {
	if s < Idle || s > Failed {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Settled reports whether the state ends a submission.
func (s State) Settled() bool {
	return s == Succeeded || s == Failed
}

// MarshalText encodes the state by name so JSON views read "pending" rather than 1.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if string(text) == name {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}
