// Package formstate tracks the intake form of each kiosk so that a double
// click cannot submit the same household twice.
package formstate

import (
	"errors"
	"sync"
)

// State of a kiosk form.
type State int

const (
	Idle State = iota
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return "idle"
	}
}

var (
	// ErrBusy is returned by Begin while a submission is in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrNotSubmitting is returned by Succeed and Fail outside a submission.
	ErrNotSubmitting = errors.New("no submission in progress")
)

// Machine is the state of one kiosk form. The zero value is Idle and
// ready to use.
type Machine struct {
	mu    sync.Mutex
	state State
	// resetRequested is set once a submission succeeded; the next Reset
	// clears the form fields.
	resetRequested bool
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ResetRequested reports whether the form should be cleared.
func (m *Machine) ResetRequested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetRequested
}

// Begin moves Idle or Submitted to Submitting.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.state = Submitting
	m.resetRequested = false
	return nil
}

// Succeed moves Submitting to Submitted and requests a form reset.
func (m *Machine) Succeed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Submitting {
		return ErrNotSubmitting
	}
	m.state = Submitted
	m.resetRequested = true
	return nil
}

// Fail returns Submitting to Idle, keeping the entered fields.
func (m *Machine) Fail() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Submitting {
		return ErrNotSubmitting
	}
	m.state = Idle
	return nil
}

// Reset returns a Submitted form to Idle. It is a no-op in other states.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitted {
		m.state = Idle
		m.resetRequested = false
	}
}
