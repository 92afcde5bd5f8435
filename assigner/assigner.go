package assigner

import (
	"sync"

	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
	events "github.com/docker/go-events"
)

// watchBuffer is the channel size handed to each watcher. A queue sits in
// front of it, so slow watchers never hold up assignments.
const watchBuffer = 32

// Action identifies what happened to an assignment.
type Action int

const (
	// ActionAssign is published when a task is given a new assignment.
	ActionAssign Action = iota + 1
	// ActionRelease is published when a task's assignment is released.
	ActionRelease
)

func (a Action) String() string {
	switch a {
	case ActionAssign:
		return "assign"
	case ActionRelease:
		return "release"
	}
	return "unknown"
}

// Event is the payload sent to watchers.
type Event struct {
	Action     Action
	Assignment *PortAssignment
}

// InputAssigner is the mode-agnostic front of a Strategy. It is what the rest
// of the process talks to when a task needs a port.
type InputAssigner struct {
	// mu orders changes to the strategy with the events that report them, so
	// watchers never see a task's release before its assign.
	mu        sync.Mutex
	strategy  Strategy
	broadcast *events.Broadcaster
}

// NewInputAssigner wraps s. The strategy is never replaced afterwards.
func NewInputAssigner(s Strategy) *InputAssigner {
	return &InputAssigner{
		strategy:  s,
		broadcast: events.NewBroadcaster(),
	}
}

// Mode returns the mode the assigner was built with.
func (a *InputAssigner) Mode() params.PortMode {
	return a.strategy.Mode()
}

// Strategy returns the strategy the assigner delegates to.
func (a *InputAssigner) Strategy() Strategy {
	return a.strategy
}

// AssignPort gives taskID a port, or returns the one it already holds. It
// fails with ErrInvalidTask for an empty ID and ErrAllocationExhausted when
// the mode has no port left.
func (a *InputAssigner) AssignPort(taskID string) (*PortAssignment, error) {
	mode := a.strategy.Mode().String()

	a.mu.Lock()
	defer a.mu.Unlock()

	pa, created, err := a.strategy.Assign(taskID)
	if err != nil {
		switch {
		case errors.IsErrInvalidTask(err):
			assignmentsCounter.WithValues(mode, resultInvalidTask).Inc()
		case errors.IsErrAllocationExhausted(err):
			assignmentsCounter.WithValues(mode, resultExhausted).Inc()
		}
		return nil, err
	}

	assignmentsCounter.WithValues(mode, resultSuccess).Inc()
	if created {
		assignedGauge.Inc()
		a.publish(ActionAssign, pa)
	}
	return pa, nil
}

// Release frees the port held by taskID. It returns ErrNotFound if the task
// holds none, leaving every other assignment untouched.
func (a *InputAssigner) Release(taskID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	pa, err := a.strategy.Release(taskID)
	if err != nil {
		return err
	}
	releasesCounter.Inc()
	assignedGauge.Dec()
	a.publish(ActionRelease, pa)
	return nil
}

// CurrentAssignment returns the assignment held by taskID, if any.
func (a *InputAssigner) CurrentAssignment(taskID string) (*PortAssignment, bool) {
	return a.strategy.Lookup(taskID)
}

// Assignments returns a snapshot of all current assignments, ordered by task
// ID.
func (a *InputAssigner) Assignments() []*PortAssignment {
	return a.strategy.List()
}

// Watch returns a channel of Events for assignments and releases made from
// now on, and a function that stops the watch. The channel is not closed by
// the cancel function.
func (a *InputAssigner) Watch() (<-chan events.Event, func()) {
	ch := events.NewChannel(watchBuffer)
	q := events.NewQueue(ch)
	// Add only fails once the broadcaster is closed, which never happens
	// for a live assigner.
	_ = a.broadcast.Add(q)

	return ch.C, func() {
		_ = a.broadcast.Remove(q)
		// closing the channel first unblocks a queue stuck writing to it
		ch.Close()
		q.Close()
	}
}

func (a *InputAssigner) publish(action Action, pa *PortAssignment) {
	_ = a.broadcast.Write(Event{Action: action, Assignment: pa.Copy()})
}
