package assigner

import (
	"sort"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
)

// PortAssignment binds a task to the port(s) it may listen on.
type PortAssignment struct {
	TaskID     string
	Ports      []uint16
	Mode       params.PortMode
	AssignedAt time.Time
}

// Port returns the first assigned port.
func (a *PortAssignment) Port() uint16 {
	if len(a.Ports) == 0 {
		return 0
	}
	return a.Ports[0]
}

// Copy returns a deep copy of the assignment.
func (a *PortAssignment) Copy() *PortAssignment {
	if a == nil {
		return nil
	}
	c := *a
	c.Ports = append([]uint16(nil), a.Ports...)
	return &c
}

// Strategy is a port allocation policy together with its bookkeeping.
// Implementations must be safe for concurrent use.
type Strategy interface {
	// Mode returns the policy implemented by the strategy.
	Mode() params.PortMode
	// Assign gives taskID a port. If the task already holds one, the existing
	// assignment is returned and created is false.
	Assign(taskID string) (a *PortAssignment, created bool, err error)
	// Release frees the ports held by taskID and returns the assignment that
	// was released.
	Release(taskID string) (*PortAssignment, error)
	// Lookup returns the current assignment of taskID.
	Lookup(taskID string) (*PortAssignment, bool)
	// List returns every current assignment, ordered by task ID.
	List() []*PortAssignment
}

// ledger records which task holds which ports for a single strategy. All of
// its state is guarded by mu; the strategy's pick function runs with mu held
// for writing, so it may consult held directly.
type ledger struct {
	mu     sync.RWMutex
	mode   params.PortMode
	clock  clock.Clock
	byTask map[string]*PortAssignment
	// held counts the holders of each port. Only a shared single port ever
	// has more than one.
	held map[uint16]int
}

func newLedger(mode params.PortMode, clk clock.Clock) *ledger {
	if clk == nil {
		clk = clock.NewClock()
	}
	return &ledger{
		mode:   mode,
		clock:  clk,
		byTask: make(map[string]*PortAssignment),
		held:   make(map[uint16]int),
	}
}

func validateTaskID(taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return errors.ErrInvalidTask(taskID)
	}
	return nil
}

// isHeld must be called with mu held.
func (l *ledger) isHeld(port uint16) bool {
	return l.held[port] > 0
}

func (l *ledger) assign(taskID string, pick func() ([]uint16, error)) (*PortAssignment, bool, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.byTask[taskID]; ok {
		return existing.Copy(), false, nil
	}

	ports, err := pick()
	if err != nil {
		return nil, false, err
	}

	a := &PortAssignment{
		TaskID:     taskID,
		Ports:      ports,
		Mode:       l.mode,
		AssignedAt: l.clock.Now(),
	}
	for _, port := range ports {
		l.held[port]++
	}
	l.byTask[taskID] = a
	return a.Copy(), true, nil
}

func (l *ledger) release(taskID string) (*PortAssignment, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byTask[taskID]
	if !ok {
		return nil, errors.ErrNotFound(taskID)
	}
	for _, port := range a.Ports {
		if l.held[port]--; l.held[port] <= 0 {
			delete(l.held, port)
		}
	}
	delete(l.byTask, taskID)
	return a, nil
}

func (l *ledger) lookup(taskID string) (*PortAssignment, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.byTask[taskID]
	if !ok {
		return nil, false
	}
	return a.Copy(), true
}

func (l *ledger) list() []*PortAssignment {
	l.mu.RLock()
	out := make([]*PortAssignment, 0, len(l.byTask))
	for _, a := range l.byTask {
		out = append(out, a.Copy())
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}
