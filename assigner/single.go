package assigner

import (
	"strconv"

	"code.cloudfoundry.org/clock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
)

var _ Strategy = &SinglePortStrategy{}

// SinglePortStrategy hands the same fixed port to tasks. Unless shared, the
// port has at most one holder at a time.
type SinglePortStrategy struct {
	*ledger
	port   uint16
	shared bool
}

// NewSinglePortStrategy builds a SinglePortStrategy from listen_port and
// listen_port_shared.
func NewSinglePortStrategy(p params.Parameters, clk clock.Clock) (*SinglePortStrategy, error) {
	port, err := p.GetUint16(params.ListenPort, params.DefaultListenPort)
	if err != nil {
		return nil, configError(err)
	}
	if port == 0 {
		return nil, errors.ErrConfiguration(params.ListenPort, strconv.Itoa(int(port)), "port 0 cannot be assigned")
	}
	shared, err := p.GetBool(params.ListenPortShared, params.DefaultListenPortShared)
	if err != nil {
		return nil, configError(err)
	}

	return &SinglePortStrategy{
		ledger: newLedger(params.PortModeSingle, clk),
		port:   port,
		shared: shared,
	}, nil
}

// Mode implements Strategy.
func (s *SinglePortStrategy) Mode() params.PortMode {
	return params.PortModeSingle
}

// Port returns the fixed port.
func (s *SinglePortStrategy) Port() uint16 {
	return s.port
}

// Shared reports whether all tasks may hold the port at once.
func (s *SinglePortStrategy) Shared() bool {
	return s.shared
}

// Assign implements Strategy.
func (s *SinglePortStrategy) Assign(taskID string) (*PortAssignment, bool, error) {
	return s.assign(taskID, func() ([]uint16, error) {
		if !s.shared && s.isHeld(s.port) {
			return nil, errors.ErrAllocationExhausted(s.Mode().String(), "port %d is held by another task", s.port)
		}
		return []uint16{s.port}, nil
	})
}

// Release implements Strategy.
func (s *SinglePortStrategy) Release(taskID string) (*PortAssignment, error) {
	return s.release(taskID)
}

// Lookup implements Strategy.
func (s *SinglePortStrategy) Lookup(taskID string) (*PortAssignment, bool) {
	return s.lookup(taskID)
}

// List implements Strategy.
func (s *SinglePortStrategy) List() []*PortAssignment {
	return s.list()
}
