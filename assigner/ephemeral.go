package assigner

import (
	"net"

	"code.cloudfoundry.org/clock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/log"
	"github.com/dcos/portassign/params"
)

// maxEphemeralAttempts bounds how many times the operating system is asked
// for a port before giving up on a single assignment.
const maxEphemeralAttempts = 64

// PortProbe asks the operating system for a currently unused port on iface.
type PortProbe func(iface string) (uint16, error)

// ListenProbe binds a TCP listener to port 0 on iface, reads back the port the
// kernel picked and closes the listener again.
func ListenProbe(iface string) (uint16, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(iface, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return uint16(l.Addr().(*net.TCPAddr).Port), nil
}

var _ Strategy = &EphemeralPortStrategy{}

// EphemeralPortStrategy gives each task a port chosen by the operating
// system, skipping ports it already handed to another task.
type EphemeralPortStrategy struct {
	*ledger
	iface string
	probe PortProbe
}

// NewEphemeralPortStrategy builds an EphemeralPortStrategy that probes on
// listen_interface. A nil probe means ListenProbe.
func NewEphemeralPortStrategy(p params.Parameters, clk clock.Clock, probe PortProbe) (*EphemeralPortStrategy, error) {
	if probe == nil {
		probe = ListenProbe
	}
	return &EphemeralPortStrategy{
		ledger: newLedger(params.PortModeEphemeral, clk),
		iface:  p.GetString(params.ListenInterface, params.DefaultListenInterface),
		probe:  probe,
	}, nil
}

// Mode implements Strategy.
func (s *EphemeralPortStrategy) Mode() params.PortMode {
	return params.PortModeEphemeral
}

// Interface returns the address ports are probed on.
func (s *EphemeralPortStrategy) Interface() string {
	return s.iface
}

// Assign implements Strategy.
func (s *EphemeralPortStrategy) Assign(taskID string) (*PortAssignment, bool, error) {
	return s.assign(taskID, func() ([]uint16, error) {
		logger := log.L.WithField("module", "assigner").WithField("task.id", taskID)
		for attempt := 1; attempt <= maxEphemeralAttempts; attempt++ {
			port, err := s.probe(s.iface)
			if err != nil {
				return nil, errors.ErrAllocationExhausted(s.Mode().String(), "failed to obtain a port on %v: %v", s.iface, err)
			}
			if port == 0 || s.isHeld(port) {
				logger.WithField("port", port).Debugf("ephemeral port already held, retrying (attempt %d)", attempt)
				continue
			}
			return []uint16{port}, nil
		}
		return nil, errors.ErrAllocationExhausted(s.Mode().String(), "no unheld port on %v after %d attempts", s.iface, maxEphemeralAttempts)
	})
}

// Release implements Strategy.
func (s *EphemeralPortStrategy) Release(taskID string) (*PortAssignment, error) {
	return s.release(taskID)
}

// Lookup implements Strategy.
func (s *EphemeralPortStrategy) Lookup(taskID string) (*PortAssignment, bool) {
	return s.lookup(taskID)
}

// List implements Strategy.
func (s *EphemeralPortStrategy) List() []*PortAssignment {
	return s.list()
}
