package assigner

import (
	"code.cloudfoundry.org/clock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
)

var _ Strategy = &PortRangeStrategy{}

// PortRangeStrategy hands out ports from an inclusive range, always picking
// the lowest one not currently held.
type PortRangeStrategy struct {
	*ledger
	start, end uint16
}

// NewPortRangeStrategy builds a PortRangeStrategy from listen_port_range, or
// from listen_port_range_start and listen_port_range_end.
func NewPortRangeStrategy(p params.Parameters, clk clock.Clock) (*PortRangeStrategy, error) {
	start, end, err := p.PortRange()
	if err != nil {
		return nil, configError(err)
	}
	return &PortRangeStrategy{
		ledger: newLedger(params.PortModeRange, clk),
		start:  start,
		end:    end,
	}, nil
}

// Mode implements Strategy.
func (s *PortRangeStrategy) Mode() params.PortMode {
	return params.PortModeRange
}

// Bounds returns the inclusive range the strategy assigns from.
func (s *PortRangeStrategy) Bounds() (start, end uint16) {
	return s.start, s.end
}

// Size returns the number of ports in the range.
func (s *PortRangeStrategy) Size() int {
	return int(s.end) - int(s.start) + 1
}

// Assign implements Strategy.
func (s *PortRangeStrategy) Assign(taskID string) (*PortAssignment, bool, error) {
	return s.assign(taskID, func() ([]uint16, error) {
		// int keeps the loop from wrapping when end is 65535
		for p := int(s.start); p <= int(s.end); p++ {
			if !s.isHeld(uint16(p)) {
				return []uint16{uint16(p)}, nil
			}
		}
		return nil, errors.ErrAllocationExhausted(s.Mode().String(), "all %d ports in %d-%d are held", s.Size(), s.start, s.end)
	})
}

// Release implements Strategy.
func (s *PortRangeStrategy) Release(taskID string) (*PortAssignment, error) {
	return s.release(taskID)
}

// Lookup implements Strategy.
func (s *PortRangeStrategy) Lookup(taskID string) (*PortAssignment, bool) {
	return s.lookup(taskID)
}

// List implements Strategy.
func (s *PortRangeStrategy) List() []*PortAssignment {
	return s.list()
}
