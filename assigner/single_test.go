package assigner

import (
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSingle(t *testing.T, m map[string]string) (*SinglePortStrategy, *fakeclock.FakeClock) {
	clk := fakeclock.NewFakeClock(time.Date(2016, 6, 1, 12, 0, 0, 0, time.UTC))
	s, err := NewSinglePortStrategy(params.New(m), clk)
	require.NoError(t, err)
	return s, clk
}

func TestSinglePortExclusive(t *testing.T) {
	s, clk := newSingle(t, map[string]string{params.ListenPort: "9090"})
	assert.Equal(t, uint16(9090), s.Port())
	assert.False(t, s.Shared())

	a, created, err := s.Assign("A")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []uint16{9090}, a.Ports)
	assert.Equal(t, params.PortModeSingle, a.Mode)
	assert.Equal(t, clk.Now(), a.AssignedAt)

	_, _, err = s.Assign("B")
	require.Error(t, err)
	assert.True(t, errors.IsErrAllocationExhausted(err))
	_, ok := s.Lookup("B")
	assert.False(t, ok)

	_, err = s.Release("A")
	require.NoError(t, err)

	clk.Increment(time.Minute)
	b, created, err := s.Assign("B")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint16(9090), b.Port())
	assert.Equal(t, clk.Now(), b.AssignedAt)
}

func TestSinglePortReassignIsIdempotent(t *testing.T) {
	s, clk := newSingle(t, map[string]string{params.ListenPort: "9090"})

	first, _, err := s.Assign("A")
	require.NoError(t, err)

	clk.Increment(time.Hour)
	again, created, err := s.Assign("A")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again)
	assert.Len(t, s.List(), 1)
}

func TestSinglePortShared(t *testing.T) {
	s, _ := newSingle(t, map[string]string{
		params.ListenPort:       "9090",
		params.ListenPortShared: "true",
	})
	assert.True(t, s.Shared())

	for _, id := range []string{"A", "B", "C"} {
		a, _, err := s.Assign(id)
		require.NoError(t, err)
		assert.Equal(t, uint16(9090), a.Port())
	}

	// the port stays held until its last holder lets go
	_, err := s.Release("A")
	require.NoError(t, err)
	_, err = s.Release("B")
	require.NoError(t, err)
	s.mu.RLock()
	assert.True(t, s.isHeld(9090))
	s.mu.RUnlock()

	_, err = s.Release("C")
	require.NoError(t, err)
	s.mu.RLock()
	assert.False(t, s.isHeld(9090))
	s.mu.RUnlock()
}

func TestSinglePortDefaults(t *testing.T) {
	s, _ := newSingle(t, nil)
	assert.Equal(t, params.DefaultListenPort, s.Port())
	assert.Equal(t, params.DefaultListenPortShared, s.Shared())
}

func TestSinglePortConfiguration(t *testing.T) {
	for _, m := range []map[string]string{
		{params.ListenPort: "0"},
		{params.ListenPort: "http"},
		{params.ListenPort: "65536"},
		{params.ListenPortShared: "maybe"},
	} {
		_, err := NewSinglePortStrategy(params.New(m), nil)
		require.Error(t, err, "%v", m)
		assert.True(t, errors.IsErrConfiguration(err), "%v", err)
	}
}

func TestSinglePortInvalidTask(t *testing.T) {
	s, _ := newSingle(t, nil)

	for _, id := range []string{"", "  ", "\t"} {
		_, _, err := s.Assign(id)
		assert.True(t, errors.IsErrInvalidTask(err))
		_, err = s.Release(id)
		assert.True(t, errors.IsErrInvalidTask(err))
	}
	assert.Empty(t, s.List())
}
