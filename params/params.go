// Package params holds the configuration bundle the port assigner is built
// from. A bundle is an immutable set of string key/value pairs, usually read
// from a YAML file and overridden from the command line.
package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
)

// Parameter keys understood by the assigner.
const (
	ListenPortMode       = "listen_port_mode"
	ListenInterface      = "listen_interface"
	ListenPort           = "listen_port"
	ListenPortShared     = "listen_port_shared"
	ListenPortRangeStart = "listen_port_range_start"
	ListenPortRangeEnd   = "listen_port_range_end"
	ListenPortRange      = "listen_port_range"
)

// Defaults applied when a key is absent.
const (
	DefaultListenPortMode       = "ephemeral"
	DefaultListenInterface      = "127.0.0.1"
	DefaultListenPort           = uint16(8125)
	DefaultListenPortShared     = false
	DefaultListenPortRangeStart = uint16(26000)
	DefaultListenPortRangeEnd   = uint16(27000)
)

// Keys lists every known key in a stable order.
var Keys = []string{
	ListenPortMode,
	ListenInterface,
	ListenPort,
	ListenPortShared,
	ListenPortRangeStart,
	ListenPortRangeEnd,
	ListenPortRange,
}

// ValueError reports a parameter whose value could not be interpreted.
type ValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %v", e.Key, e.Value, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *ValueError) Unwrap() error {
	return e.Err
}

// Parameters is an immutable configuration bundle. The zero value is an empty
// bundle.
type Parameters struct {
	m map[string]string
}

// New copies m into a new bundle.
func New(m map[string]string) Parameters {
	p := Parameters{m: make(map[string]string, len(m))}
	for k, v := range m {
		p.m[k] = v
	}
	return p
}

// Lookup returns the raw value of key and whether it was set.
func (p Parameters) Lookup(key string) (string, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Len returns the number of keys in the bundle.
func (p Parameters) Len() int {
	return len(p.m)
}

// Map returns a copy of the bundle's contents.
func (p Parameters) Map() map[string]string {
	m := make(map[string]string, len(p.m))
	for k, v := range p.m {
		m[k] = v
	}
	return m
}

// With returns a new bundle with key set to value.
func (p Parameters) With(key, value string) Parameters {
	n := New(p.m)
	n.m[key] = value
	return n
}

// Equal reports whether both bundles hold the same keys and values.
func (p Parameters) Equal(o Parameters) bool {
	if len(p.m) != len(o.m) {
		return false
	}
	for k, v := range p.m {
		if ov, ok := o.m[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the bundle with keys sorted, for log lines.
func (p Parameters) String() string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%q", k, p.m[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// GetString returns the value of key, or def if it is absent.
func (p Parameters) GetString(key, def string) string {
	if v, ok := p.m[key]; ok {
		return v
	}
	return def
}

// GetUint16 parses the value of key as a port-sized integer.
func (p Parameters) GetUint16(key string, def uint16) (uint16, error) {
	v, ok := p.m[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
	if err != nil {
		return 0, &ValueError{Key: key, Value: v, Err: errors.Wrap(err, "not a port number")}
	}
	return uint16(n), nil
}

// GetBool parses the value of key as a boolean.
func (p Parameters) GetBool(key string, def bool) (bool, error) {
	v, ok := p.m[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, &ValueError{Key: key, Value: v, Err: errors.Wrap(err, "not a boolean")}
	}
	return b, nil
}

// PortRange returns the inclusive bounds configured for range mode. The
// "lo-hi" shorthand takes precedence over the separate start and end keys.
func (p Parameters) PortRange() (start, end uint16, err error) {
	if v, ok := p.m[ListenPortRange]; ok {
		lo, hi, err := nat.ParsePortRange(strings.TrimSpace(v))
		if err != nil {
			return 0, 0, &ValueError{Key: ListenPortRange, Value: v, Err: err}
		}
		start, end = uint16(lo), uint16(hi)
	} else {
		if start, err = p.GetUint16(ListenPortRangeStart, DefaultListenPortRangeStart); err != nil {
			return 0, 0, err
		}
		if end, err = p.GetUint16(ListenPortRangeEnd, DefaultListenPortRangeEnd); err != nil {
			return 0, 0, err
		}
	}

	if start == 0 {
		return 0, 0, &ValueError{
			Key:   ListenPortRangeStart,
			Value: strconv.Itoa(int(start)),
			Err:   errors.New("port 0 cannot be assigned"),
		}
	}
	if start > end {
		return 0, 0, &ValueError{
			Key:   ListenPortRange,
			Value: fmt.Sprintf("%d-%d", start, end),
			Err:   errors.New("range start is greater than range end"),
		}
	}
	return start, end, nil
}
