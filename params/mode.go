package params

import "strings"

// PortMode selects how listen ports are handed out for the lifetime of the
// process.
type PortMode int

const (
	// PortModeUnknown is never the mode of a live assigner; it marks a
	// selector value that could not be recognized.
	PortModeUnknown PortMode = iota
	// PortModeSingle hands the same fixed port to tasks.
	PortModeSingle
	// PortModeEphemeral asks the operating system for a fresh port per task.
	PortModeEphemeral
	// PortModeRange hands out the lowest free port of a configured range.
	PortModeRange
)

var portModeNames = map[PortMode]string{
	PortModeUnknown:   "unknown",
	PortModeSingle:    "single",
	PortModeEphemeral: "ephemeral",
	PortModeRange:     "range",
}

func (m PortMode) String() string {
	if s, ok := portModeNames[m]; ok {
		return s
	}
	return portModeNames[PortModeUnknown]
}

// ParsePortMode maps a selector token to its PortMode. Matching ignores case
// and surrounding whitespace; anything unrecognized is PortModeUnknown.
func ParsePortMode(s string) PortMode {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range portModeNames {
		if mode != PortModeUnknown && name == s {
			return mode
		}
	}
	return PortModeUnknown
}
