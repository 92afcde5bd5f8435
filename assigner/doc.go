// Package assigner hands out listen ports to the metrics endpoints of tasks.
//
// A process has exactly one InputAssigner, obtained through Get. The first
// call builds it from the supplied parameters and every later call returns
// that same instance, ignoring whatever parameters it is given. The mode the
// assigner runs in is chosen once, when it is built:
//
//   - single: every task is given the same fixed port. By default only one
//     task may hold it at a time; with listen_port_shared it is handed to all
//     of them.
//   - ephemeral: the operating system picks a fresh port for each task.
//   - range: the lowest free port of a configured inclusive range is used.
//
// An unrecognized mode is a broken deployment rather than a runtime
// condition, so Get terminates the process when it sees one. New returns the
// same failure as an error for callers that build their own assigner.
//
// Each strategy owns the record of which task holds which port and guards it
// with its own lock. Assignments and releases are serialized per strategy,
// lookups may run in parallel with each other.
package assigner
