// Package errors holds the errors returned by the port assigner and its
// strategies. Callers are expected to branch on them with the IsErr
// predicates, so they are passed up unwrapped.
package errors

import "fmt"

type errConfiguration struct {
	param string
	value string
	cause string
}

// ErrConfiguration creates an error indicating that the assigner cannot be
// built from the given parameters. It names the offending parameter and the
// value it was given.
func ErrConfiguration(param, value, cause string, args ...interface{}) error {
	if len(args) != 0 {
		cause = fmt.Sprintf(cause, args...)
	}
	return errConfiguration{param: param, value: value, cause: cause}
}

// Error returns a formatted error message
func (e errConfiguration) Error() string {
	return fmt.Sprintf("invalid %v config value %q: %v", e.param, e.value, e.cause)
}

// IsErrConfiguration returns true if this error is a result of unusable
// configuration
func IsErrConfiguration(e error) bool {
	_, ok := e.(errConfiguration)
	return ok
}

type errAllocationExhausted struct {
	mode  string
	cause string
}

// ErrAllocationExhausted creates an error indicating that no port is
// available under the active mode.
func ErrAllocationExhausted(mode, cause string, args ...interface{}) error {
	if len(args) != 0 {
		return errAllocationExhausted{mode: mode, cause: fmt.Sprintf(cause, args...)}
	}
	return errAllocationExhausted{mode: mode, cause: cause}
}

// Error returns a formatted error message
func (e errAllocationExhausted) Error() string {
	return fmt.Sprintf("%v ports exhausted: %v", e.mode, e.cause)
}

// IsErrAllocationExhausted returns true if this error is a result of there
// being no port left to hand out
func IsErrAllocationExhausted(e error) bool {
	_, ok := e.(errAllocationExhausted)
	return ok
}

type errInvalidTask struct {
	id string
}

// ErrInvalidTask creates an error indicating that a task identifier is empty
// or otherwise unusable.
func ErrInvalidTask(id string) error {
	return errInvalidTask{id: id}
}

// Error returns a formatted error message
func (e errInvalidTask) Error() string {
	return fmt.Sprintf("invalid task id %q", e.id)
}

// IsErrInvalidTask returns true if this error is a result of a malformed task
// identifier
func IsErrInvalidTask(e error) bool {
	_, ok := e.(errInvalidTask)
	return ok
}

type errNotFound struct {
	id string
}

// ErrNotFound creates an error indicating that a task holds no port
// assignment.
func ErrNotFound(id string) error {
	return errNotFound{id: id}
}

// Error returns a formatted error message
func (e errNotFound) Error() string {
	return fmt.Sprintf("task %v has no port assignment", e.id)
}

// IsErrNotFound returns true if this error is a result of looking up a task
// that has no assignment
func IsErrNotFound(e error) bool {
	_, ok := e.(errNotFound)
	return ok
}
