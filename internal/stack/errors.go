/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import "fmt"

// AlreadyExistsError is returned when creating a stack whose name already
// denotes a live stack.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("stack %q already exists", e.Name)
}

// NotFoundError is returned when an operation names a stack that does not
// exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stack %q does not exist", e.Name)
}

// ConcurrentApplyError is returned when an apply is requested for a stack
// that already has one in flight. Two simultaneous walks over the same
// resource set would corrupt status transitions, so overlapping requests
// are rejected rather than interleaved.
type ConcurrentApplyError struct {
	Name string
}

func (e *ConcurrentApplyError) Error() string {
	return fmt.Sprintf("stack %q already has an operation in progress", e.Name)
}

// MissingParameterError is returned when a template parameter has neither a
// supplied value nor a default.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("parameter %q must have a value", e.Name)
}

// WaitTimeoutError is returned by the waiter when a stack does not reach a
// terminal state within the retry budget. It is a polling timeout, not a
// stack failure.
type WaitTimeoutError struct {
	Name    string
	Retries int
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("stack %q did not reach a terminal state after %d attempts", e.Name, e.Retries)
}
