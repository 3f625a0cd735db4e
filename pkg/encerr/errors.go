// Package encerr defines the error taxonomy shared by the encoders.
//
// Every exported encoder operation fails with an error that matches exactly
// one of the sentinels below under errors.Is. Driver failures additionally
// carry the driver's own status code, recoverable with errors.As into a
// ports.Status.
package encerr

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/user/vaencoder/pkg/ports"
)

var (
	// ErrInvalidState is returned when an operation is attempted outside its lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidParameter is returned for malformed caller input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrResolutionUnsupported is returned when dimensions violate format constraints.
	ErrResolutionUnsupported = errors.New("resolution not supported")

	// ErrAllocationFailed is returned when a table is full or the driver refused an allocation.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrUnimplemented is returned when the driver lacks a required capability.
	ErrUnimplemented = errors.New("unimplemented")

	// ErrDriverFailure matches every DriverError.
	ErrDriverFailure = errors.New("driver failure")
)

// DriverError records a failed driver call.
type DriverError struct {
	Op     string
	Status ports.Status
	Err    error
}

// Driver wraps err returned by the driver call op. A nil err yields nil.
// Errors that are not a ports.Status are kept and reported as StatusOperationFailed.
func Driver(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DriverError
	if errors.As(err, &de) {
		return err
	}
	var st ports.Status
	if errors.As(err, &st) {
		return &DriverError{Op: op, Status: st, Err: err}
	}
	return &DriverError{Op: op, Status: ports.StatusOperationFailed, Err: err}
}

func (e *DriverError) Error() string {
	if e.Err != nil && e.Err != error(e.Status) {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Status)
}

// Unwrap exposes the driver's original error.
func (e *DriverError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Status
}

// Is reports whether target is ErrDriverFailure.
func (e *DriverError) Is(target error) bool {
	return target == ErrDriverFailure
}

// StatusOf returns the driver status carried by err, or StatusSuccess if there is none.
func StatusOf(err error) ports.Status {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Status
	}
	var st ports.Status
	if errors.As(err, &st) {
		return st
	}
	return ports.StatusSuccess
}

// Teardown accumulates the errors of a best-effort multi-step cleanup.
// Every step runs; the result lists failures in step order.
type Teardown struct {
	result *multierror.Error
}

// Step records the outcome of one cleanup call. A nil err is ignored.
func (t *Teardown) Step(op string, err error) {
	if err == nil {
		return
	}
	t.result = multierror.Append(t.result, Driver(op, err))
}

// Add records an error that is already classified.
func (t *Teardown) Add(err error) {
	if err == nil {
		return
	}
	t.result = multierror.Append(t.result, err)
}

// Err returns nil if every step succeeded.
func (t *Teardown) Err() error {
	return t.result.ErrorOrNil()
}

// CombinedStatus ORs together every driver status found in err, descending
// into aggregates built by Teardown.
func CombinedStatus(err error) ports.Status {
	if err == nil {
		return ports.StatusSuccess
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var st ports.Status
		for _, e := range merr.Errors {
			st |= CombinedStatus(e)
		}
		return st
	}
	return StatusOf(err)
}
