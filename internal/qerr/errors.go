// Package qerr holds the error taxonomy shared by the tape, the selector,
// the QNode and the devices.
//
// Errors are plain sentinels; call sites wrap them with fmt.Errorf and %w so
// that callers can branch with errors.Is while the message still names the
// unmet condition.
package qerr

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrQuantumFunction reports a policy or contract violation: bad device,
	// bad interface, bad differentiation method, bad return type, or a
	// missing optional library.
	ErrQuantumFunction = errors.New("quantum function error")

	// ErrCircuit reports a construction function that returned something
	// other than measurements.
	ErrCircuit = errors.New("circuit error")

	// ErrOrdering reports measurements returned in a different order than
	// they were queued.
	ErrOrdering = errors.New("ordering error")

	// ErrDevice reports a device that cannot run the requested circuit
	// (unknown wires, unsupported gates or observables).
	ErrDevice = errors.New("device error")
)

// QuantumFunction wraps a formatted message with ErrQuantumFunction.
func QuantumFunction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrQuantumFunction, fmt.Sprintf(format, args...))
}

// Device wraps a formatted message with ErrDevice.
func Device(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDevice, fmt.Sprintf(format, args...))
}
