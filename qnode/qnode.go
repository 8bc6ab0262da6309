// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qnode binds circuit construction functions to devices.
//
// A QNode records a fresh tape on every call, executes it and differentiates
// it with the method chosen at construction:
//
//	import (
//	    "github.com/born-ml/qtape/backend/qubit"
//	    "github.com/born-ml/qtape/qnode"
//	)
//
//	func main() {
//	    qn, err := qnode.New(twoWire, qubit.New(2),
//	        qnode.WithDiffMethod("parameter-shift"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, _ := qn.Call(0.1, 0.2)       // expectation values
//	    jac, _ := qn.Jacobian(0.1, 0.2)   // outputs × parameters
//	}
//
// Differentiation methods are "best" (default), "backprop", "device",
// "parameter-shift" and "finite-diff". Under "best" the selector prefers
// backprop, then a device jacobian, then the parameter-shift rule, then
// finite differences.
package qnode

import (
	"github.com/charmbracelet/log"

	"github.com/born-ml/qtape/circuit"
	"github.com/born-ml/qtape/device"
	"github.com/born-ml/qtape/internal/diffmethod"
	"github.com/born-ml/qtape/internal/interfaces"
	"github.com/born-ml/qtape/internal/qnode"
	"github.com/born-ml/qtape/internal/tape"
)

// QNode is a quantum function bound to a device.
type QNode = qnode.QNode

// Option configures a QNode.
type Option = qnode.Option

// Descriptor is the resolved tape kind, interface and gradient method.
type Descriptor = diffmethod.Descriptor

// Jacobian is a dense outputs × parameters matrix (a gonum mat.Matrix).
type Jacobian = tape.Jacobian

// Tape is one recorded construction pass.
type Tape = tape.Tape

// Interface names.
const (
	Autodiff = interfaces.Autodiff
	Gonum    = interfaces.Gonum
	TF       = interfaces.TF
	Torch    = interfaces.Torch
)

// New creates a QNode.
func New(fn circuit.Func, dev device.Device, opts ...Option) (*QNode, error) {
	return qnode.New(fn, dev, opts...)
}

// Decorator returns a constructor binding functions to dev.
func Decorator(dev device.Device, opts ...Option) func(circuit.Func) (*QNode, error) {
	return qnode.Decorator(dev, opts...)
}

// WithInterface selects the interface results pass through.
func WithInterface(name string) Option { return qnode.WithInterface(name) }

// WithDiffMethod selects the differentiation method by name.
func WithDiffMethod(name string) Option { return qnode.WithDiffMethod(name) }

// WithStep sets the finite-difference step.
func WithStep(h float64) Option { return qnode.WithStep(h) }

// WithOrder sets the finite-difference order (1 or 2).
func WithOrder(order int) Option { return qnode.WithOrder(order) }

// WithLogger sets the logger for selection warnings and debug output.
func WithLogger(l *log.Logger) Option { return qnode.WithLogger(l) }

// DiffMethods returns the accepted differentiation method names.
func DiffMethods() []string { return diffmethod.Names() }

// Interfaces returns the registered interface names.
func Interfaces() []string { return interfaces.Names() }
