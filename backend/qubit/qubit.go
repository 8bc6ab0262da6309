// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package qubit

import (
	internalqubit "github.com/born-ml/qtape/internal/backend/qubit"
	"github.com/born-ml/qtape/internal/parallel"

	"github.com/born-ml/qtape/device"
)

// Simulator is the default.qubit device.
type Simulator = internalqubit.Simulator

// Option configures a Simulator.
type Option = internalqubit.Option

// Device names and the register bound.
const (
	Name         = internalqubit.Name
	BackpropName = internalqubit.BackpropName
	MaxWires     = internalqubit.MaxWires
)

// Compile-time checks that Simulator implements the device interfaces.
var (
	_ device.Device           = (*Simulator)(nil)
	_ device.JacobianProvider = (*Simulator)(nil)
	_ device.Backpropagator   = (*Simulator)(nil)
)

// New creates a simulator on the given number of wires. Wire counts outside
// [1, MaxWires] make every execution fail with a device error.
//
// Example:
//
//	dev := qubit.New(3, qubit.WithShots(1000), qubit.WithSeed(7))
func New(wires int, opts ...Option) *Simulator {
	return internalqubit.New(wires, opts...)
}

// WithShots sets the number of shots used by sample measurements.
func WithShots(shots int) Option { return internalqubit.WithShots(shots) }

// WithSeed fixes the sampling seed.
func WithSeed(seed int64) Option { return internalqubit.WithSeed(seed) }

// WithBackprop enables backpropagation through the "autodiff" interface.
func WithBackprop() Option { return internalqubit.WithBackprop() }

// WithAdjointJacobian declares a native device jacobian.
func WithAdjointJacobian() Option { return internalqubit.WithAdjointJacobian() }

// WithWorkers bounds amplitude-loop parallelism. One worker runs every loop
// sequentially; zero or less uses one worker per CPU.
func WithWorkers(n int) Option {
	cfg := parallel.DefaultConfig()
	if n == 1 {
		cfg = parallel.Sequential()
	} else if n > 1 {
		cfg.Enabled, cfg.NumWorkers = true, n
	}
	return internalqubit.WithParallel(cfg)
}
