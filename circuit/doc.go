// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package circuit provides the building blocks of quantum circuits.
//
// # Overview
//
// A circuit is written as a construction function (Func). The function
// receives an explicit *Queue, applies gates to it and returns the
// measurements it wants as outputs:
//
//	import (
//	    "github.com/born-ml/qtape/circuit"
//	    "github.com/born-ml/qtape/circuit/obs"
//	)
//
//	func twoWire(q *circuit.Queue, args ...float64) (any, error) {
//	    circuit.RX(q, args[0], 0)
//	    circuit.RY(q, args[1], 1)
//	    circuit.CNOT(q, 0, 1)
//	    return circuit.Expval(q, obs.PauliZ(1)), nil
//	}
//
// Measurements must be returned in the order they were built. Wire 0 is the
// most significant bit of basis-state indices.
//
// # Gates
//
// Qubit gates: Hadamard, PauliX, PauliY, PauliZ, S, T, CNOT, CZ, SWAP, RX,
// RY, RZ, PhaseShift, Rot. Continuous-variable gates: Displacement,
// Rotation, Squeezing, Beamsplitter. Apply builds any registered gate by
// name.
package circuit
