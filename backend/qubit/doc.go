// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qubit provides default.qubit, a pure Go statevector simulator.
//
// # Overview
//
// The simulator supports:
//   - Every qubit gate of package circuit
//   - Exact expectation values, variances and probabilities
//   - Shot sampling of Pauli-word observables (WithShots, WithSeed)
//   - Adjoint differentiation, exposed either as a native device jacobian
//     (WithAdjointJacobian) or as backpropagation through the "autodiff"
//     interface (WithBackprop)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/qtape/backend/qubit"
//	    "github.com/born-ml/qtape/qnode"
//	)
//
//	func main() {
//	    dev := qubit.New(2, qubit.WithBackprop())
//	    qn, err := qnode.New(twoWire, dev, qnode.WithDiffMethod("backprop"))
//	    ...
//	}
//
// Wire 0 is the most significant bit of amplitude indices. Amplitude loops
// run in parallel above a size threshold; see WithParallel.
package qubit
