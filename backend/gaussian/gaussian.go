// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gaussian provides default.gaussian, a continuous-variable
// simulator for Gaussian states.
//
// States are tracked as quadrature means and covariances (ħ = 2). The
// simulator supports Displacement, Rotation, Squeezing and Beamsplitter, and
// the X, P and NumberOperator observables. It has no analytic gradient
// rule: QNodes on it fall back to finite differences with a warning.
package gaussian

import (
	internalgaussian "github.com/born-ml/qtape/internal/backend/gaussian"

	"github.com/born-ml/qtape/device"
)

// Simulator is the default.gaussian device.
type Simulator = internalgaussian.Simulator

// Name is the device name.
const Name = internalgaussian.Name

var _ device.Device = (*Simulator)(nil)

// New creates a simulator on the given number of modes.
func New(modes int) *Simulator {
	return internalgaussian.New(modes)
}
