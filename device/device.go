// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device defines the interface implemented by circuit backends.
//
// Third-party backends implement Device. To take part in differentiation
// they may also implement JacobianProvider (diff method "device") or
// Backpropagator together with a PassthruInterface capability (diff method
// "backprop"). Built-in backends live under backend/.
package device

import (
	"github.com/born-ml/qtape/internal/device"
)

// Device executes recorded circuits.
type Device = device.Device

// JacobianProvider is a device with a native jacobian.
type JacobianProvider = device.JacobianProvider

// Backpropagator is a device differentiable through its passthrough
// interface.
type Backpropagator = device.Backpropagator

// ParamRef addresses parameter Index of operation Op.
type ParamRef = device.ParamRef

// Capabilities is the feature set a device declares.
type Capabilities = device.Capabilities

// Mock is a configurable device for tests.
type Mock = device.Mock

// NewMock creates a Mock device.
func NewMock(name string, wires int, caps Capabilities) *Mock {
	return device.NewMock(name, wires, caps)
}
