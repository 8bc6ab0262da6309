package device

import (
	"fmt"

	"github.com/born-ml/qtape/internal/circuit"
)

// Verify that Mock implements the device interfaces.
var (
	_ Device           = (*Mock)(nil)
	_ JacobianProvider = (*Mock)(nil)
	_ Backpropagator   = (*Mock)(nil)
)

// Mock is a configurable device for testing.
// It carries whatever capability set a test needs instead of mutating a real
// device, and evaluates circuits through a caller-supplied function.
type Mock struct {
	name  string
	wires int
	caps  Capabilities

	// ExecuteFunc computes results. When nil, Execute returns one zero per
	// measurement entry.
	ExecuteFunc func(ops []*circuit.Operation, ms []*circuit.Measurement) ([]float64, error)

	// JacobianFunc backs both Jacobian and BackpropJacobian.
	JacobianFunc func(ops []*circuit.Operation, ms []*circuit.Measurement, params []ParamRef) ([][]float64, error)

	// Executions counts calls to Execute.
	Executions int
}

// NewMock creates a Mock with the given capabilities.
func NewMock(name string, wires int, caps Capabilities) *Mock {
	return &Mock{name: name, wires: wires, caps: caps}
}

// Name returns the device name.
func (m *Mock) Name() string {
	return m.name
}

// Wires returns the number of wires.
func (m *Mock) Wires() int {
	return m.wires
}

// Capabilities returns the configured capabilities.
func (m *Mock) Capabilities() Capabilities {
	return m.caps
}

// Execute counts the call and delegates to ExecuteFunc.
func (m *Mock) Execute(ops []*circuit.Operation, ms []*circuit.Measurement) ([]float64, error) {
	m.Executions++
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ops, ms)
	}
	var n int
	for _, meas := range ms {
		n += meas.Size(1)
	}
	return make([]float64, n), nil
}

// Jacobian delegates to JacobianFunc; it fails unless the mock declares
// ProvidesJacobian.
func (m *Mock) Jacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []ParamRef) ([][]float64, error) {
	if !m.caps.ProvidesJacobian || m.JacobianFunc == nil {
		return nil, fmt.Errorf("mock device %s has no jacobian", m.name)
	}
	return m.JacobianFunc(ops, ms, params)
}

// BackpropJacobian delegates to JacobianFunc; it fails unless the mock
// declares a passthrough interface.
func (m *Mock) BackpropJacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []ParamRef) ([][]float64, error) {
	if m.caps.PassthruInterface == "" || m.JacobianFunc == nil {
		return nil, fmt.Errorf("mock device %s has no passthrough interface", m.name)
	}
	return m.JacobianFunc(ops, ms, params)
}
