package diffmethod

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qtape/internal/backend/gaussian"
	"github.com/born-ml/qtape/internal/backend/qubit"
	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
	"github.com/born-ml/qtape/internal/tape"
)

func bufferLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}), &buf
}

func mock(caps device.Capabilities) *device.Mock {
	return device.NewMock("mock.qubit", 1, caps)
}

func TestParseDiffMethod(t *testing.T) {
	for _, name := range Names() {
		m, err := ParseDiffMethod(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseDiffMethod("hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "Differentiation method hello not recognized")

	assert.Equal(t, []string{"best", "backprop", "device", "parameter-shift", "finite-diff"}, Names())
}

func TestValidateBackprop(t *testing.T) {
	d, err := ValidateBackprop(mock(device.Capabilities{Model: circuit.ModelQubit, PassthruInterface: "autodiff"}), "autodiff")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "autodiff", Method: MethodBackprop}, d)

	_, err = ValidateBackprop(mock(device.Capabilities{Model: circuit.ModelQubit}), "autodiff")
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "The mock.qubit device does not support native computations with autodifferentiation frameworks.")

	_, err = ValidateBackprop(mock(device.Capabilities{Model: circuit.ModelQubit, PassthruInterface: "gonum"}), "autodiff")
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "Device mock.qubit only supports diff_method='backprop' when using the gonum interface.")
}

func TestValidateDevice(t *testing.T) {
	d, err := ValidateDevice(mock(device.Capabilities{ProvidesJacobian: true}), "gonum")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "gonum", Method: MethodDevice}, d)

	_, err = ValidateDevice(mock(device.Capabilities{}), "gonum")
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "The mock.qubit device does not provide a native method for computing the jacobian.")
}

func TestParameterShiftMethod(t *testing.T) {
	logger, buf := bufferLogger()

	d, err := ParameterShiftMethod(qubit.New(1), "autodiff", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindQubitParamShift, Interface: "autodiff", Method: MethodAnalytic}, d)
	assert.Empty(t, buf.String())

	d, err = ParameterShiftMethod(gaussian.New(1), "autodiff", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "autodiff", Method: MethodNumeric}, d)
	assert.Contains(t, buf.String(), "CV parameter-shift rule not yet implemented. Falling back to finite-differences.")

	_, err = ParameterShiftMethod(mock(device.Capabilities{Model: "None"}), "autodiff", logger)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "does not support the parameter-shift rule")
}

func TestBestMethod(t *testing.T) {
	logger, _ := bufferLogger()
	caps := device.Capabilities{Model: circuit.ModelQubit, PassthruInterface: "autodiff", ProvidesJacobian: true}

	// backprop has priority
	d, err := BestMethod(mock(caps), "autodiff", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "autodiff", Method: MethodBackprop}, d)

	// then the device jacobian
	d, err = BestMethod(mock(caps), "gonum", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "gonum", Method: MethodDevice}, d)

	// then parameter-shift
	caps.ProvidesJacobian = false
	d, err = BestMethod(mock(caps), "gonum", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindQubitParamShift, Interface: "gonum", Method: MethodAnalytic}, d)

	// finally finite differences
	caps.Model = "None"
	d, err = BestMethod(mock(caps), "gonum", logger)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: tape.KindBase, Interface: "gonum", Method: MethodNumeric}, d)
}

func TestSelect(t *testing.T) {
	logger, buf := bufferLogger()
	dev := qubit.New(1)

	tests := []struct {
		method DiffMethod
		want   Descriptor
	}{
		{Best, Descriptor{Kind: tape.KindQubitParamShift, Interface: "autodiff", Method: MethodAnalytic}},
		{ParameterShift, Descriptor{Kind: tape.KindQubitParamShift, Interface: "autodiff", Method: MethodAnalytic}},
		{FiniteDiff, Descriptor{Kind: tape.KindBase, Interface: "autodiff", Method: MethodNumeric}},
	}
	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			d, err := Select(dev, "autodiff", tt.method, logger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
	assert.Contains(t, buf.String(), "selected differentiation method")

	_, err := Select(dev, "autodiff", Backprop, logger)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	_, err = Select(dev, "autodiff", Device, logger)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)

	d, err := Select(qubit.New(1, qubit.WithBackprop()), "autodiff", Best, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodBackprop, d.Method)

	d, err = Select(qubit.New(1, qubit.WithAdjointJacobian()), "gonum", Best, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodDevice, d.Method)
}

func TestSelect_Errors(t *testing.T) {
	_, err := Select(nil, "autodiff", Best, nil)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "Invalid device")

	_, err = Select(qubit.New(1), "jax", Best, nil)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "Unknown interface jax")

	_, err = Select(qubit.New(1), "autodiff", DiffMethod(42), nil)
	assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
	assert.Contains(t, err.Error(), "DiffMethod(42)")
}

func TestDescriptor_String(t *testing.T) {
	d := Descriptor{Kind: tape.KindQubitParamShift, Interface: "autodiff", Method: MethodAnalytic}
	assert.Equal(t, "QubitParamShiftTape/autodiff/analytic", d.String())
}
