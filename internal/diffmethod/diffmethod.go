// Package diffmethod decides how a QNode differentiates its circuits.
//
// Select maps (device capabilities, interface, requested method) to a
// Descriptor naming the tape kind to record, the interface results are
// returned through, and the concrete gradient strategy. It performs no
// execution.
package diffmethod

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/interfaces"
	"github.com/born-ml/qtape/internal/qerr"
	"github.com/born-ml/qtape/internal/tape"
)

// DiffMethod is a user-facing differentiation request.
type DiffMethod int

// Differentiation requests.
const (
	Best DiffMethod = iota
	Backprop
	Device
	ParameterShift
	FiniteDiff
)

var names = map[DiffMethod]string{
	Best:           "best",
	Backprop:       "backprop",
	Device:         "device",
	ParameterShift: "parameter-shift",
	FiniteDiff:     "finite-diff",
}

// String returns the request name as accepted by ParseDiffMethod.
func (m DiffMethod) String() string {
	if s, ok := names[m]; ok {
		return s
	}
	return fmt.Sprintf("DiffMethod(%d)", int(m))
}

// ParseDiffMethod parses a request name.
func ParseDiffMethod(s string) (DiffMethod, error) {
	for m, n := range names {
		if n == s {
			return m, nil
		}
	}
	return 0, qerr.QuantumFunction("Differentiation method %s not recognized. Allowed options are (%s).",
		s, strings.Join(Names(), ", "))
}

// Names returns the accepted request names in declaration order.
func Names() []string {
	out := make([]string, 0, len(names))
	for m := Best; m <= FiniteDiff; m++ {
		out = append(out, names[m])
	}
	return out
}

// Method is the concrete gradient strategy a tape applies.
type Method = tape.Method

// Gradient strategies.
const (
	MethodNumeric  = tape.MethodNumeric
	MethodAnalytic = tape.MethodAnalytic
	MethodDevice   = tape.MethodDevice
	MethodBackprop = tape.MethodBackprop
)

// Descriptor is the outcome of a selection.
type Descriptor struct {
	Kind      tape.Kind
	Interface string
	Method    Method
}

// String renders the descriptor for logs.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Kind, d.Interface, d.Method)
}

// Select resolves m for dev and iface. A nil logger uses log.Default().
func Select(dev device.Device, iface string, m DiffMethod, logger *log.Logger) (Descriptor, error) {
	if dev == nil {
		return Descriptor{}, qerr.QuantumFunction("Invalid device")
	}
	if err := ValidateInterface(iface); err != nil {
		return Descriptor{}, err
	}
	if logger == nil {
		logger = log.Default()
	}

	var (
		d   Descriptor
		err error
	)
	switch m {
	case Best:
		d, err = BestMethod(dev, iface, logger)
	case Backprop:
		d, err = ValidateBackprop(dev, iface)
	case Device:
		d, err = ValidateDevice(dev, iface)
	case ParameterShift:
		d, err = ParameterShiftMethod(dev, iface, logger)
	case FiniteDiff:
		d = Descriptor{Kind: tape.KindBase, Interface: iface, Method: MethodNumeric}
	default:
		err = qerr.QuantumFunction("Differentiation method %s not recognized", m)
	}
	if err != nil {
		return Descriptor{}, err
	}

	logger.Debug("selected differentiation method", "device", dev.Name(), "requested", m, "descriptor", d)
	return d, nil
}

// ValidateInterface rejects interface names with no registered adapter.
func ValidateInterface(iface string) error {
	if !interfaces.Known(iface) {
		return qerr.QuantumFunction("Unknown interface %s. Interface must be one of [%s].",
			iface, strings.Join(interfaces.Names(), ", "))
	}
	return nil
}

// BestMethod picks the preferred strategy: backprop when the device's
// passthrough interface is iface, then the device jacobian, then the
// parameter-shift rule, then finite differences.
func BestMethod(dev device.Device, iface string, logger *log.Logger) (Descriptor, error) {
	if d, err := ValidateBackprop(dev, iface); err == nil {
		return d, nil
	}
	if d, err := ValidateDevice(dev, iface); err == nil {
		return d, nil
	}
	if d, err := ParameterShiftMethod(dev, iface, logger); err == nil {
		return d, nil
	}
	return Descriptor{Kind: tape.KindBase, Interface: iface, Method: MethodNumeric}, nil
}

// ValidateBackprop accepts devices whose passthrough interface is iface.
// The descriptor carries the device's passthrough interface name.
func ValidateBackprop(dev device.Device, iface string) (Descriptor, error) {
	passthru := dev.Capabilities().PassthruInterface
	if passthru == "" {
		return Descriptor{}, qerr.QuantumFunction(
			"The %s device does not support native computations with autodifferentiation frameworks.", dev.Name())
	}
	if passthru != iface {
		return Descriptor{}, qerr.QuantumFunction(
			"Device %s only supports diff_method='backprop' when using the %s interface.", dev.Name(), passthru)
	}
	return Descriptor{Kind: tape.KindBase, Interface: passthru, Method: MethodBackprop}, nil
}

// ValidateDevice accepts devices that declare a native jacobian.
func ValidateDevice(dev device.Device, iface string) (Descriptor, error) {
	if !dev.Capabilities().ProvidesJacobian {
		return Descriptor{}, qerr.QuantumFunction(
			"The %s device does not provide a native method for computing the jacobian.", dev.Name())
	}
	return Descriptor{Kind: tape.KindBase, Interface: iface, Method: MethodDevice}, nil
}

// ParameterShiftMethod returns the analytic rule for qubit devices. CV
// devices fall back to finite differences with a warning; any other model
// is rejected.
func ParameterShiftMethod(dev device.Device, iface string, logger *log.Logger) (Descriptor, error) {
	switch model := dev.Capabilities().Model; model {
	case circuit.ModelQubit:
		return Descriptor{Kind: tape.KindQubitParamShift, Interface: iface, Method: MethodAnalytic}, nil
	case circuit.ModelCV:
		if logger == nil {
			logger = log.Default()
		}
		logger.Warn("CV parameter-shift rule not yet implemented. Falling back to finite-differences.", "device", dev.Name())
		return Descriptor{Kind: tape.KindBase, Interface: iface, Method: MethodNumeric}, nil
	default:
		return Descriptor{}, qerr.QuantumFunction(
			"The %s device does not support the parameter-shift rule (model %q).", dev.Name(), model)
	}
}
