// Package qnode binds a circuit construction function to a device.
//
// A QNode records a fresh tape on every call, executes it on its device and
// differentiates it with the strategy chosen once, at construction, by the
// diffmethod selector. A QNode is not safe for concurrent use.
package qnode

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/diffmethod"
	"github.com/born-ml/qtape/internal/interfaces"
	"github.com/born-ml/qtape/internal/qerr"
	"github.com/born-ml/qtape/internal/tape"
)

// Defaults for a new QNode.
const (
	DefaultInterface  = interfaces.Autodiff
	DefaultDiffMethod = "best"
)

type options struct {
	iface  string
	method string
	step   float64
	order  int
	logger *log.Logger
}

// Option configures a QNode.
type Option func(*options)

// WithInterface selects the interface results are returned through.
func WithInterface(name string) Option {
	return func(o *options) { o.iface = name }
}

// WithDiffMethod selects the differentiation request by name: "best",
// "backprop", "device", "parameter-shift" or "finite-diff".
func WithDiffMethod(name string) Option {
	return func(o *options) { o.method = name }
}

// WithStep sets the finite-difference step h.
func WithStep(h float64) Option {
	return func(o *options) { o.step = h }
}

// WithOrder sets the finite-difference order (1 or 2).
func WithOrder(order int) Option {
	return func(o *options) { o.order = order }
}

// WithLogger sets the logger for selection warnings and debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// QNode is a quantum function bound to a device.
type QNode struct {
	fn      circuit.Func
	dev     device.Device
	adapter interfaces.Adapter
	desc    diffmethod.Descriptor
	diff    tape.DiffOptions
	logger  *log.Logger

	tape *tape.Tape
}

// New creates a QNode. The device is validated first, then the interface,
// then the differentiation method. fn may be nil, in which case the QNode
// can be inspected but not called.
func New(fn circuit.Func, dev device.Device, opts ...Option) (*QNode, error) {
	o := options{
		iface:  DefaultInterface,
		method: DefaultDiffMethod,
		step:   tape.DefaultStep,
		order:  tape.DefaultOrder,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}

	if dev == nil {
		return nil, qerr.QuantumFunction("Invalid device")
	}
	if err := diffmethod.ValidateInterface(o.iface); err != nil {
		return nil, err
	}
	m, err := diffmethod.ParseDiffMethod(o.method)
	if err != nil {
		return nil, err
	}
	if o.step <= 0 {
		return nil, qerr.QuantumFunction("finite-difference step must be positive, got %g", o.step)
	}
	if o.order != 1 && o.order != 2 {
		return nil, qerr.QuantumFunction("finite-difference order must be 1 or 2, got %d", o.order)
	}

	desc, err := diffmethod.Select(dev, o.iface, m, o.logger)
	if err != nil {
		return nil, err
	}
	adapter, err := interfaces.Lookup(desc.Interface)
	if err != nil {
		return nil, qerr.QuantumFunction("%v", err)
	}

	return &QNode{
		fn:      fn,
		dev:     dev,
		adapter: adapter,
		desc:    desc,
		diff:    tape.DiffOptions{Method: desc.Method, Step: o.step, Order: o.order},
		logger:  o.logger,
	}, nil
}

// Decorator returns a constructor binding functions to dev with opts.
func Decorator(dev device.Device, opts ...Option) func(circuit.Func) (*QNode, error) {
	return func(fn circuit.Func) (*QNode, error) {
		return New(fn, dev, opts...)
	}
}

// Call records a fresh tape from args and executes it. The tape is kept
// only when recording succeeds.
func (n *QNode) Call(args ...float64) ([]float64, error) {
	if err := interfaces.Available(n.desc.Interface); err != nil {
		return nil, err
	}
	if err := n.record(args); err != nil {
		return nil, err
	}
	return n.tape.Execute(n.dev)
}

// Evaluate converts input through the bound interface, calls the QNode and
// converts the result back.
func (n *QNode) Evaluate(input any) (any, error) {
	args, err := n.adapter.Unwrap(input)
	if err != nil {
		return nil, err
	}
	res, err := n.Call(args...)
	if err != nil {
		return nil, err
	}
	return n.adapter.Wrap(res)
}

// Jacobian differentiates the circuit at args with the selected method. The
// cached tape is reused when it was recorded from the same arguments.
func (n *QNode) Jacobian(args ...float64) (*tape.Jacobian, error) {
	if err := interfaces.Available(n.desc.Interface); err != nil {
		return nil, err
	}
	if n.tape == nil || !slices.Equal(n.tape.Args(), args) {
		if err := n.record(args); err != nil {
			return nil, err
		}
	}
	return n.tape.Jacobian(n.dev, nil, n.diff)
}

// Gradient is Jacobian through the bound interface.
func (n *QNode) Gradient(input any) (any, error) {
	args, err := n.adapter.Unwrap(input)
	if err != nil {
		return nil, err
	}
	jac, err := n.Jacobian(args...)
	if err != nil {
		return nil, err
	}
	return n.adapter.WrapJacobian(jac)
}

func (n *QNode) record(args []float64) error {
	if n.fn == nil {
		return qerr.QuantumFunction("QNode has no quantum function")
	}
	tp, err := tape.Record(n.desc.Kind, n.fn, args...)
	switch {
	case err == nil:
	case errors.Is(err, qerr.ErrOrdering):
		return fmt.Errorf("%w: All measurements must be returned in the order they are measured: %w",
			qerr.ErrQuantumFunction, err)
	case errors.Is(err, qerr.ErrCircuit):
		return fmt.Errorf("%w: A quantum function must return either a single measured observable "+
			"or a nonempty sequence of measured observables: %w", qerr.ErrQuantumFunction, err)
	default:
		return err
	}

	n.tape = tp
	n.logger.Debug("recorded tape",
		"id", tp.ID(), "kind", tp.Kind(), "ops", len(tp.Operations()),
		"measurements", len(tp.Measurements()), "params", tp.NumParams())
	return nil
}

// Tape returns the most recently recorded tape, or nil before the first
// successful call.
func (n *QNode) Tape() *tape.Tape { return n.tape }

// Descriptor returns the resolved differentiation descriptor.
func (n *QNode) Descriptor() diffmethod.Descriptor { return n.desc }

// Interface returns the interface name.
func (n *QNode) Interface() string { return n.desc.Interface }

// DiffOptions returns the method and finite-difference settings.
func (n *QNode) DiffOptions() tape.DiffOptions { return n.diff }

// Device returns the bound device.
func (n *QNode) Device() device.Device { return n.dev }
