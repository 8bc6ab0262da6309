// Package interfaces bridges external numeric representations and the plain
// []float64 values a tape works with.
//
// An Adapter converts QNode inputs to parameter values and converts results
// and jacobians back. Built-in adapters:
//   - "autodiff": plain []float64 and [][]float64 (the default)
//   - "gonum": *mat.VecDense inputs and results, *mat.Dense jacobians
//   - "tf", "torch": known names whose libraries are not linked into this
//     build; every conversion reports the missing library
package interfaces

import (
	"fmt"
	"sort"

	"github.com/born-ml/qtape/internal/tape"
)

// Interface names.
const (
	Autodiff = "autodiff"
	Gonum    = "gonum"
	TF       = "tf"
	Torch    = "torch"
)

// Adapter converts between an external numeric representation and tape
// values.
type Adapter interface {
	// Name returns the interface identifier.
	Name() string

	// Unwrap converts a QNode input into parameter values.
	Unwrap(input any) ([]float64, error)

	// Wrap converts a result vector.
	Wrap(result []float64) (any, error)

	// WrapJacobian converts a jacobian.
	WrapJacobian(jac *tape.Jacobian) (any, error)
}

// Registry maps interface names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry with all built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(autodiffAdapter{})
	r.Register(gonumAdapter{})
	r.Register(unlinked{name: TF, library: "TensorFlow"})
	r.Register(unlinked{name: Torch, library: "PyTorch"})
	return r
}

// Register adds or replaces an adapter.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Lookup returns the built-in adapter for name.
func Lookup(name string) (Adapter, error) {
	a, ok := defaultRegistry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown interface %q", name)
	}
	return a, nil
}

// Known reports whether name is a built-in interface.
func Known(name string) bool {
	_, ok := defaultRegistry.Get(name)
	return ok
}

// Names returns the built-in interface names in sorted order.
func Names() []string {
	return defaultRegistry.Names()
}
