// Package config loads circuit and graph files.
//
// Files are YAML. Each document is first checked against an embedded CUE
// schema (schema.cue), then decoded strictly into Go types. A circuit file
// describes the device, the differentiation settings, the parameter values
// and the gates and measurements of one construction function:
//
//	device: {name: default.qubit, wires: 2}
//	diff_method: parameter-shift
//	params: [0.1, 0.2]
//	ops:
//	  - {gate: RX, wires: [0], params: ["$0"]}
//	  - {gate: RY, wires: [1], params: ["$1"]}
//	  - {gate: CNOT, wires: [0, 1]}
//	measurements:
//	  - {type: expval, observable: PauliZ, wires: [1]}
//
// Gate parameters are literals or "$i", the i-th circuit argument.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Circuit is a decoded circuit file.
type Circuit struct {
	Name         string        `yaml:"name,omitempty"`
	Device       Device        `yaml:"device"`
	Interface    string        `yaml:"interface,omitempty"`
	DiffMethod   string        `yaml:"diff_method,omitempty"`
	Step         float64       `yaml:"step,omitempty"`
	Order        int           `yaml:"order,omitempty"`
	Params       []float64     `yaml:"params,omitempty"`
	Trainable    []int         `yaml:"trainable,omitempty"`
	Ops          []Op          `yaml:"ops,omitempty"`
	Measurements []Measurement `yaml:"measurements"`
}

// Device selects and configures a backend.
type Device struct {
	Name     string `yaml:"name,omitempty"`
	Wires    int    `yaml:"wires"`
	Shots    int    `yaml:"shots,omitempty"`
	Seed     *int64 `yaml:"seed,omitempty"`
	Backprop bool   `yaml:"backprop,omitempty"`
	Adjoint  bool   `yaml:"adjoint,omitempty"`
}

// Op is one gate application.
type Op struct {
	Gate   string  `yaml:"gate"`
	Wires  []int   `yaml:"wires"`
	Params []Param `yaml:"params,omitempty"`
}

// Param is a literal gate parameter or a reference to a circuit argument.
type Param struct {
	Value float64
	Arg   int // -1 for literals
}

// UnmarshalYAML accepts a number or a "$i" argument reference.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter must be a number or $i", node.Line)
	}
	if strings.HasPrefix(node.Value, "$") {
		i, err := strconv.Atoi(node.Value[1:])
		if err != nil || i < 0 {
			return fmt.Errorf("line %d: bad argument reference %q", node.Line, node.Value)
		}
		*p = Param{Arg: i}
		return nil
	}
	v, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: bad parameter %q", node.Line, node.Value)
	}
	*p = Param{Value: v, Arg: -1}
	return nil
}

// Measurement is one terminal measurement.
type Measurement struct {
	Type       string      `yaml:"type"`
	Observable Names       `yaml:"observable,omitempty"`
	Wires      []int       `yaml:"wires"`
	Matrix     [][]float64 `yaml:"matrix,omitempty"`
}

// Names is a single observable name or a list of names, one per wire.
type Names []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*n = Names{node.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	default:
		return fmt.Errorf("line %d: observable must be a name or a list of names", node.Line)
	}
}

// Graph is a decoded graph file.
type Graph struct {
	Nodes []int  `yaml:"nodes,omitempty"`
	Edges []Edge `yaml:"edges"`
}

// Edge is one directed edge.
type Edge struct {
	From   int      `yaml:"from"`
	To     int      `yaml:"to"`
	Weight *float64 `yaml:"weight,omitempty"`
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaVal  cue.Value
	schemaErr  error
)

func schema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		schemaVal = schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		schemaErr = schemaVal.Err()
	})
	return schemaCtx, schemaVal, schemaErr
}

// validate checks a YAML document against the named schema definition.
func validate(def string, data []byte) error {
	ctx, s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("empty document")
	}

	v := s.LookupPath(cue.ParsePath(def)).Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema %s: %s", def, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ParseCircuit validates and decodes a circuit document and applies
// defaults.
func ParseCircuit(data []byte) (*Circuit, error) {
	if err := validate("#Circuit", data); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	var c Circuit
	if err := decodeStrict(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	return &c, nil
}

// LoadCircuit reads and parses a circuit file.
func LoadCircuit(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit file: %w", err)
	}
	return ParseCircuit(data)
}

// ParseGraph validates and decodes a graph document.
func ParseGraph(data []byte) (*Graph, error) {
	if err := validate("#Graph", data); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	var g Graph
	if err := decodeStrict(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// LoadGraph reads and parses a graph file.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return ParseGraph(data)
}

func (c *Circuit) applyDefaults() {
	if c.Device.Name == "" {
		c.Device.Name = "default.qubit"
	}
	if c.Interface == "" {
		c.Interface = "autodiff"
	}
	if c.DiffMethod == "" {
		c.DiffMethod = "best"
	}
}

// check validates cross-field constraints the schema cannot express.
func (c *Circuit) check() error {
	for i, op := range c.Ops {
		for _, p := range op.Params {
			if p.Arg >= len(c.Params) {
				return fmt.Errorf("ops[%d]: argument $%d out of range for %d param(s)", i, p.Arg, len(c.Params))
			}
		}
	}
	for i, m := range c.Measurements {
		if len(m.Observable) > 1 && len(m.Observable) != len(m.Wires) {
			return fmt.Errorf("measurements[%d]: %d observable(s) for %d wire(s)", i, len(m.Observable), len(m.Wires))
		}
	}
	return nil
}
