package tape

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
)

// Draw renders the tape as text, one line per wire. Each operation takes one
// column; measurements are listed after the ┤ terminator.
//
//	0: ──RX(0.1)───────────C──┤ ⟨Z⟩
//	1: ───────────RY(0.2)──X──┤ Var[X]
func (t *Tape) Draw() string {
	n := t.numWires()
	if n == 0 {
		return ""
	}

	width := len(strconv.Itoa(n - 1))
	lines := make([]strings.Builder, n)
	for w := range lines {
		fmt.Fprintf(&lines[w], "%*d: ──", width, w)
	}

	for _, op := range t.ops {
		labels := opLabels(op)
		col := 0
		for _, l := range labels {
			col = max(col, utf8.RuneCountInString(l))
		}
		for w := range lines {
			l := labels[w]
			lines[w].WriteString(l)
			lines[w].WriteString(strings.Repeat("─", col-utf8.RuneCountInString(l)+2))
		}
	}

	results := make([][]string, n)
	for _, m := range t.measurements {
		label := measurementLabel(m)
		for _, w := range m.Wires() {
			results[w] = append(results[w], label)
		}
	}

	var b strings.Builder
	for w := range lines {
		b.WriteString(lines[w].String())
		b.WriteString("┤")
		if len(results[w]) > 0 {
			b.WriteString(" ")
			b.WriteString(strings.Join(results[w], " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Tape) numWires() int {
	n := 0
	for _, op := range t.ops {
		for _, w := range op.Wires() {
			n = max(n, w+1)
		}
	}
	for _, m := range t.measurements {
		for _, w := range m.Wires() {
			n = max(n, w+1)
		}
	}
	return n
}

func opLabels(op *circuit.Operation) map[int]string {
	wires := op.Wires()
	switch op.Name() {
	case "CNOT":
		return map[int]string{wires[0]: "C", wires[1]: "X"}
	case "CZ":
		return map[int]string{wires[0]: "C", wires[1]: "Z"}
	case "SWAP":
		return map[int]string{wires[0]: "SWAP", wires[1]: "SWAP"}
	}

	label := op.Name()
	if op.NumParams() > 0 {
		parts := make([]string, op.NumParams())
		for i, p := range op.Params() {
			parts[i] = strconv.FormatFloat(p, 'g', 3, 64)
		}
		label += "(" + strings.Join(parts, ",") + ")"
	}
	out := make(map[int]string, len(wires))
	for _, w := range wires {
		out[w] = label
	}
	return out
}

func measurementLabel(m *circuit.Measurement) string {
	if m.ReturnType() == circuit.Probability {
		return "Probs"
	}
	name := observableLabel(m.Observable())
	switch m.ReturnType() {
	case circuit.Expectation:
		return "⟨" + name + "⟩"
	case circuit.Variance:
		return "Var[" + name + "]"
	default:
		return "Sample[" + name + "]"
	}
}

func observableLabel(o circuit.Observable) string {
	switch v := o.(type) {
	case *obs.Named:
		switch v.Name() {
		case "PauliX":
			return "X"
		case "PauliY":
			return "Y"
		case "PauliZ":
			return "Z"
		case "Identity":
			return "I"
		case "Hadamard":
			return "H"
		}
		return v.Name()
	case *obs.Tensor:
		parts := make([]string, 0)
		for _, f := range v.Factors() {
			parts = append(parts, observableLabel(f))
		}
		return strings.Join(parts, "⊗")
	case *obs.Hamiltonian:
		return "Hamiltonian"
	default:
		return o.Name()
	}
}
