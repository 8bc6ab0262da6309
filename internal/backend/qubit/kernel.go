package qubit

import (
	"math/cmplx"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/parallel"
)

// Wire w of an n-wire register is bit n-1-w of the basis index, so wire 0 is
// the most significant bit.

// applyMatrix applies the local matrix m on wires to state in place.
func applyMatrix(state []complex128, n int, m circuit.Matrix, wires []int, cfg parallel.Config) {
	k := len(wires)
	dim := 1 << k
	positions := make([]int, k)
	offsets := make([]int, dim)
	for j, w := range wires {
		positions[j] = n - 1 - w
	}
	for l := 0; l < dim; l++ {
		var off int
		for j := 0; j < k; j++ {
			if l>>(k-1-j)&1 == 1 {
				off |= 1 << positions[j]
			}
		}
		offsets[l] = off
	}

	parallel.ForMasked(n, positions, func(base int) {
		in := make([]complex128, dim)
		for l, off := range offsets {
			in[l] = state[base|off]
		}
		for r, off := range offsets {
			var acc complex128
			row := m[r]
			for c, v := range in {
				if row[c] != 0 {
					acc += row[c] * v
				}
			}
			state[base|off] = acc
		}
	}, cfg)
}

// zeroState returns |0…0⟩ on n wires.
func zeroState(n int) []complex128 {
	s := make([]complex128, 1<<n)
	s[0] = 1
	return s
}

// inner returns ⟨a|b⟩.
func inner(a, b []complex128) complex128 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return s
}

// probabilities returns the marginal distribution over wires, with the first
// listed wire as the most significant bit of the outcome index.
func probabilities(state []complex128, n int, wires []int) []float64 {
	k := len(wires)
	out := make([]float64, 1<<k)
	for idx, a := range state {
		var outcome int
		for _, w := range wires {
			outcome = outcome<<1 | (idx>>(n-1-w))&1
		}
		out[outcome] += real(a)*real(a) + imag(a)*imag(a)
	}
	return out
}
