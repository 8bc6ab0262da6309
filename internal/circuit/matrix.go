package circuit

import (
	"fmt"
	"math/cmplx"
)

// Matrix is a dense square complex matrix acting on 2^k basis states.
// Row i, column j is m[i][j]; the first wire of an operation is the most
// significant bit of the local basis index.
type Matrix [][]complex128

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]complex128, n)
	}
	return m
}

// Identity returns the n×n identity.
func Identity(n int) Matrix {
	m := NewMatrix(n)
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// Dim returns the matrix dimension.
func (m Matrix) Dim() int {
	return len(m)
}

// Mul returns m·o.
func (m Matrix) Mul(o Matrix) Matrix {
	n := len(m)
	out := NewMatrix(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if m[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	n := len(m)
	out := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j][i] = cmplx.Conj(m[i][j])
		}
	}
	return out
}

// Scale returns c·m.
func (m Matrix) Scale(c complex128) Matrix {
	out := NewMatrix(len(m))
	for i := range m {
		for j := range m[i] {
			out[i][j] = c * m[i][j]
		}
	}
	return out
}

// Add returns m+o.
func (m Matrix) Add(o Matrix) Matrix {
	out := NewMatrix(len(m))
	for i := range m {
		for j := range m[i] {
			out[i][j] = m[i][j] + o[i][j]
		}
	}
	return out
}

// Kron returns the Kronecker product m⊗o.
func (m Matrix) Kron(o Matrix) Matrix {
	a, b := len(m), len(o)
	out := NewMatrix(a * b)
	for i := 0; i < a; i++ {
		for j := 0; j < a; j++ {
			if m[i][j] == 0 {
				continue
			}
			for k := 0; k < b; k++ {
				for l := 0; l < b; l++ {
					out[i*b+k][j*b+l] = m[i][j] * o[k][l]
				}
			}
		}
	}
	return out
}

// IsHermitian reports whether m equals its conjugate transpose within tol.
func (m Matrix) IsHermitian(tol float64) bool {
	for i := range m {
		if len(m[i]) != len(m) {
			return false
		}
		for j := range m[i] {
			if cmplx.Abs(m[i][j]-cmplx.Conj(m[j][i])) > tol {
				return false
			}
		}
	}
	return true
}

// Expand embeds m, which acts on wires `from`, into the space spanned by
// wires `to`. Every wire in from must appear in to.
func Expand(m Matrix, from, to []int) (Matrix, error) {
	pos := make([]int, len(from))
	for i, w := range from {
		pos[i] = -1
		for j, v := range to {
			if v == w {
				pos[i] = j
				break
			}
		}
		if pos[i] < 0 {
			return nil, fmt.Errorf("expand: wire %d not in target wires %v", w, to)
		}
	}
	if len(m) != 1<<len(from) {
		return nil, fmt.Errorf("expand: matrix dimension %d does not match %d wires", len(m), len(from))
	}

	n := len(to)
	dim := 1 << n
	var mask int
	for _, p := range pos {
		mask |= 1 << (n - 1 - p)
	}

	local := func(idx int) int {
		l := 0
		for _, p := range pos {
			l = l<<1 | (idx>>(n-1-p))&1
		}
		return l
	}

	out := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		li := local(i)
		for j := 0; j < dim; j++ {
			if i&^mask != j&^mask {
				continue
			}
			out[i][j] = m[li][local(j)]
		}
	}
	return out, nil
}
