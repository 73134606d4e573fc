package gate

import (
	"fmt"
	"math/cmplx"
	"strings"
)

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	rows, cols int
	data       []complex128
}

// NewMatrix builds a rows×cols matrix from row-major data. The slice is copied.
func NewMatrix(rows, cols int, data []complex128) (Matrix, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimensionMismatch, len(data), rows, cols)
	}
	d := make([]complex128, len(data))
	copy(d, data)
	return Matrix{rows: rows, cols: cols, data: d}, nil
}

// mustMatrix is used for the fixed catalog entries, whose shapes are known.
func mustMatrix(rows, cols int, data ...complex128) Matrix {
	m, err := NewMatrix(rows, cols, data)
	if err != nil {
		panic(err)
	}
	return m
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := Matrix{rows: n, cols: n, data: make([]complex128, n*n)}
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// Dims returns the number of rows and columns.
func (m Matrix) Dims() (int, int) { return m.rows, m.cols }

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) complex128 { return m.data[i*m.cols+j] }

// IsSquare reports whether the matrix has as many rows as columns.
func (m Matrix) IsSquare() bool { return m.rows == m.cols }

// MulVec returns m·v.
func (m Matrix) MulVec(v []complex128) ([]complex128, error) {
	if len(v) != m.cols {
		return nil, fmt.Errorf("%w: %dx%d matrix times vector of length %d", ErrDimensionMismatch, m.rows, m.cols, len(v))
	}
	out := make([]complex128, m.rows)
	for i := range m.rows {
		var sum complex128
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, a := range row {
			sum += a * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

// Mul returns m·o.
func (m Matrix) Mul(o Matrix) (Matrix, error) {
	if m.cols != o.rows {
		return Matrix{}, fmt.Errorf("%w: %dx%d times %dx%d", ErrDimensionMismatch, m.rows, m.cols, o.rows, o.cols)
	}
	out := Matrix{rows: m.rows, cols: o.cols, data: make([]complex128, m.rows*o.cols)}
	for i := range m.rows {
		for k := range m.cols {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := range o.cols {
				out.data[i*o.cols+j] += a * o.data[k*o.cols+j]
			}
		}
	}
	return out, nil
}

// ConjTranspose returns the Hermitian adjoint of m.
func (m Matrix) ConjTranspose() Matrix {
	out := Matrix{rows: m.cols, cols: m.rows, data: make([]complex128, len(m.data))}
	for i := range m.rows {
		for j := range m.cols {
			out.data[j*m.rows+i] = cmplx.Conj(m.data[i*m.cols+j])
		}
	}
	return out
}

// IsUnitary reports whether m†·m equals the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	p, err := m.ConjTranspose().Mul(m)
	if err != nil {
		return false
	}
	for i := range p.rows {
		for j := range p.cols {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(p.At(i, j)-want) > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) String() string {
	var sb strings.Builder
	for i := range m.rows {
		sb.WriteString("[")
		for j := range m.cols {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%v", m.At(i, j))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
