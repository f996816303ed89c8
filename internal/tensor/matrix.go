// Package tensor provides the dense float64 matrix type used throughout the
// solver. It is a thin layer over gonum's mat.Dense: gonum carries the
// numerics (BLAS-backed multiply), this package carries the shape rules the
// autodiff graph relies on.
//
// Shapes are always two-dimensional, [rows, cols]. Binary elementwise
// operations allow the second operand to broadcast when it is a 1×c row or a
// 1×1 scalar; all other mismatches are programmer errors and panic.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows×cols float64 matrix.
//
// The zero value is not usable; construct with New, Zeros, Ones, Full or
// FromRows. Matrices never have zero dimensions (gonum rejects them); empty
// batches are represented by the absence of a Matrix, not by a 0×c one.
type Matrix struct {
	M *mat.Dense
}

// New creates a rows×cols matrix backed by data in row-major order.
// A nil data slice allocates zeros. Panics if len(data) != rows*cols.
func New(rows, cols int, data []float64) Matrix {
	if data != nil && len(data) != rows*cols {
		panic(fmt.Sprintf("tensor: data length %d does not match %dx%d", len(data), rows, cols))
	}
	return Matrix{M: mat.NewDense(rows, cols, data)}
}

// Zeros creates a rows×cols matrix of zeros.
func Zeros(rows, cols int) Matrix {
	return New(rows, cols, nil)
}

// Ones creates a rows×cols matrix of ones.
func Ones(rows, cols int) Matrix {
	return Full(rows, cols, 1)
}

// Full creates a rows×cols matrix with every element set to v.
func Full(rows, cols int, v float64) Matrix {
	m := New(rows, cols, nil)
	data := m.Data()
	for i := range data {
		data[i] = v
	}
	return m
}

// FromRows builds a matrix from a rectangular slice of rows.
// Returns an error when rows is empty, a row is empty, or row widths differ.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, fmt.Errorf("tensor: no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return Matrix{}, fmt.Errorf("tensor: empty row")
	}
	m := New(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("tensor: ragged rows: row %d has %d columns, want %d", i, len(row), cols)
		}
		m.M.SetRow(i, row)
	}
	return m, nil
}

// Dims returns the row and column counts.
func (m Matrix) Dims() (rows, cols int) {
	return m.M.Dims()
}

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.M.At(i, j)
}

// Set assigns the element at row i, column j.
func (m Matrix) Set(i, j int, v float64) {
	m.M.Set(i, j, v)
}

// Data returns the backing row-major slice. Mutations are visible to the
// matrix; optimizers use this for in-place parameter updates.
func (m Matrix) Data() []float64 {
	return m.M.RawMatrix().Data
}

// Copy returns a deep copy.
func (m Matrix) Copy() Matrix {
	r, c := m.Dims()
	out := New(r, c, nil)
	out.M.CloneFrom(m.M)
	return out
}

// Rows copies the matrix out into a slice of rows.
func (m Matrix) Rows() [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		copy(row, m.M.RawRowView(i))
		out[i] = row
	}
	return out
}

// broadcastable reports how b aligns against an ar×ac operand.
func broadcastable(ar, ac, br, bc int) (rowwise, scalar, exact bool) {
	switch {
	case br == ar && bc == ac:
		return false, false, true
	case br == 1 && bc == ac:
		return true, false, false
	case br == 1 && bc == 1:
		return false, true, false
	}
	return false, false, false
}

// binary applies f elementwise, broadcasting b over a when b is a 1×c row or
// a 1×1 scalar. Panics on any other shape mismatch.
func binary(name string, a, b Matrix, f func(x, y float64) float64) Matrix {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	rowwise, scalar, exact := broadcastable(ar, ac, br, bc)
	if !rowwise && !scalar && !exact {
		panic(fmt.Sprintf("tensor: %s shape mismatch: %dx%d vs %dx%d", name, ar, ac, br, bc))
	}
	out := New(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			var bv float64
			switch {
			case exact:
				bv = b.At(i, j)
			case rowwise:
				bv = b.At(0, j)
			default:
				bv = b.At(0, 0)
			}
			out.Set(i, j, f(a.At(i, j), bv))
		}
	}
	return out
}

// Add returns a + b with row/scalar broadcasting of b.
func Add(a, b Matrix) Matrix {
	return binary("Add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b with row/scalar broadcasting of b.
func Sub(a, b Matrix) Matrix {
	return binary("Sub", a, b, func(x, y float64) float64 { return x - y })
}

// MulElem returns the elementwise product with row/scalar broadcasting of b.
func MulElem(a, b Matrix) Matrix {
	return binary("MulElem", a, b, func(x, y float64) float64 { return x * y })
}

// DivElem returns the elementwise quotient with row/scalar broadcasting of b.
func DivElem(a, b Matrix) Matrix {
	return binary("DivElem", a, b, func(x, y float64) float64 { return x / y })
}

// Scale returns c * a.
func Scale(c float64, a Matrix) Matrix {
	r, cols := a.Dims()
	out := New(r, cols, nil)
	out.M.Scale(c, a.M)
	return out
}

// MatMul returns the matrix product a·b.
func MatMul(a, b Matrix) Matrix {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("tensor: MatMul shape mismatch: %dx%d · %dx%d", ar, ac, br, bc))
	}
	out := New(ar, bc, nil)
	out.M.Mul(a.M, b.M)
	return out
}

// Transpose returns aᵀ as a new matrix.
func Transpose(a Matrix) Matrix {
	r, c := a.Dims()
	out := New(c, r, nil)
	out.M.Copy(a.M.T())
	return out
}

// SumRows sums over rows, returning a 1×cols matrix.
func SumRows(a Matrix) Matrix {
	r, c := a.Dims()
	out := New(1, c, nil)
	for j := 0; j < c; j++ {
		var s float64
		for i := 0; i < r; i++ {
			s += a.At(i, j)
		}
		out.Set(0, j, s)
	}
	return out
}

// SumAll sums every element, returning a 1×1 matrix.
func SumAll(a Matrix) Matrix {
	return New(1, 1, []float64{mat.Sum(a.M)})
}

// Tile materializes a 1×c row (or 1×1 scalar) into a rows×cols matrix.
func Tile(a Matrix, rows, cols int) Matrix {
	ar, ac := a.Dims()
	if ar != 1 || (ac != cols && ac != 1) {
		panic(fmt.Sprintf("tensor: Tile source %dx%d does not broadcast to %dx%d", ar, ac, rows, cols))
	}
	out := New(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if ac == 1 {
				out.Set(i, j, a.At(0, 0))
			} else {
				out.Set(i, j, a.At(0, j))
			}
		}
	}
	return out
}

// Col extracts column j as an n×1 matrix.
func Col(a Matrix, j int) Matrix {
	r, c := a.Dims()
	if j < 0 || j >= c {
		panic(fmt.Sprintf("tensor: Col index %d out of range for %d columns", j, c))
	}
	out := New(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, a.At(i, j))
	}
	return out
}

// ColPad places the n×1 matrix a into column j of an otherwise zero n×cols
// matrix. It is the adjoint of Col.
func ColPad(a Matrix, j, cols int) Matrix {
	r, c := a.Dims()
	if c != 1 {
		panic(fmt.Sprintf("tensor: ColPad wants an n×1 matrix, got %dx%d", r, c))
	}
	if j < 0 || j >= cols {
		panic(fmt.Sprintf("tensor: ColPad index %d out of range for %d columns", j, cols))
	}
	out := New(r, cols, nil)
	for i := 0; i < r; i++ {
		out.Set(i, j, a.At(i, 0))
	}
	return out
}

// HStack concatenates matrices with equal row counts side by side.
func HStack(ms ...Matrix) Matrix {
	if len(ms) == 0 {
		panic("tensor: HStack of nothing")
	}
	rows, _ := ms[0].Dims()
	total := 0
	for _, m := range ms {
		r, c := m.Dims()
		if r != rows {
			panic(fmt.Sprintf("tensor: HStack row mismatch: %d vs %d", r, rows))
		}
		total += c
	}
	out := New(rows, total, nil)
	off := 0
	for _, m := range ms {
		_, c := m.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < c; j++ {
				out.Set(i, off+j, m.At(i, j))
			}
		}
		off += c
	}
	return out
}

// MinCols returns the per-column minimum.
func MinCols(a Matrix) []float64 {
	r, c := a.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		out[j] = a.At(0, j)
		for i := 1; i < r; i++ {
			if v := a.At(i, j); v < out[j] {
				out[j] = v
			}
		}
	}
	return out
}

// MaxCols returns the per-column maximum.
func MaxCols(a Matrix) []float64 {
	r, c := a.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		out[j] = a.At(0, j)
		for i := 1; i < r; i++ {
			if v := a.At(i, j); v > out[j] {
				out[j] = v
			}
		}
	}
	return out
}

// MaxAbsCols returns the per-column maximum absolute value.
func MaxAbsCols(a Matrix) []float64 {
	r, c := a.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v := a.At(i, j)
			if v < 0 {
				v = -v
			}
			if v > out[j] {
				out[j] = v
			}
		}
	}
	return out
}
