package sptensor

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// matrixRowAlign is the element alignment of matrix rows. Rows are
// padded so that Stride is a multiple of this, keeping row starts
// cache-friendly for the rank-length inner loops of MTTKRP.
const matrixRowAlign = 8

// Matrix is a dense row-major matrix of Values, used for the factor
// matrices consumed and produced by MTTKRP. Row i occupies
// Values[i*Stride : i*Stride+Cols]; the padding tail of each row is
// unspecified.
type Matrix struct {
	Rows   int
	Cols   int
	Stride int
	Values *Vector[Value]
}

// NewMatrix creates a zero matrix with the given shape.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix shape %dx%d", ErrValue, rows, cols)
	}
	stride := ((cols-1)/matrixRowAlign + 1) * matrixRowAlign
	return &Matrix{
		Rows:   rows,
		Cols:   cols,
		Stride: stride,
		Values: NewVector[Value](rows*stride, rows*stride),
	}, nil
}

// Row returns row i, length Cols, aliasing the matrix storage.
func (m *Matrix) Row(i int) []Value {
	return m.Values.Data()[i*m.Stride : i*m.Stride+m.Cols]
}

// Fill sets every element (padding included) to v.
func (m *Matrix) Fill(v Value) {
	m.Values.Fill(v)
}

// Randomize fills the matrix with uniform values in [0, 1) from rng.
func (m *Matrix) Randomize(rng *rand.Rand) {
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = Value(rng.Float64())
		}
	}
}

// AddMatrix accumulates other into m element-wise. Shapes must match.
func (m *Matrix) AddMatrix(other *Matrix) error {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return fmt.Errorf("%w: matrix shape mismatch: %dx%d vs %dx%d",
			ErrValue, m.Rows, m.Cols, other.Rows, other.Cols)
	}
	for i := 0; i < m.Rows; i++ {
		dst, src := m.Row(i), other.Row(i)
		for j := range dst {
			dst[j] += src[j]
		}
	}
	return nil
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		Rows:   m.Rows,
		Cols:   m.Cols,
		Stride: m.Stride,
		Values: m.Values.Clone(),
	}
}

// Dense converts the matrix to a gonum mat.Dense (float64), for
// exchange with downstream linear-algebra consumers.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j, v := range row {
			d.Set(i, j, float64(v))
		}
	}
	return d
}

// MatrixFromDense converts a gonum mat.Dense into a Matrix, truncating
// elements to the Value type.
func MatrixFromDense(d *mat.Dense) (*Matrix, error) {
	rows, cols := d.Dims()
	m, err := NewMatrix(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = Value(d.At(i, j))
		}
	}
	return m, nil
}
