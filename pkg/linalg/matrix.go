package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mat is a dense float64 matrix backed by gonum.
type Mat struct {
	d *mat.Dense
}

// NewMat wraps r x c row-major data. A nil data slice yields a zero matrix.
func NewMat(r, c int, data []float64) Mat {
	return Mat{d: mat.NewDense(r, c, data)}
}

// Eye returns the n x n identity matrix.
func Eye(n int) Mat {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return Mat{d: d}
}

// Dims returns the row and column counts.
func (m Mat) Dims() (int, int) {
	return m.d.Dims()
}

// At returns the element at row i, column j.
func (m Mat) At(i, j int) float64 {
	return m.d.At(i, j)
}

// EyeLike returns an identity matrix with the receiver's row count.
func (m Mat) EyeLike() Mat {
	r, _ := m.d.Dims()
	return Eye(r)
}

// ZeroLike returns a zero matrix with the receiver's shape.
func (m Mat) ZeroLike() Mat {
	r, c := m.d.Dims()
	return Mat{d: mat.NewDense(r, c, nil)}
}

// Transpose returns the transposed matrix.
func (m Mat) Transpose() Mat {
	r, c := m.d.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.d.T())
	return Mat{d: out}
}

// Inverse returns the inverse, failing when the matrix is singular or badly
// conditioned.
func (m Mat) Inverse() (Mat, error) {
	r, c := m.d.Dims()
	out := mat.NewDense(r, c, nil)
	if err := out.Inverse(m.d); err != nil {
		return Mat{}, fmt.Errorf("matrix inversion failed: %w", err)
	}
	return Mat{d: out}, nil
}

// Add returns the elementwise sum.
func (m Mat) Add(other Mat) Mat {
	out := m.ZeroLike()
	out.d.Add(m.d, other.d)
	return out
}

// Sub returns the elementwise difference.
func (m Mat) Sub(other Mat) Mat {
	out := m.ZeroLike()
	out.d.Sub(m.d, other.d)
	return out
}

// Mul returns the elementwise product.
func (m Mat) Mul(other Mat) Mat {
	out := m.ZeroLike()
	out.d.MulElem(m.d, other.d)
	return out
}

// Div returns the elementwise quotient.
func (m Mat) Div(other Mat) Mat {
	out := m.ZeroLike()
	out.d.DivElem(m.d, other.d)
	return out
}

// Scale returns factor * m.
func (m Mat) Scale(factor float64) Mat {
	out := m.ZeroLike()
	out.d.Scale(factor, m.d)
	return out
}

// MatMul returns the matrix product m * other.
func (m Mat) MatMul(other Mat) Mat {
	r, _ := m.d.Dims()
	_, c := other.d.Dims()
	out := mat.NewDense(r, c, nil)
	out.Mul(m.d, other.d)
	return Mat{d: out}
}

// MulVec returns the matrix-vector product m * v.
func (m Mat) MulVec(v Vec) Vec {
	r, _ := m.d.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(m.d, mat.NewVecDense(len(v), v))
	res := make(Vec, r)
	copy(res, out.RawVector().Data)
	return res
}

// Conj returns a copy of m; real matrices are their own conjugate.
func (m Mat) Conj() Mat {
	out := m.ZeroLike()
	out.d.Copy(m.d)
	return out
}
