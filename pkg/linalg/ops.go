// Package linalg defines the numeric capabilities solvers require of their
// parameter, gradient and Hessian types, together with one concrete float64
// backend (Vec and Mat) built on gonum.
//
// The capabilities are deliberately small, single-concern interfaces so that
// each algorithm can state exactly the arithmetic it needs as a type
// constraint, and backends only have to implement the subset they support.
package linalg

import "math/rand"

// Dotter computes the inner product with another vector.
type Dotter[T, F any] interface {
	Dot(other T) F
}

// Scaler multiplies by a scalar.
type Scaler[T, F any] interface {
	Scale(factor F) T
}

// ScaledAdder forms self + factor*other and self - factor*other.
type ScaledAdder[T, F any] interface {
	ScaledAdd(factor F, other T) T
	ScaledSub(factor F, other T) T
}

// Pointwise provides elementwise arithmetic and elementwise min/max.
type Pointwise[T any] interface {
	Add(other T) T
	Sub(other T) T
	Mul(other T) T
	Div(other T) T
	Min(other T) T
	Max(other T) T
}

// Normer computes the Euclidean norm.
type Normer[F any] interface {
	Norm() F
}

// ZeroLiker produces a zero value with the receiver's shape.
type ZeroLiker[T any] interface {
	ZeroLike() T
}

// EyeLiker produces an identity with the receiver's shape.
type EyeLiker[T any] interface {
	EyeLike() T
}

// Transposer transposes the receiver.
type Transposer[T any] interface {
	Transpose() T
}

// Inverter inverts the receiver, failing when it is singular.
type Inverter[T any] interface {
	Inverse() (T, error)
}

// Conjugator returns the elementwise complex conjugate.
type Conjugator[T any] interface {
	Conj() T
}

// RangeRandomer draws a value uniformly between the receiver, taken as the
// lower bound, and upper, elementwise.
type RangeRandomer[T any] interface {
	RandFromRange(upper T, rng *rand.Rand) T
}
