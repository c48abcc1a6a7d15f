package linalg

import (
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Vec is a dense float64 vector.
type Vec []float64

// Zero returns an n-dimensional zero vector.
func Zero(n int) Vec {
	return make(Vec, n)
}

// Fill returns an n-dimensional vector with every element set to v.
func Fill(n int, v float64) Vec {
	out := make(Vec, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// ZeroLike returns a zero vector of the receiver's length.
func (v Vec) ZeroLike() Vec {
	return make(Vec, len(v))
}

// Dot returns the inner product with other.
func (v Vec) Dot(other Vec) float64 {
	return floats.Dot(v, other)
}

// Scale returns factor * v.
func (v Vec) Scale(factor float64) Vec {
	out := slices.Clone(v)
	floats.Scale(factor, out)
	return out
}

// ScaledAdd returns v + factor*other.
func (v Vec) ScaledAdd(factor float64, other Vec) Vec {
	out := slices.Clone(v)
	floats.AddScaled(out, factor, other)
	return out
}

// ScaledSub returns v - factor*other.
func (v Vec) ScaledSub(factor float64, other Vec) Vec {
	return v.ScaledAdd(-factor, other)
}

// Add returns the elementwise sum.
func (v Vec) Add(other Vec) Vec {
	out := make(Vec, len(v))
	floats.AddTo(out, v, other)
	return out
}

// Sub returns the elementwise difference.
func (v Vec) Sub(other Vec) Vec {
	out := make(Vec, len(v))
	floats.SubTo(out, v, other)
	return out
}

// Mul returns the elementwise product.
func (v Vec) Mul(other Vec) Vec {
	out := make(Vec, len(v))
	floats.MulTo(out, v, other)
	return out
}

// Div returns the elementwise quotient.
func (v Vec) Div(other Vec) Vec {
	out := make(Vec, len(v))
	floats.DivTo(out, v, other)
	return out
}

// Min returns the elementwise minimum.
func (v Vec) Min(other Vec) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = math.Min(v[i], other[i])
	}
	return out
}

// Max returns the elementwise maximum.
func (v Vec) Max(other Vec) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = math.Max(v[i], other[i])
	}
	return out
}

// Norm returns the Euclidean norm.
func (v Vec) Norm() float64 {
	return floats.Norm(v, 2)
}

// Conj returns a copy of v; real vectors are their own conjugate.
func (v Vec) Conj() Vec {
	return slices.Clone(v)
}

// RandFromRange draws a vector uniformly between v, taken as the lower
// bound, and upper, elementwise.
func (v Vec) RandFromRange(upper Vec, rng *rand.Rand) Vec {
	out := make(Vec, len(v))
	for i := range v {
		lo, hi := v[i], upper[i]
		if hi < lo {
			lo, hi = hi, lo
		}
		out[i] = lo + rng.Float64()*(hi-lo)
	}
	return out
}
