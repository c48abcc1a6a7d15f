package core

import "math"

// Float is the scalar constraint shared by cost values, step lengths and
// tuning parameters.
type Float interface {
	~float32 | ~float64
}

// MachEps returns the machine epsilon of F.
func MachEps[F Float]() F {
	var z F
	if _, ok := any(z).(float32); ok {
		return F(math.Nextafter32(1, 2) - 1)
	}
	return F(math.Nextafter(1, 2) - 1)
}

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf[F Float](sign int) F {
	return F(math.Inf(sign))
}

// NaN returns a quiet NaN of type F.
func NaN[F Float]() F {
	return F(math.NaN())
}

// Abs returns the absolute value of x.
func Abs[F Float](x F) F {
	return F(math.Abs(float64(x)))
}

// IsInf reports whether x is an infinity of the given sign (0 matches both).
func IsInf[F Float](x F, sign int) bool {
	return math.IsInf(float64(x), sign)
}

// IsNaN reports whether x is NaN.
func IsNaN[F Float](x F) bool {
	return math.IsNaN(float64(x))
}

// IsFinite reports whether x is neither infinite nor NaN.
func IsFinite[F Float](x F) bool {
	return !IsInf(x, 0) && !IsNaN(x)
}
