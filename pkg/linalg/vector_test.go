package linalg

import (
	"math"
	"math/rand"
	"testing"
)

func vecsEqual(t *testing.T, got, want Vec, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("Element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVecDot(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, 5, 6}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: got %v, want 32", got)
	}
}

func TestVecScaledAddLeavesInputsUntouched(t *testing.T) {
	a := Vec{1, 2}
	b := Vec{10, 20}

	got := a.ScaledAdd(0.5, b)

	vecsEqual(t, got, Vec{6, 12}, 0)
	vecsEqual(t, a, Vec{1, 2}, 0)
	vecsEqual(t, b, Vec{10, 20}, 0)
}

func TestVecScaledSub(t *testing.T) {
	a := Vec{1, 2}
	b := Vec{2, 2}
	vecsEqual(t, a.ScaledSub(2, b), Vec{-3, -2}, 0)
}

func TestVecElementwise(t *testing.T) {
	a := Vec{4, 9}
	b := Vec{2, 3}

	vecsEqual(t, a.Add(b), Vec{6, 12}, 0)
	vecsEqual(t, a.Sub(b), Vec{2, 6}, 0)
	vecsEqual(t, a.Mul(b), Vec{8, 27}, 0)
	vecsEqual(t, a.Div(b), Vec{2, 3}, 0)
	vecsEqual(t, a.Min(b), Vec{2, 3}, 0)
	vecsEqual(t, a.Max(b), Vec{4, 9}, 0)
}

func TestVecNorm(t *testing.T) {
	v := Vec{3, 4}
	if got := v.Norm(); got != 5 {
		t.Errorf("Norm: got %v, want 5", got)
	}
}

func TestVecScale(t *testing.T) {
	v := Vec{1, -2}
	vecsEqual(t, v.Scale(-3), Vec{-3, 6}, 0)
	vecsEqual(t, v, Vec{1, -2}, 0)
}

func TestVecZeroLike(t *testing.T) {
	v := Vec{1, 2, 3}
	z := v.ZeroLike()
	vecsEqual(t, z, Vec{0, 0, 0}, 0)
}

func TestVecConjIsCopy(t *testing.T) {
	v := Vec{1, 2}
	c := v.Conj()
	c[0] = 99
	if v[0] != 1 {
		t.Error("Conj should return an independent copy")
	}
}

func TestVecRandFromRange(t *testing.T) {
	lower := Fill(5, -2)
	upper := Fill(5, 3)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10; i++ {
		v := lower.RandFromRange(upper, rng)
		for j, x := range v {
			if x < -2 || x > 3 {
				t.Errorf("Element %d out of range: %v", j, x)
			}
		}
	}
}
