package main

import (
	"fmt"

	"github.com/Orca-bit/argmin/pkg/linalg"
)

// sphere is the convex benchmark f(x) = sum x_i^2 with minimum 0 at the
// origin.
type sphere struct{}

func (sphere) Cost(p linalg.Vec) (float64, error) {
	return p.Dot(p), nil
}

func (sphere) Gradient(p linalg.Vec) (linalg.Vec, error) {
	return p.Scale(2), nil
}

// rosenbrock is the banana-valley benchmark with minimum 0 at (a, a^2, ...).
type rosenbrock struct {
	a, b float64
}

func (r rosenbrock) Cost(p linalg.Vec) (float64, error) {
	if len(p) < 2 {
		return 0, fmt.Errorf("rosenbrock needs at least 2 dimensions, got %d", len(p))
	}
	var sum float64
	for i := 0; i < len(p)-1; i++ {
		d := r.a - p[i]
		q := p[i+1] - p[i]*p[i]
		sum += d*d + r.b*q*q
	}
	return sum, nil
}

func (r rosenbrock) Gradient(p linalg.Vec) (linalg.Vec, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("rosenbrock needs at least 2 dimensions, got %d", len(p))
	}
	g := linalg.Zero(len(p))
	for i := 0; i < len(p)-1; i++ {
		q := p[i+1] - p[i]*p[i]
		g[i] += -2*(r.a-p[i]) - 4*r.b*p[i]*q
		g[i+1] += 2 * r.b * q
	}
	return g, nil
}

func buildObjective(name string) (any, error) {
	switch name {
	case "sphere":
		return sphere{}, nil
	case "rosenbrock":
		return rosenbrock{a: 1, b: 100}, nil
	default:
		return nil, fmt.Errorf("unknown objective: %s", name)
	}
}
