package core

import (
	"errors"
	"fmt"
	"testing"
)

// quadObjective is f(x) = (x-3)^2 with gradient but no Hessian.
type quadObjective struct {
	failAfter int
	evals     int
}

func (q *quadObjective) Cost(x float64) (float64, error) {
	q.evals++
	if q.failAfter > 0 && q.evals > q.failAfter {
		return 0, fmt.Errorf("objective evaluation failed")
	}
	d := x - 3
	return d * d, nil
}

func (q *quadObjective) Gradient(x float64) (float64, error) {
	return 2 * (x - 3), nil
}

type scalarProblem = Problem[float64, float64, struct{}, struct{}, float64]

func newQuadProblem(failAfter int) (*scalarProblem, *quadObjective) {
	obj := &quadObjective{failAfter: failAfter}
	return NewProblem[float64, float64, struct{}, struct{}, float64](obj), obj
}

func TestProblemCountsEvaluations(t *testing.T) {
	p, _ := newQuadProblem(0)

	for i := 0; i < 3; i++ {
		if _, err := p.Cost(1.0); err != nil {
			t.Fatalf("Cost failed: %v", err)
		}
	}
	if _, err := p.Gradient(1.0); err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	c := p.Counts()
	if c.Cost != 3 {
		t.Errorf("Cost count: got %d, want 3", c.Cost)
	}
	if c.Gradient != 1 {
		t.Errorf("Gradient count: got %d, want 1", c.Gradient)
	}
	if c.Jacobian != 0 || c.Hessian != 0 {
		t.Errorf("Unused counters should be zero, got %+v", c)
	}
}

func TestProblemMissingCapability(t *testing.T) {
	p, _ := newQuadProblem(0)

	_, err := p.Hessian(1.0)
	if err == nil {
		t.Fatal("Expected error for missing Hessian")
	}
	if !errors.Is(err, &NotImplementedError{}) {
		t.Errorf("Expected NotImplementedError, got %v", err)
	}

	// Failed dispatch must not count.
	if c := p.Counts(); c.Hessian != 0 {
		t.Errorf("Missing capability should not be counted, got %d", c.Hessian)
	}
}

func TestProblemPropagatesObjectiveError(t *testing.T) {
	p, _ := newQuadProblem(1)

	if _, err := p.Cost(1.0); err != nil {
		t.Fatalf("First evaluation should succeed: %v", err)
	}
	if _, err := p.Cost(1.0); err == nil {
		t.Fatal("Second evaluation should fail")
	}
}

func TestProblemCostValue(t *testing.T) {
	p, _ := newQuadProblem(0)

	f, err := p.Cost(5.0)
	if err != nil {
		t.Fatalf("Cost failed: %v", err)
	}
	if f != 4.0 {
		t.Errorf("Cost(5): got %v, want 4", f)
	}
}
