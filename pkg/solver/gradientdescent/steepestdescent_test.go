package gradientdescent

import (
	"errors"
	"testing"

	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
	"github.com/Orca-bit/argmin/pkg/solver/linesearch"
)

// sphere is f(x) = x.x with minimum 0 at the origin.
type sphere struct{}

func (sphere) Cost(p linalg.Vec) (float64, error) {
	return p.Dot(p), nil
}

func (sphere) Gradient(p linalg.Vec) (linalg.Vec, error) {
	return p.Scale(2), nil
}

type vecState = core.IterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]

func newSolver() *SteepestDescent[linalg.Vec, struct{}, struct{}, float64] {
	hz := linesearch.NewHagerZhangLineSearch[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()
	return New[linalg.Vec, struct{}, struct{}, float64](hz)
}

func TestSetGradTolValidation(t *testing.T) {
	sd := newSolver()
	if err := sd.SetGradTol(0); err == nil {
		t.Error("Expected error for zero tolerance")
	}
	if err := sd.SetGradTol(-1); !errors.Is(err, &core.InvalidParameterError{}) {
		t.Errorf("Expected InvalidParameterError, got %v", err)
	}
	if err := sd.SetGradTol(1e-8); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestSetLineSearchMaxItersValidation(t *testing.T) {
	sd := newSolver()
	if err := sd.SetLineSearchMaxIters(0); !errors.Is(err, &core.InvalidParameterError{}) {
		t.Errorf("Expected InvalidParameterError, got %v", err)
	}
	if err := sd.SetLineSearchMaxIters(5); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInitRequiresParameter(t *testing.T) {
	sd := newSolver()
	problem := core.NewProblem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](sphere{})
	state := core.NewIterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()

	_, err := sd.Init(problem, state)
	if !errors.Is(err, &core.NotInitializedError{}) {
		t.Errorf("Expected NotInitializedError, got %v", err)
	}
}

func TestSteepestDescentConvergesOnSphere(t *testing.T) {
	sd := newSolver()
	problem := core.NewProblem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](sphere{})

	exec := core.NewExecutor(problem, sd).
		Configure(func(s *vecState) {
			s.SetParam(linalg.Vec{2, 2}).SetMaxIters(50)
		})

	result, err := exec.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.State.TerminationReason() != core.Converged {
		t.Errorf("Termination: got %s, want Converged", result.State.TerminationReason())
	}
	if result.State.BestCost() > 1e-10 {
		t.Errorf("Best cost: got %v, want ~0", result.State.BestCost())
	}
	p, ok := result.State.BestParam()
	if !ok || p.Norm() > 1e-5 {
		t.Errorf("Best param: got %v, want ~origin", p)
	}
	// Both cost and gradient evaluations flow through the shared problem.
	if result.Counts.Cost == 0 || result.Counts.Gradient == 0 {
		t.Errorf("Evaluation counts should aggregate, got %+v", result.Counts)
	}
}

func TestSteepestDescentName(t *testing.T) {
	if got := newSolver().Name(); got != "Steepest descent" {
		t.Errorf("Name: got %q", got)
	}
}
