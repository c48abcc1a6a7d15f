package swarm

import (
	"errors"
	"math"
	"testing"

	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
)

type sphere struct{}

func (sphere) Cost(p linalg.Vec) (float64, error) {
	return p.Dot(p), nil
}

type vecProblem = core.Problem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]
type vecState = core.IterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]

func newSphereProblem() *vecProblem {
	return core.NewProblem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](sphere{})
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name         string
		dim          int
		lower, upper float64
		wantErr      bool
	}{
		{"valid", 2, -5, 5, false},
		{"zero dim", 0, -5, 5, true},
		{"negative dim", -1, -5, 5, true},
		{"empty range", 2, 5, 5, true},
		{"inverted range", 2, 5, -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[struct{}, struct{}](tt.dim, tt.lower, tt.upper)
			if tt.wantErr {
				if !errors.Is(err, &core.InvalidParameterError{}) {
					t.Errorf("Expected InvalidParameterError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSetStallValidation(t *testing.T) {
	m, err := New[struct{}, struct{}](2, -5, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.SetStall(0, 0.1); err == nil {
		t.Error("Expected error for zero patience")
	}
	if err := m.SetStall(3, 0); err == nil {
		t.Error("Expected error for zero threshold")
	}
	if err := m.SetStall(3, 0.01); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInitDrawsStartWithinBounds(t *testing.T) {
	m, err := New[struct{}, struct{}](3, -2, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	state := core.NewIterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()

	if _, err := m.Init(newSphereProblem(), state); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	param, ok := state.Param()
	if !ok {
		t.Fatal("Init should set a starting parameter")
	}
	if len(param) != 3 {
		t.Fatalf("Dimension: got %d, want 3", len(param))
	}
	for i, x := range param {
		if x < -2 || x > 4 {
			t.Errorf("Element %d out of bounds: %v", i, x)
		}
	}
	if math.IsInf(state.Cost(), 1) {
		t.Error("Init should evaluate the starting cost")
	}
}

func TestInitKeepsConfiguredStart(t *testing.T) {
	m, err := New[struct{}, struct{}](2, -5, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	state := core.NewIterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()
	state.SetParam(linalg.Vec{1, 1})

	if _, err := m.Init(newSphereProblem(), state); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	param, _ := state.Param()
	if param[0] != 1 || param[1] != 1 {
		t.Errorf("Configured start should be kept, got %v", param)
	}
	if state.Cost() != 2 {
		t.Errorf("Cost: got %v, want 2", state.Cost())
	}
}

func TestObserveStall(t *testing.T) {
	m, err := New[struct{}, struct{}](2, -5, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.SetStall(2, 0.01); err != nil {
		t.Fatalf("SetStall failed: %v", err)
	}
	m.lastSignificant = 100

	m.observeStall(50) // 50% improvement resets the counter
	if m.stale != 0 || m.lastSignificant != 50 {
		t.Fatalf("After significant improvement: stale=%d, last=%v", m.stale, m.lastSignificant)
	}
	if m.Terminate(nil) != core.NotTerminated {
		t.Fatal("Should not terminate after an improvement")
	}

	m.observeStall(49.9) // 0.2% is below the threshold
	m.observeStall(49.9)
	if m.stale != 2 {
		t.Fatalf("Stale count: got %d, want 2", m.stale)
	}
	if m.Terminate(nil) != core.Converged {
		t.Error("Should converge after patience is exhausted")
	}
}

func TestMayflyRunOnSphere(t *testing.T) {
	m, err := New[struct{}, struct{}](2, -5, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	problem := newSphereProblem()
	exec := core.NewExecutor(problem, core.Solver[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](m)).
		Configure(func(s *vecState) {
			s.SetMaxIters(3)
		})

	result, err := exec.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	best, ok := result.State.BestParam()
	if !ok || len(best) != 2 {
		t.Fatalf("Best param: got %v", best)
	}
	if math.IsInf(result.State.BestCost(), 1) || math.IsNaN(result.State.BestCost()) {
		t.Fatalf("Best cost should be finite, got %v", result.State.BestCost())
	}
	if result.Counts.Cost == 0 {
		t.Error("Cost evaluations should be counted")
	}
}

func TestMayflyName(t *testing.T) {
	m, _ := New[struct{}, struct{}](2, -5, 5)
	if got := m.Name(); got != "Mayfly population search" {
		t.Errorf("Name: got %q", got)
	}
}
