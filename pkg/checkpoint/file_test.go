package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Orca-bit/argmin/pkg/core"
)

type listState = core.IterState[[]float64, []float64, struct{}, struct{}, float64]

// solverConfig stands in for a serializable solver.
type solverConfig struct {
	PopSize int   `json:"popSize"`
	Seed    int64 `json:"seed"`
}

func newSavedState(t *testing.T) *listState {
	t.Helper()
	s := core.NewIterState[[]float64, []float64, struct{}, struct{}, float64]()
	s.SetParam([]float64{1.5, -2}).SetCost(0.75)
	s.Update()
	s.IncrementIter()
	s.IncrementIter()
	s.SetMaxIters(100)
	return s
}

func TestFileRejectsEmptyRunID(t *testing.T) {
	if _, err := NewFile[*solverConfig, *listState](t.TempDir(), "", core.CheckpointAlways()); err == nil {
		t.Error("Expected error for empty run ID")
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cp, err := NewFile[*solverConfig, *listState](dir, "run-1", core.CheckpointEvery(5))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	saved := newSavedState(t)
	if err := cp.Save(&solverConfig{PopSize: 30, Seed: 42}, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// No temp file left behind.
	if _, err := os.Stat(filepath.Join(dir, "runs", "run-1", "checkpoint.json.tmp")); !os.IsNotExist(err) {
		t.Error("Temp file should be renamed away")
	}

	solver := &solverConfig{}
	state := core.NewIterState[[]float64, []float64, struct{}, struct{}, float64]()
	found, err := cp.Load(solver, state)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("Load should find the saved checkpoint")
	}

	if solver.PopSize != 30 || solver.Seed != 42 {
		t.Errorf("Solver config: got %+v", solver)
	}
	p, ok := state.BestParam()
	if !ok || p[0] != 1.5 || p[1] != -2 {
		t.Errorf("Best param: got %v, want [1.5 -2]", p)
	}
	if state.BestCost() != 0.75 {
		t.Errorf("Best cost: got %v, want 0.75", state.BestCost())
	}
	if state.Iter() != 2 {
		t.Errorf("Iter: got %d, want 2", state.Iter())
	}
	if state.MaxIters() != 100 {
		t.Errorf("Max iters: got %d, want 100", state.MaxIters())
	}
}

func TestFileLoadMissingReportsFalse(t *testing.T) {
	cp, err := NewFile[*solverConfig, *listState](t.TempDir(), "run-1", core.CheckpointAlways())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	state := core.NewIterState[[]float64, []float64, struct{}, struct{}, float64]()
	found, err := cp.Load(&solverConfig{}, state)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("Load should report false without a checkpoint")
	}
}

func TestFileFrequency(t *testing.T) {
	cp, err := NewFile[*solverConfig, *listState](t.TempDir(), "run-1", core.CheckpointEvery(3))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	freq := cp.Frequency()
	if !freq.Due(3) || !freq.Due(6) {
		t.Error("Every third iteration should be due")
	}
	if freq.Due(1) || freq.Due(4) {
		t.Error("Other iterations should not be due")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	for _, id := range []string{"run-a", "run-b"} {
		cp, err := NewFile[*solverConfig, *listState](dir, id, core.CheckpointAlways())
		if err != nil {
			t.Fatalf("NewFile failed: %v", err)
		}
		if err := cp.Save(&solverConfig{}, newSavedState(t)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	infos, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Iter != 2 {
			t.Errorf("Run %s iter: got %d, want 2", info.RunID, info.Iter)
		}
		if info.BestCost != 0.75 {
			t.Errorf("Run %s best cost: got %v, want 0.75", info.RunID, info.BestCost)
		}
		if info.Timestamp.IsZero() {
			t.Errorf("Run %s should have a timestamp", info.RunID)
		}
	}
}

func TestListEmptyBaseDir(t *testing.T) {
	infos, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no runs, got %d", len(infos))
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	cp, err := NewFile[*solverConfig, *listState](dir, "run-1", core.CheckpointAlways())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if err := cp.Save(&solverConfig{}, newSavedState(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := Delete(dir, "run-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	infos, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no runs after delete, got %d", len(infos))
	}
}

func TestDeleteMissing(t *testing.T) {
	err := Delete(t.TempDir(), "no-such-run")
	if err == nil {
		t.Fatal("Expected error for missing run")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	cp, err := NewFile[*solverConfig, *listState](dir, "run-1", core.CheckpointAlways())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	first := newSavedState(t)
	if err := cp.Save(&solverConfig{}, first); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	second := newSavedState(t)
	second.SetParam([]float64{0, 0}).SetCost(0.1)
	second.Update()
	second.IncrementIter()
	if err := cp.Save(&solverConfig{}, second); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	state := core.NewIterState[[]float64, []float64, struct{}, struct{}, float64]()
	if _, err := cp.Load(&solverConfig{}, state); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.BestCost() != 0.1 {
		t.Errorf("Best cost: got %v, want 0.1", state.BestCost())
	}
	if state.Iter() != 3 {
		t.Errorf("Iter: got %d, want 3", state.Iter())
	}
}
