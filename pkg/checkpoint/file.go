// Package checkpoint persists optimization run state as JSON files.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Orca-bit/argmin/pkg/core"
)

// ErrNotFound is returned when a requested checkpoint does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing checkpoint error.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "checkpoint not found: " + e.RunID
	}
	return "checkpoint not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// File is a filesystem checkpoint store: one runs/<id>/checkpoint.json per
// run, written atomically via a temp file + rename so an interrupted write
// never corrupts the previous snapshot.
type File[S, T any] struct {
	baseDir string
	runID   string
	freq    core.CheckpointingFrequency
}

// envelope is the serialized checkpoint layout.
type envelope[S, T any] struct {
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
	Solver    S         `json:"solver"`
	State     T         `json:"state"`
}

// NewFile creates a file checkpoint for the given run under baseDir.
func NewFile[S, T any](baseDir, runID string, freq core.CheckpointingFrequency) (*File[S, T], error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "runs", runID), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &File[S, T]{baseDir: baseDir, runID: runID, freq: freq}, nil
}

func (f *File[S, T]) path() string {
	return filepath.Join(f.baseDir, "runs", f.runID, "checkpoint.json")
}

// Save atomically persists the (solver, state) snapshot.
func (f *File[S, T]) Save(solver S, state T) error {
	data, err := json.MarshalIndent(envelope[S, T]{
		RunID:     f.runID,
		Timestamp: time.Now(),
		Solver:    solver,
		State:     state,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint: %w", err)
	}

	tempPath := f.path() + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp checkpoint file: %w", err)
	}
	if err := os.Rename(tempPath, f.path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename checkpoint file: %w", err)
	}

	slog.Debug("Checkpoint saved", "runID", f.runID, "path", f.path())
	return nil
}

// Load restores the latest snapshot into solver and state, which must be
// pointers (or interfaces holding pointers). It reports false when no
// checkpoint exists for this run.
func (f *File[S, T]) Load(solver S, state T) (bool, error) {
	data, err := os.ReadFile(f.path())
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	env := envelope[S, T]{Solver: solver, State: state}
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("failed to deserialize checkpoint: %w", err)
	}

	slog.Debug("Checkpoint loaded", "runID", f.runID, "path", f.path())
	return true, nil
}

// Frequency implements core.Checkpoint.
func (f *File[S, T]) Frequency() core.CheckpointingFrequency {
	return f.freq
}

// RunInfo summarizes a stored checkpoint without loading the full state.
type RunInfo struct {
	RunID     string
	BestCost  float64
	Iter      uint64
	Timestamp time.Time
}

// List scans baseDir for run checkpoints and returns their metadata.
// Corrupted checkpoints are skipped with a warning.
func List(baseDir string) ([]RunInfo, error) {
	runsDir := filepath.Join(baseDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return []RunInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var infos []RunInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(runsDir, entry.Name(), "checkpoint.json")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var meta struct {
			Timestamp time.Time `json:"timestamp"`
			State     struct {
				BestCost *float64 `json:"bestCost"`
				Iter     uint64   `json:"iter"`
			} `json:"state"`
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			slog.Warn("Skipping unreadable checkpoint", "runID", entry.Name(), "error", err)
			continue
		}

		info := RunInfo{RunID: entry.Name(), Iter: meta.State.Iter, Timestamp: meta.Timestamp}
		if meta.State.BestCost != nil {
			info.BestCost = *meta.State.BestCost
		} else {
			info.BestCost = math.Inf(1)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Delete removes a run's checkpoint directory and everything in it.
func Delete(baseDir, runID string) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	dir := filepath.Join(baseDir, "runs", runID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{RunID: runID}
	} else if err != nil {
		return fmt.Errorf("failed to stat run directory: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}
	return nil
}
