package core

type checkpointKind int

const (
	checkpointAlways checkpointKind = iota
	checkpointNever
	checkpointEvery
)

// CheckpointingFrequency controls the cadence at which a run is persisted.
type CheckpointingFrequency struct {
	kind  checkpointKind
	every uint64
}

// CheckpointAlways persists after every iteration.
func CheckpointAlways() CheckpointingFrequency {
	return CheckpointingFrequency{kind: checkpointAlways}
}

// CheckpointNever disables checkpointing.
func CheckpointNever() CheckpointingFrequency {
	return CheckpointingFrequency{kind: checkpointNever}
}

// CheckpointEvery persists every n-th iteration.
func CheckpointEvery(n uint64) CheckpointingFrequency {
	if n == 0 {
		n = 1
	}
	return CheckpointingFrequency{kind: checkpointEvery, every: n}
}

// Due reports whether a checkpoint is due at the given iteration.
func (f CheckpointingFrequency) Due(iter uint64) bool {
	switch f.kind {
	case checkpointNever:
		return false
	case checkpointEvery:
		return iter%f.every == 0
	default:
		return true
	}
}

// Checkpoint persists (solver, state) snapshots at a configurable cadence
// and restores them. A checkpoint failure aborts the run; retrying from the
// last persisted snapshot is the caller's responsibility.
type Checkpoint[S, T any] interface {
	Save(solver S, state T) error
	// Load restores a previously saved snapshot into solver and state. It
	// reports false when no checkpoint exists.
	Load(solver S, state T) (bool, error)
	Frequency() CheckpointingFrequency
}
