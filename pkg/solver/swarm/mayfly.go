// Package swarm adapts the external mayfly population optimizer to the core
// solver lifecycle for derivative-free objectives.
package swarm

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"

	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
)

// Mayfly runs the external mayfly optimizer in bounded chunks, one chunk per
// iteration, keeping the best position found so far. It needs only cost
// evaluations, no derivatives.
//
// The population is rebuilt for every chunk; resuming from a checkpoint
// restarts the population but keeps the best parameter vector, so the best
// cost never regresses.
type Mayfly[J, H any] struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Dim        int     `json:"dim"`
	PopSize    int     `json:"popSize"`
	ChunkIters int     `json:"chunkIters"`
	Seed       int64   `json:"seed"`

	patience        int
	threshold       float64
	stale           int
	lastSignificant float64
}

// New creates a mayfly solver over the scalar bounds [lower, upper] applied
// to each of dim dimensions.
func New[J, H any](dim int, lower, upper float64) (*Mayfly[J, H], error) {
	if dim <= 0 {
		return nil, &core.InvalidParameterError{Reason: "dimension must be positive"}
	}
	if upper <= lower {
		return nil, &core.InvalidParameterError{Reason: "upper bound must exceed lower bound"}
	}
	return &Mayfly[J, H]{
		Lower:           lower,
		Upper:           upper,
		Dim:             dim,
		PopSize:         30,
		ChunkIters:      20,
		Seed:            42,
		patience:        3,
		threshold:       1e-3,
		lastSignificant: math.Inf(1),
	}, nil
}

// SetStall configures convergence detection: the run converges after
// patience chunks without a relative best-cost improvement of at least
// threshold.
func (m *Mayfly[J, H]) SetStall(patience int, threshold float64) error {
	if patience <= 0 {
		return &core.InvalidParameterError{Reason: "patience must be positive"}
	}
	if threshold <= 0 {
		return &core.InvalidParameterError{Reason: "threshold must be positive"}
	}
	m.patience = patience
	m.threshold = threshold
	return nil
}

// Name implements core.Solver.
func (m *Mayfly[J, H]) Name() string {
	return "Mayfly population search"
}

// Init draws a starting point within the bounds when none was configured
// and evaluates it.
func (m *Mayfly[J, H]) Init(
	problem *core.Problem[linalg.Vec, linalg.Vec, J, H, float64],
	state *core.IterState[linalg.Vec, linalg.Vec, J, H, float64],
) (*core.KV, error) {
	param, ok := state.Param()
	if !ok {
		lower := linalg.Fill(m.Dim, m.Lower)
		upper := linalg.Fill(m.Dim, m.Upper)
		param = lower.RandFromRange(upper, rand.New(rand.NewSource(m.Seed)))
		state.SetParam(param)
	}
	cost, err := problem.Cost(param)
	if err != nil {
		return nil, err
	}
	state.SetCost(cost)
	m.lastSignificant = cost
	return nil, nil
}

// NextIter runs one mayfly chunk and records its best position.
func (m *Mayfly[J, H]) NextIter(
	problem *core.Problem[linalg.Vec, linalg.Vec, J, H, float64],
	state *core.IterState[linalg.Vec, linalg.Vec, J, H, float64],
) (*core.KV, error) {
	var evalErr error
	eval := func(x []float64) float64 {
		f, err := problem.Cost(linalg.Vec(x))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.Inf(1)
		}
		return f
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = m.Dim
	config.MaxIterations = m.ChunkIters
	config.NPop = m.PopSize
	config.LowerBound = m.Lower
	config.UpperBound = m.Upper
	config.Rand = rand.New(rand.NewSource(m.Seed + int64(state.Iter())))

	result, err := mayfly.Optimize(config)
	if evalErr != nil {
		return nil, evalErr
	}
	if err != nil {
		return nil, fmt.Errorf("mayfly optimization failed: %w", err)
	}

	cost := result.GlobalBest.Cost
	state.SetParam(linalg.Vec(result.GlobalBest.Position))
	state.SetCost(cost)

	m.observeStall(math.Min(cost, state.BestCost()))

	return core.NewKV().
		Push("chunk_best", cost).
		Push("stale_chunks", m.stale), nil
}

// observeStall tracks chunks without significant relative improvement.
func (m *Mayfly[J, H]) observeStall(cost float64) {
	var improvement float64
	if m.lastSignificant != 0 && !math.IsInf(m.lastSignificant, 0) {
		improvement = (m.lastSignificant - cost) / math.Abs(m.lastSignificant)
	} else {
		improvement = m.lastSignificant - cost
	}
	if improvement >= m.threshold {
		m.lastSignificant = cost
		m.stale = 0
		return
	}
	m.stale++
}

// Terminate reports convergence once the best cost stalled for the
// configured number of chunks.
func (m *Mayfly[J, H]) Terminate(_ *core.IterState[linalg.Vec, linalg.Vec, J, H, float64]) core.TerminationReason {
	if m.stale >= m.patience {
		return core.Converged
	}
	return core.NotTerminated
}
