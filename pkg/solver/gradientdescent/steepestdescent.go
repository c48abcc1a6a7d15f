// Package gradientdescent implements steepest descent with a pluggable line
// search.
package gradientdescent

import (
	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
	"github.com/Orca-bit/argmin/pkg/solver/linesearch"
)

// Param constrains the parameter type. Steepest descent searches along the
// negated gradient, so parameters and gradients share one type.
type Param[P any, F core.Float] interface {
	linalg.Dotter[P, F]
	linalg.ScaledAdder[P, F]
	linalg.Scaler[P, F]
	linalg.Normer[F]
}

// SteepestDescent walks along the negated gradient, delegating step-length
// selection to a line search run through a nested Executor on the same
// Problem, so evaluation counts aggregate across the whole run.
type SteepestDescent[P Param[P, F], J, H any, F core.Float] struct {
	linesearch linesearch.Searcher[P, P, J, H, F]
	gradTol    F
	lsMaxIters uint64
}

// New creates a steepest descent solver around the given line search.
func New[P Param[P, F], J, H any, F core.Float](ls linesearch.Searcher[P, P, J, H, F]) *SteepestDescent[P, J, H, F] {
	return &SteepestDescent[P, J, H, F]{
		linesearch: ls,
		gradTol:    1e-6,
		lsMaxIters: 10,
	}
}

// SetGradTol sets the gradient-norm threshold below which the run counts as
// converged.
func (sd *SteepestDescent[P, J, H, F]) SetGradTol(tol F) error {
	if tol <= 0 {
		return &core.InvalidParameterError{Reason: "gradient tolerance must be > 0"}
	}
	sd.gradTol = tol
	return nil
}

// SetLineSearchMaxIters bounds each inner line search run.
func (sd *SteepestDescent[P, J, H, F]) SetLineSearchMaxIters(n uint64) error {
	if n == 0 {
		return &core.InvalidParameterError{Reason: "line search iteration budget must be positive"}
	}
	sd.lsMaxIters = n
	return nil
}

// Name implements core.Solver.
func (sd *SteepestDescent[P, J, H, F]) Name() string {
	return "Steepest descent"
}

// Init verifies that an initial parameter vector was configured.
func (sd *SteepestDescent[P, J, H, F]) Init(
	_ *core.Problem[P, P, J, H, F],
	state *core.IterState[P, P, J, H, F],
) (*core.KV, error) {
	if _, ok := state.Param(); !ok {
		return nil, &core.NotInitializedError{What: "initial parameter"}
	}
	return nil, nil
}

// NextIter performs one descent step: evaluate the gradient, search along
// its negation, and move to the best step the line search found.
func (sd *SteepestDescent[P, J, H, F]) NextIter(
	problem *core.Problem[P, P, J, H, F],
	state *core.IterState[P, P, J, H, F],
) (*core.KV, error) {
	param, ok := state.Param()
	if !ok {
		return nil, &core.NotInitializedError{What: "parameter"}
	}

	grad, ok := state.TakeGrad()
	if !ok {
		g, err := problem.Gradient(param)
		if err != nil {
			return nil, err
		}
		grad = g
	}

	cost := state.Cost()
	if core.IsInf(cost, 1) {
		c, err := problem.Cost(param)
		if err != nil {
			return nil, err
		}
		cost = c
	}

	sd.linesearch.SetSearchDirection(grad.Scale(-1))

	inner := core.NewExecutor[P, P, J, H, F](problem, sd.linesearch).
		Configure(func(s *core.IterState[P, P, J, H, F]) {
			s.SetParam(param).SetCost(cost).SetGrad(grad).SetMaxIters(sd.lsMaxIters)
		})
	res, err := inner.Run()
	if err != nil {
		return nil, err
	}

	bestParam, ok := res.State.BestParam()
	if !ok {
		return nil, &core.PotentialBugError{Reason: "line search produced no parameter"}
	}

	newGrad, err := problem.Gradient(bestParam)
	if err != nil {
		return nil, err
	}

	state.SetParam(bestParam)
	state.SetCost(res.State.BestCost())
	state.SetGrad(newGrad)

	return core.NewKV().Push("gradient_norm", newGrad.Norm()), nil
}

// Terminate reports convergence once the gradient norm falls below the
// configured tolerance.
func (sd *SteepestDescent[P, J, H, F]) Terminate(state *core.IterState[P, P, J, H, F]) core.TerminationReason {
	if g, ok := state.Grad(); ok && g.Norm() < sd.gradTol {
		return core.Converged
	}
	return core.NotTerminated
}
