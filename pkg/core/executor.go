package core

import "time"

type observerEntry[P, G, J, H any, F Float] struct {
	observer Observer[P, G, J, H, F]
	mode     ObserverMode
}

// Executor runs one Solver to completion against one Problem, enforcing
// cross-cutting policies solvers should not re-implement: the iteration
// budget, a wall-clock budget, the target-cost early exit, observer fan-out
// and checkpoint cadence.
//
// The run is single-threaded and cooperative: cancellation is polled only at
// iteration boundaries, and the Problem and IterState are exclusively owned
// by the Executor for the run's duration.
type Executor[P, G, J, H any, F Float] struct {
	solver     Solver[P, G, J, H, F]
	problem    *Problem[P, G, J, H, F]
	state      *IterState[P, G, J, H, F]
	observers  []observerEntry[P, G, J, H, F]
	checkpoint Checkpoint[Solver[P, G, J, H, F], *IterState[P, G, J, H, F]]
	timeout    time.Duration
}

// NewExecutor binds a solver to a problem with a fresh state.
func NewExecutor[P, G, J, H any, F Float](
	problem *Problem[P, G, J, H, F],
	solver Solver[P, G, J, H, F],
) *Executor[P, G, J, H, F] {
	return &Executor[P, G, J, H, F]{
		solver:  solver,
		problem: problem,
		state:   NewIterState[P, G, J, H, F](),
	}
}

// Configure mutates the run's initial state: initial parameter vector,
// budgets, target cost and pre-computed derivatives.
func (e *Executor[P, G, J, H, F]) Configure(fn func(state *IterState[P, G, J, H, F])) *Executor[P, G, J, H, F] {
	fn(e.state)
	return e
}

// AddObserver registers an observer with the given notification mode.
func (e *Executor[P, G, J, H, F]) AddObserver(o Observer[P, G, J, H, F], mode ObserverMode) *Executor[P, G, J, H, F] {
	e.observers = append(e.observers, observerEntry[P, G, J, H, F]{observer: o, mode: mode})
	return e
}

// Checkpointing registers a checkpoint store.
func (e *Executor[P, G, J, H, F]) Checkpointing(c Checkpoint[Solver[P, G, J, H, F], *IterState[P, G, J, H, F]]) *Executor[P, G, J, H, F] {
	e.checkpoint = c
	return e
}

// Timeout bounds the total elapsed wall-clock time of the run.
func (e *Executor[P, G, J, H, F]) Timeout(d time.Duration) *Executor[P, G, J, H, F] {
	e.timeout = d
	return e
}

// Run drives the solver until a terminal reason is reached. Any error from
// the solver, an observer or the checkpoint store aborts the run immediately
// and is surfaced unmodified; retrying is the caller's responsibility.
func (e *Executor[P, G, J, H, F]) Run() (*OptimizationResult[P, G, J, H, F], error) {
	start := time.Now()

	kv, err := e.solver.Init(e.problem, e.state)
	if err != nil {
		return nil, err
	}
	e.state.Update()
	e.state.RecordCounts(e.problem)
	e.state.Terminate(e.solver.Terminate(e.state))

	if err := e.observeInit(kv); err != nil {
		return nil, err
	}

	for !e.state.Terminated() {
		kv, err := e.solver.NextIter(e.problem, e.state)
		if err != nil {
			return nil, err
		}
		e.state.IncrementIter()
		e.state.Update()
		e.state.RecordCounts(e.problem)
		e.state.SetElapsed(time.Since(start))

		merged := e.metricsKV().Merge(kv)

		// Final verdict precedence: solver verdict over executor policy.
		e.state.Terminate(e.solver.Terminate(e.state))
		if !e.state.Terminated() {
			switch {
			case e.state.Iter() >= e.state.MaxIters():
				e.state.Terminate(MaxItersReached)
			case e.timeout > 0 && e.state.Elapsed() >= e.timeout:
				e.state.Terminate(MaxTimeReached)
			case e.state.BestCost() <= e.state.TargetCost():
				e.state.Terminate(TargetCostReached)
			}
		}

		if err := e.observeIter(merged); err != nil {
			return nil, err
		}
		if e.checkpoint != nil && e.checkpoint.Frequency().Due(e.state.Iter()) {
			if err := e.checkpoint.Save(e.solver, e.state); err != nil {
				return nil, err
			}
		}
	}

	e.state.SetElapsed(time.Since(start))
	return &OptimizationResult[P, G, J, H, F]{
		SolverName: e.solver.Name(),
		State:      e.state,
		Counts:     e.problem.Counts(),
	}, nil
}

func (e *Executor[P, G, J, H, F]) metricsKV() *KV {
	c := e.state.EvalCounts()
	return NewKV().
		Push("iter", e.state.Iter()).
		Push("cost", e.state.Cost()).
		Push("best_cost", e.state.BestCost()).
		Push("cost_count", c.Cost).
		Push("gradient_count", c.Gradient).
		Push("jacobian_count", c.Jacobian).
		Push("hessian_count", c.Hessian).
		Push("elapsed", e.state.Elapsed())
}

func (e *Executor[P, G, J, H, F]) observeInit(kv *KV) error {
	for _, entry := range e.observers {
		if entry.mode.kind == observeNever {
			continue
		}
		snap := *e.state
		if err := entry.observer.ObserveInit(e.solver.Name(), &snap, kv); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor[P, G, J, H, F]) observeIter(kv *KV) error {
	for _, entry := range e.observers {
		if !entry.mode.due(e.state.Iter(), e.state.IsBest()) {
			continue
		}
		snap := *e.state
		if err := entry.observer.ObserveIter(&snap, kv); err != nil {
			return err
		}
	}
	return nil
}
