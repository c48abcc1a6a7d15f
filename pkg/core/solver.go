package core

// Solver is a pluggable algorithm strategy driven by an Executor through a
// uniform lifecycle:
//
//	Uninitialized -> Initialized -> Iterating -> Terminated
//
// Init is called exactly once before the first iteration; it may itself
// detect a terminal condition and record it on the state. NextIter is called
// repeatedly and may invoke any number of Problem evaluations, each of which
// is counted. Terminate is a pure predicate consulted once after Init and
// once after every NextIter; it never fails, it only classifies.
//
// An error from Init or NextIter is fatal for the run: the framework makes
// no attempt at partial resumption.
type Solver[P, G, J, H any, F Float] interface {
	// Name identifies the algorithm in results and observer output.
	Name() string
	Init(problem *Problem[P, G, J, H, F], state *IterState[P, G, J, H, F]) (*KV, error)
	NextIter(problem *Problem[P, G, J, H, F], state *IterState[P, G, J, H, F]) (*KV, error)
	Terminate(state *IterState[P, G, J, H, F]) TerminationReason
}
