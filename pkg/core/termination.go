package core

// TerminationReason classifies why (or whether) an optimization run stopped.
// Once a state carries a terminal reason it is never reverted.
type TerminationReason int

const (
	// NotTerminated means the run is still in progress.
	NotTerminated TerminationReason = iota
	// MaxItersReached means the iteration budget was exhausted.
	MaxItersReached
	// MaxTimeReached means the wall-clock budget was exhausted.
	MaxTimeReached
	// TargetCostReached means the best cost fell to or below the target.
	TargetCostReached
	// Converged means the solver detected convergence on its own terms.
	Converged
	// LineSearchConditionMet means a step satisfying the Wolfe or
	// approximate Wolfe conditions was found.
	LineSearchConditionMet
	// Aborted means the run was stopped by a collaborator failure.
	Aborted
)

// Terminated reports whether the reason is terminal.
func (r TerminationReason) Terminated() bool {
	return r != NotTerminated
}

func (r TerminationReason) String() string {
	switch r {
	case NotTerminated:
		return "not terminated"
	case MaxItersReached:
		return "maximum number of iterations reached"
	case MaxTimeReached:
		return "maximum time reached"
	case TargetCostReached:
		return "target cost reached"
	case Converged:
		return "converged"
	case LineSearchConditionMet:
		return "line search condition met"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}
