package core

import (
	"fmt"
	"strings"
)

// OptimizationResult bundles the final state of a completed run.
type OptimizationResult[P, G, J, H any, F Float] struct {
	SolverName string
	State      *IterState[P, G, J, H, F]
	Counts     EvalCounts
}

func (r *OptimizationResult[P, G, J, H, F]) String() string {
	var b strings.Builder
	b.WriteString("OptimizationResult:\n")
	fmt.Fprintf(&b, "    solver:       %s\n", r.SolverName)
	if p, ok := r.State.BestParam(); ok {
		fmt.Fprintf(&b, "    param (best): %v\n", p)
	}
	fmt.Fprintf(&b, "    cost (best):  %v\n", r.State.BestCost())
	fmt.Fprintf(&b, "    iterations:   %d\n", r.State.Iter())
	fmt.Fprintf(&b, "    termination:  %s\n", r.State.TerminationReason())
	fmt.Fprintf(&b, "    elapsed:      %s\n", r.State.Elapsed())
	c := r.Counts
	fmt.Fprintf(&b, "    evaluations:  cost=%d gradient=%d jacobian=%d hessian=%d\n",
		c.Cost, c.Gradient, c.Jacobian, c.Hessian)
	return b.String()
}
