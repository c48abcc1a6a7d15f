package core

// CostFunction evaluates the objective at a parameter vector.
type CostFunction[P any, F Float] interface {
	Cost(param P) (F, error)
}

// Gradient evaluates the gradient of the objective.
type Gradient[P, G any] interface {
	Gradient(param P) (G, error)
}

// Hessian evaluates the Hessian of the objective.
type Hessian[P, H any] interface {
	Hessian(param P) (H, error)
}

// Jacobian evaluates the Jacobian of the objective.
type Jacobian[P, J any] interface {
	Jacobian(param P) (J, error)
}

// Operator applies an operator to a parameter vector. It is consumed by
// solvers that need it directly and is not routed through Problem.
type Operator[P, U any] interface {
	Apply(param P) (U, error)
}

// EvalCounts is a snapshot of a Problem's invocation counters.
type EvalCounts struct {
	Cost     uint64 `json:"costCount"`
	Gradient uint64 `json:"gradCount"`
	Jacobian uint64 `json:"jacobianCount"`
	Hessian  uint64 `json:"hessianCount"`
}

// Problem wraps a user objective and counts every evaluation. It performs no
// caching: every call re-evaluates the underlying callback. The counters are
// the only externally visible side effect.
//
// A Problem is exclusively owned by the Executor driving it for the duration
// of a run.
type Problem[P, G, J, H any, F Float] struct {
	cost     CostFunction[P, F]
	gradient Gradient[P, G]
	jacobian Jacobian[P, J]
	hessian  Hessian[P, H]
	counts   EvalCounts
}

// NewProblem wraps an objective, discovering which of the evaluation
// capabilities it provides. Calling an evaluation the objective does not
// implement yields a NotImplementedError.
func NewProblem[P, G, J, H any, F Float](objective any) *Problem[P, G, J, H, F] {
	p := &Problem[P, G, J, H, F]{}
	if c, ok := objective.(CostFunction[P, F]); ok {
		p.cost = c
	}
	if g, ok := objective.(Gradient[P, G]); ok {
		p.gradient = g
	}
	if j, ok := objective.(Jacobian[P, J]); ok {
		p.jacobian = j
	}
	if h, ok := objective.(Hessian[P, H]); ok {
		p.hessian = h
	}
	return p
}

// Cost evaluates the objective, counting the invocation.
func (p *Problem[P, G, J, H, F]) Cost(param P) (F, error) {
	if p.cost == nil {
		var zero F
		return zero, &NotImplementedError{Op: "cost"}
	}
	p.counts.Cost++
	return p.cost.Cost(param)
}

// Gradient evaluates the gradient, counting the invocation.
func (p *Problem[P, G, J, H, F]) Gradient(param P) (G, error) {
	if p.gradient == nil {
		var zero G
		return zero, &NotImplementedError{Op: "gradient"}
	}
	p.counts.Gradient++
	return p.gradient.Gradient(param)
}

// Jacobian evaluates the Jacobian, counting the invocation.
func (p *Problem[P, G, J, H, F]) Jacobian(param P) (J, error) {
	if p.jacobian == nil {
		var zero J
		return zero, &NotImplementedError{Op: "jacobian"}
	}
	p.counts.Jacobian++
	return p.jacobian.Jacobian(param)
}

// Hessian evaluates the Hessian, counting the invocation.
func (p *Problem[P, G, J, H, F]) Hessian(param P) (H, error) {
	if p.hessian == nil {
		var zero H
		return zero, &NotImplementedError{Op: "hessian"}
	}
	p.counts.Hessian++
	return p.hessian.Hessian(param)
}

// Counts returns a snapshot of the invocation counters.
func (p *Problem[P, G, J, H, F]) Counts() EvalCounts {
	return p.counts
}
