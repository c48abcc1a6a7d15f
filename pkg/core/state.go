package core

import (
	"encoding/json"
	"math"
	"time"
)

// IterState is the mutable record of one optimization run's progress. It is
// generic over the parameter type P, gradient G, Jacobian J, Hessian H and
// scalar F.
//
// Cost is +infinity until the first evaluation, and bestCost never exceeds
// cost after the first Update. Derivative slots follow take-once semantics:
// a derivative set by a solver or the framework can be taken exactly once
// before it has to be recomputed.
type IterState[P, G, J, H any, F Float] struct {
	param        *P
	bestParam    *P
	cost         F
	bestCost     F
	targetCost   F
	grad         *G
	jacobian     *J
	hessian      *H
	iter         uint64
	lastBestIter uint64
	maxIters     uint64
	counts       EvalCounts
	elapsed      time.Duration
	termination  TerminationReason
}

// NewIterState returns a fresh state: cost at +infinity, no iteration budget
// and no target cost.
func NewIterState[P, G, J, H any, F Float]() *IterState[P, G, J, H, F] {
	return &IterState[P, G, J, H, F]{
		cost:       Inf[F](1),
		bestCost:   Inf[F](1),
		targetCost: Inf[F](-1),
		maxIters:   math.MaxUint64,
	}
}

// SetParam sets the current parameter vector. Param and cost are always
// updated as a pair; call Update afterwards to apply the improve-or-keep
// rule.
func (s *IterState[P, G, J, H, F]) SetParam(param P) *IterState[P, G, J, H, F] {
	s.param = &param
	return s
}

// SetCost sets the cost paired with the current parameter vector.
func (s *IterState[P, G, J, H, F]) SetCost(cost F) *IterState[P, G, J, H, F] {
	s.cost = cost
	return s
}

// SetGrad stores a gradient for later consumption via TakeGrad.
func (s *IterState[P, G, J, H, F]) SetGrad(grad G) *IterState[P, G, J, H, F] {
	s.grad = &grad
	return s
}

// SetJacobian stores a Jacobian for later consumption via TakeJacobian.
func (s *IterState[P, G, J, H, F]) SetJacobian(jacobian J) *IterState[P, G, J, H, F] {
	s.jacobian = &jacobian
	return s
}

// SetHessian stores a Hessian for later consumption via TakeHessian.
func (s *IterState[P, G, J, H, F]) SetHessian(hessian H) *IterState[P, G, J, H, F] {
	s.hessian = &hessian
	return s
}

// SetMaxIters sets the iteration budget.
func (s *IterState[P, G, J, H, F]) SetMaxIters(n uint64) *IterState[P, G, J, H, F] {
	s.maxIters = n
	return s
}

// SetTargetCost enables the target-cost early exit policy.
func (s *IterState[P, G, J, H, F]) SetTargetCost(target F) *IterState[P, G, J, H, F] {
	s.targetCost = target
	return s
}

// SetElapsed records the elapsed wall-clock time.
func (s *IterState[P, G, J, H, F]) SetElapsed(d time.Duration) *IterState[P, G, J, H, F] {
	s.elapsed = d
	return s
}

// Update applies the improve-or-keep rule: if the current param/cost pair is
// the first one seen, or improves on the best cost, it atomically becomes
// the best pair.
func (s *IterState[P, G, J, H, F]) Update() {
	if s.param == nil {
		return
	}
	if s.bestParam == nil || s.cost < s.bestCost || (IsNaN(s.cost) && IsNaN(s.bestCost)) {
		s.bestParam = s.param
		s.bestCost = s.cost
		s.lastBestIter = s.iter
	}
}

// Param returns the current parameter vector, if any.
func (s *IterState[P, G, J, H, F]) Param() (P, bool) {
	if s.param == nil {
		var zero P
		return zero, false
	}
	return *s.param, true
}

// BestParam returns the best parameter vector seen so far, if any.
func (s *IterState[P, G, J, H, F]) BestParam() (P, bool) {
	if s.bestParam == nil {
		var zero P
		return zero, false
	}
	return *s.bestParam, true
}

// TakeParam removes and returns the current parameter vector.
func (s *IterState[P, G, J, H, F]) TakeParam() (P, bool) {
	if s.param == nil {
		var zero P
		return zero, false
	}
	p := *s.param
	s.param = nil
	return p, true
}

// Grad returns the stored gradient without consuming it.
func (s *IterState[P, G, J, H, F]) Grad() (G, bool) {
	if s.grad == nil {
		var zero G
		return zero, false
	}
	return *s.grad, true
}

// TakeGrad removes and returns the stored gradient. A second take without an
// intervening SetGrad reports false.
func (s *IterState[P, G, J, H, F]) TakeGrad() (G, bool) {
	if s.grad == nil {
		var zero G
		return zero, false
	}
	g := *s.grad
	s.grad = nil
	return g, true
}

// TakeJacobian removes and returns the stored Jacobian.
func (s *IterState[P, G, J, H, F]) TakeJacobian() (J, bool) {
	if s.jacobian == nil {
		var zero J
		return zero, false
	}
	j := *s.jacobian
	s.jacobian = nil
	return j, true
}

// TakeHessian removes and returns the stored Hessian.
func (s *IterState[P, G, J, H, F]) TakeHessian() (H, bool) {
	if s.hessian == nil {
		var zero H
		return zero, false
	}
	h := *s.hessian
	s.hessian = nil
	return h, true
}

// Cost returns the cost paired with the current parameter vector.
func (s *IterState[P, G, J, H, F]) Cost() F { return s.cost }

// BestCost returns the best cost seen so far.
func (s *IterState[P, G, J, H, F]) BestCost() F { return s.bestCost }

// TargetCost returns the configured target cost (-infinity when unset).
func (s *IterState[P, G, J, H, F]) TargetCost() F { return s.targetCost }

// Iter returns the iteration counter.
func (s *IterState[P, G, J, H, F]) Iter() uint64 { return s.iter }

// LastBestIter returns the iteration at which the best pair was last updated.
func (s *IterState[P, G, J, H, F]) LastBestIter() uint64 { return s.lastBestIter }

// MaxIters returns the iteration budget.
func (s *IterState[P, G, J, H, F]) MaxIters() uint64 { return s.maxIters }

// Elapsed returns the recorded wall-clock time.
func (s *IterState[P, G, J, H, F]) Elapsed() time.Duration { return s.elapsed }

// EvalCounts returns the evaluation counters recorded for this state.
func (s *IterState[P, G, J, H, F]) EvalCounts() EvalCounts { return s.counts }

// RecordCounts copies the problem's invocation counters into the state.
func (s *IterState[P, G, J, H, F]) RecordCounts(p *Problem[P, G, J, H, F]) {
	s.counts = p.Counts()
}

// IncrementIter advances the iteration counter. It is called once per
// Executor loop pass regardless of how many evaluations the solver performed.
func (s *IterState[P, G, J, H, F]) IncrementIter() {
	s.iter++
}

// IsBest reports whether the current iteration produced a new best pair.
func (s *IterState[P, G, J, H, F]) IsBest() bool {
	return s.lastBestIter == s.iter
}

// Terminate records a terminal reason. Termination is monotonic: once a
// terminal reason is set it is never replaced or reverted.
func (s *IterState[P, G, J, H, F]) Terminate(reason TerminationReason) {
	if s.termination == NotTerminated && reason.Terminated() {
		s.termination = reason
	}
}

// ResetTermination clears a recorded terminal reason so a restored run can
// continue past the point it previously stopped at.
func (s *IterState[P, G, J, H, F]) ResetTermination() {
	s.termination = NotTerminated
}

// TerminationReason returns the recorded reason.
func (s *IterState[P, G, J, H, F]) TerminationReason() TerminationReason {
	return s.termination
}

// Terminated reports whether a terminal reason has been recorded.
func (s *IterState[P, G, J, H, F]) Terminated() bool {
	return s.termination.Terminated()
}

// iterStateJSON is the serialized form of IterState. Non-finite scalars are
// encoded as absent fields and restored to their defaults on load.
type iterStateJSON[P, G, J, H any] struct {
	Param        *P                `json:"param,omitempty"`
	BestParam    *P                `json:"bestParam,omitempty"`
	Cost         *float64          `json:"cost,omitempty"`
	BestCost     *float64          `json:"bestCost,omitempty"`
	TargetCost   *float64          `json:"targetCost,omitempty"`
	Grad         *G                `json:"grad,omitempty"`
	Jacobian     *J                `json:"jacobian,omitempty"`
	Hessian      *H                `json:"hessian,omitempty"`
	Iter         uint64            `json:"iter"`
	LastBestIter uint64            `json:"lastBestIter"`
	MaxIters     uint64            `json:"maxIters"`
	Counts       EvalCounts        `json:"evalCounts"`
	ElapsedNS    int64             `json:"elapsedNs"`
	Termination  TerminationReason `json:"terminationReason"`
}

func finiteFloat[F Float](x F) *float64 {
	if !IsFinite(x) {
		return nil
	}
	v := float64(x)
	return &v
}

func floatOr[F Float](v *float64, def F) F {
	if v == nil {
		return def
	}
	return F(*v)
}

func (s *IterState[P, G, J, H, F]) MarshalJSON() ([]byte, error) {
	return json.Marshal(iterStateJSON[P, G, J, H]{
		Param:        s.param,
		BestParam:    s.bestParam,
		Cost:         finiteFloat(s.cost),
		BestCost:     finiteFloat(s.bestCost),
		TargetCost:   finiteFloat(s.targetCost),
		Grad:         s.grad,
		Jacobian:     s.jacobian,
		Hessian:      s.hessian,
		Iter:         s.iter,
		LastBestIter: s.lastBestIter,
		MaxIters:     s.maxIters,
		Counts:       s.counts,
		ElapsedNS:    int64(s.elapsed),
		Termination:  s.termination,
	})
}

func (s *IterState[P, G, J, H, F]) UnmarshalJSON(data []byte) error {
	var dec iterStateJSON[P, G, J, H]
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	s.param = dec.Param
	s.bestParam = dec.BestParam
	s.cost = floatOr(dec.Cost, Inf[F](1))
	s.bestCost = floatOr(dec.BestCost, Inf[F](1))
	s.targetCost = floatOr(dec.TargetCost, Inf[F](-1))
	s.grad = dec.Grad
	s.jacobian = dec.Jacobian
	s.hessian = dec.Hessian
	s.iter = dec.Iter
	s.lastBestIter = dec.LastBestIter
	s.maxIters = dec.MaxIters
	s.counts = dec.Counts
	s.elapsed = time.Duration(dec.ElapsedNS)
	s.termination = dec.Termination
	return nil
}
