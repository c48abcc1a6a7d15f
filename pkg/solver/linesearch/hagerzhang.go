package linesearch

import (
	"github.com/Orca-bit/argmin/pkg/core"
)

// maxBracketSteps bounds the inner bisection of the bracket update rule.
// The reference procedure only terminates by floating-point resolution;
// running out of steps means the case analysis itself is broken.
const maxBracketSteps = 64

// triplet carries a step length together with the cost and directional
// derivative evaluated at it.
type triplet[F core.Float] struct {
	x, f, g F
}

// HagerZhangLineSearch finds a step length which obeys the strong or
// approximate Wolfe conditions.
//
// Reference: William W. Hager and Hongchao Zhang. "A new conjugate gradient
// method with guaranteed descent and an efficient line search." SIAM J.
// Optim. 16(1), 2006, 170-192. DOI: https://doi.org/10.1137/030601880
type HagerZhangLineSearch[P Param[P, G, F], G Grad[P, F], J, H any, F core.Float] struct {
	// delta: (0, 1), used in the Wolfe conditions.
	delta F
	// sigma: [delta, 1), used in the Wolfe conditions.
	sigma F
	// epsilon: [0, inf), used in the approximate Wolfe termination.
	epsilon  F
	epsilonK F
	// theta: (0, 1), used in the update rules when a potential interval
	// violates the opposite slope condition.
	theta F
	// gamma: (0, 1), determines when a bisection step is performed.
	gamma F
	// eta: (0, inf), lower bound parameter of the underlying CG method.
	eta F

	aXInit, bXInit, cXInit F
	a, b, c                triplet[F]
	best                   triplet[F]

	initParam       *P
	initGrad        *G
	searchDirection *P
	finit           F
	dginit          F
}

// NewHagerZhangLineSearch returns a line search with the standard tuning:
// delta=0.1, sigma=0.9, epsilon=1e-6, theta=0.5, gamma=0.66, eta=0.01,
// alpha_min=machine epsilon, alpha_max=100 and an initial probe of 1.
func NewHagerZhangLineSearch[P Param[P, G, F], G Grad[P, F], J, H any, F core.Float]() *HagerZhangLineSearch[P, G, J, H, F] {
	nan := core.NaN[F]()
	return &HagerZhangLineSearch[P, G, J, H, F]{
		delta:    0.1,
		sigma:    0.9,
		epsilon:  1e-6,
		epsilonK: nan,
		theta:    0.5,
		gamma:    0.66,
		eta:      0.01,
		aXInit:   core.MachEps[F](),
		bXInit:   100.0,
		cXInit:   1.0,
		a:        triplet[F]{x: nan, f: nan, g: nan},
		b:        triplet[F]{x: nan, f: nan, g: nan},
		c:        triplet[F]{x: nan, f: nan, g: nan},
		best:     triplet[F]{x: 0, f: core.Inf[F](1), g: nan},
		finit:    core.Inf[F](1),
		dginit:   nan,
	}
}

// SetDelta sets delta, which must lie in (0, 1).
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetDelta(delta F) error {
	if delta <= 0 {
		return &core.InvalidParameterError{Reason: "delta must be > 0"}
	}
	if delta >= 1 {
		return &core.InvalidParameterError{Reason: "delta must be < 1"}
	}
	ls.delta = delta
	return nil
}

// SetSigma sets sigma, which must lie in [delta, 1).
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetSigma(sigma F) error {
	if sigma < ls.delta {
		return &core.InvalidParameterError{Reason: "sigma must be >= delta"}
	}
	if sigma >= 1 {
		return &core.InvalidParameterError{Reason: "sigma must be < 1"}
	}
	ls.sigma = sigma
	return nil
}

// SetEpsilon sets epsilon, which must be non-negative.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetEpsilon(epsilon F) error {
	if epsilon < 0 {
		return &core.InvalidParameterError{Reason: "epsilon must be >= 0"}
	}
	ls.epsilon = epsilon
	return nil
}

// SetTheta sets theta, which must lie in (0, 1).
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetTheta(theta F) error {
	if theta <= 0 {
		return &core.InvalidParameterError{Reason: "theta must be > 0"}
	}
	if theta >= 1 {
		return &core.InvalidParameterError{Reason: "theta must be < 1"}
	}
	ls.theta = theta
	return nil
}

// SetGamma sets gamma, which must lie in (0, 1).
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetGamma(gamma F) error {
	if gamma <= 0 {
		return &core.InvalidParameterError{Reason: "gamma must be > 0"}
	}
	if gamma >= 1 {
		return &core.InvalidParameterError{Reason: "gamma must be < 1"}
	}
	ls.gamma = gamma
	return nil
}

// SetEta sets eta, which must be positive.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetEta(eta F) error {
	if eta <= 0 {
		return &core.InvalidParameterError{Reason: "eta must be > 0"}
	}
	ls.eta = eta
	return nil
}

// SetAlpha sets the step length window [alphaMin, alphaMax].
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetAlpha(alphaMin, alphaMax F) error {
	if alphaMin < 0 {
		return &core.InvalidParameterError{Reason: "alpha_min must be >= 0"}
	}
	if alphaMax <= alphaMin {
		return &core.InvalidParameterError{Reason: "alpha_min must be smaller than alpha_max"}
	}
	ls.aXInit = alphaMin
	ls.bXInit = alphaMax
	return nil
}

// SetSearchDirection implements LineSearch.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetSearchDirection(direction P) {
	ls.searchDirection = &direction
}

// SetInitAlpha implements LineSearch.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) SetInitAlpha(alpha F) error {
	ls.cXInit = alpha
	return nil
}

// phi evaluates the cost along the search direction at step length alpha.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) phi(problem *core.Problem[P, G, J, H, F], alpha F) (F, error) {
	p := (*ls.initParam).ScaledAdd(alpha, *ls.searchDirection)
	return problem.Cost(p)
}

// dphi evaluates the directional derivative at step length alpha.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) dphi(problem *core.Problem[P, G, J, H, F], alpha F) (F, error) {
	p := (*ls.initParam).ScaledAdd(alpha, *ls.searchDirection)
	grad, err := problem.Gradient(p)
	if err != nil {
		var zero F
		return zero, err
	}
	return (*ls.searchDirection).Dot(grad), nil
}

func (ls *HagerZhangLineSearch[P, G, J, H, F]) eval(problem *core.Problem[P, G, J, H, F], alpha F) (triplet[F], error) {
	f, err := ls.phi(problem, alpha)
	if err != nil {
		return triplet[F]{}, err
	}
	g, err := ls.dphi(problem, alpha)
	if err != nil {
		return triplet[F]{}, err
	}
	return triplet[F]{x: alpha, f: f, g: g}, nil
}

// update applies the bracket update rule to [a, b] and a new probe c. The
// incoming bracket is assumed to satisfy the opposite slope condition
// (g(a) < 0 <= g(b), f(a) <= finit + epsilon_k); the returned bracket
// satisfies it as well.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) update(
	problem *core.Problem[P, G, J, H, F],
	a, b, c triplet[F],
) (triplet[F], triplet[F], error) {
	// U0: probe outside (a, b), nothing changes.
	if c.x <= a.x || c.x >= b.x {
		return a, b, nil
	}

	// U1: non-negative slope at c closes the bracket from the right.
	if c.g >= 0 {
		return a, c, nil
	}

	// U2: negative slope but acceptable cost moves the left endpoint.
	if c.f <= ls.finit+ls.epsilonK {
		return c, b, nil
	}

	// U3: negative slope and high cost. Bisect toward a until the slope
	// turns non-negative.
	ah, bh := a, c
	for i := 0; i < maxBracketSteps; i++ {
		dx := (1-ls.theta)*ah.x + ls.theta*bh.x
		d, err := ls.eval(problem, dx)
		if err != nil {
			return triplet[F]{}, triplet[F]{}, err
		}
		if d.g >= 0 {
			return ah, d, nil
		}
		if d.f <= ls.finit+ls.epsilonK {
			ah = d
		} else {
			bh = d
		}
		if core.Abs(bh.x-ah.x) < core.MachEps[F]() {
			break
		}
	}
	return triplet[F]{}, triplet[F]{}, &core.PotentialBugError{
		Reason: "bracket update exhausted without restoring the opposite slope condition",
	}
}

// secant interpolates the root of the derivative between two evaluated
// steps.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) secant(a, b triplet[F]) F {
	return (a.x*b.g - b.x*a.g) / (b.g - a.g)
}

// secant2 performs the double secant step on [a, b]: one secant probe, a
// bracket update, and a second secant probe when the first one landed on the
// endpoint that moved.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) secant2(
	problem *core.Problem[P, G, J, H, F],
	a, b triplet[F],
) (triplet[F], triplet[F], error) {
	c, err := ls.eval(problem, ls.secant(a, b))
	if err != nil {
		return triplet[F]{}, triplet[F]{}, err
	}

	aa, bb, err := ls.update(problem, a, b, c)
	if err != nil {
		return triplet[F]{}, triplet[F]{}, err
	}

	var cbarX F
	hitB := core.Abs(c.x-bb.x) < core.MachEps[F]()
	hitA := core.Abs(c.x-aa.x) < core.MachEps[F]()
	if hitB {
		cbarX = ls.secant(b, bb)
	}
	if hitA {
		cbarX = ls.secant(a, aa)
	}
	if hitA || hitB {
		cbar, err := ls.eval(problem, cbarX)
		if err != nil {
			return triplet[F]{}, triplet[F]{}, err
		}
		return ls.update(problem, aa, bb, cbar)
	}
	return aa, bb, nil
}

// setBest picks the lowest-cost triple; on ties the earlier of a, b, c wins.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) setBest() {
	switch {
	case ls.a.f <= ls.b.f && ls.a.f <= ls.c.f:
		ls.best = ls.a
	case ls.b.f <= ls.a.f && ls.b.f <= ls.c.f:
		ls.best = ls.b
	case ls.c.f <= ls.a.f && ls.c.f <= ls.b.f:
		ls.best = ls.c
	}
}

// Name implements core.Solver.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) Name() string {
	return "Hager-Zhang line search"
}

// Init captures the starting point, evaluates the initial a/b/c triple and
// reports the best of them as the first iterate.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) Init(
	problem *core.Problem[P, G, J, H, F],
	state *core.IterState[P, G, J, H, F],
) (*core.KV, error) {
	if ls.sigma < ls.delta {
		return nil, &core.InvalidParameterError{Reason: "sigma must be >= delta"}
	}
	if ls.searchDirection == nil {
		return nil, &core.NotInitializedError{What: "search direction"}
	}
	initParam, ok := state.Param()
	if !ok {
		return nil, &core.NotInitializedError{What: "initial parameter"}
	}
	ls.initParam = &initParam

	finit := state.Cost()
	if core.IsInf(finit, 1) {
		c, err := problem.Cost(initParam)
		if err != nil {
			return nil, err
		}
		finit = c
	}
	ls.finit = finit

	grad, ok := state.TakeGrad()
	if !ok {
		g, err := problem.Gradient(initParam)
		if err != nil {
			return nil, err
		}
		grad = g
	}
	ls.initGrad = &grad

	var err error
	if ls.a, err = ls.eval(problem, ls.aXInit); err != nil {
		return nil, err
	}
	if ls.b, err = ls.eval(problem, ls.bXInit); err != nil {
		return nil, err
	}
	if ls.c, err = ls.eval(problem, ls.cXInit); err != nil {
		return nil, err
	}

	ls.epsilonK = ls.epsilon * core.Abs(ls.finit)
	ls.dginit = grad.Dot(*ls.searchDirection)

	ls.setBest()
	state.SetParam((*ls.initParam).ScaledAdd(ls.best.x, *ls.searchDirection))
	state.SetCost(ls.best.f)
	return nil, nil
}

// NextIter shrinks the bracket with a double secant step, forcing a
// bisection when the shrinkage was insufficient, and reports the best step
// seen so far.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) NextIter(
	problem *core.Problem[P, G, J, H, F],
	state *core.IterState[P, G, J, H, F],
) (*core.KV, error) {
	at, bt, err := ls.secant2(problem, ls.a, ls.b)
	if err != nil {
		return nil, err
	}

	if bt.x-at.x > ls.gamma*(ls.b.x-ls.a.x) {
		// Insufficient shrinkage: bisect at the midpoint.
		mid, err := ls.eval(problem, (at.x+bt.x)/2)
		if err != nil {
			return nil, err
		}
		at, bt, err = ls.update(problem, at, bt, mid)
		if err != nil {
			return nil, err
		}
	}

	ls.a, ls.b = at, bt

	ls.setBest()
	state.SetParam((*ls.initParam).ScaledAdd(ls.best.x, *ls.searchDirection))
	state.SetCost(ls.best.f)
	return nil, nil
}

// Terminate reports LineSearchConditionMet once the best step satisfies
// either the Wolfe conditions or their approximate variant.
func (ls *HagerZhangLineSearch[P, G, J, H, F]) Terminate(_ *core.IterState[P, G, J, H, F]) core.TerminationReason {
	if ls.best.f-ls.finit <= ls.delta*ls.best.x*ls.dginit &&
		ls.best.g >= ls.sigma*ls.dginit {
		return core.LineSearchConditionMet
	}
	if (2*ls.delta-1)*ls.dginit >= ls.best.g &&
		ls.best.g >= ls.sigma*ls.dginit &&
		ls.best.f <= ls.finit+ls.epsilonK {
		return core.LineSearchConditionMet
	}
	return core.NotTerminated
}
