// Package linesearch provides step-length search methods along a fixed
// direction, driven through the core solver lifecycle.
package linesearch

import (
	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
)

// LineSearch is the configuration surface shared by all line searches.
type LineSearch[P any, F core.Float] interface {
	// SetSearchDirection fixes the direction the search walks along. It
	// must be called before the search is initialized.
	SetSearchDirection(direction P)
	// SetInitAlpha sets the first probed step length.
	SetInitAlpha(alpha F) error
}

// Searcher is a line search usable as a solver.
type Searcher[P, G, J, H any, F core.Float] interface {
	core.Solver[P, G, J, H, F]
	LineSearch[P, F]
}

// Param constrains parameter types usable by the line searches in this
// package: forming trial points needs a scaled add along the direction, and
// the directional derivative needs an inner product with the gradient.
type Param[P, G any, F core.Float] interface {
	linalg.Dotter[G, F]
	linalg.ScaledAdder[P, F]
}

// Grad constrains gradient types usable by the line searches in this
// package.
type Grad[P any, F core.Float] interface {
	linalg.Dotter[P, F]
}
