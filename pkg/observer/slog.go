// Package observer provides concrete observers for optimization runs.
package observer

import (
	"log/slog"

	"github.com/Orca-bit/argmin/pkg/core"
)

// Slog reports iteration records through a structured logger.
type Slog[P, G, J, H any, F core.Float] struct {
	logger *slog.Logger
}

// NewSlog creates a structured-log observer. A nil logger falls back to
// slog.Default().
func NewSlog[P, G, J, H any, F core.Float](logger *slog.Logger) *Slog[P, G, J, H, F] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog[P, G, J, H, F]{logger: logger}
}

// ObserveInit implements core.Observer.
func (o *Slog[P, G, J, H, F]) ObserveInit(name string, state *core.IterState[P, G, J, H, F], kv *core.KV) error {
	args := []any{"max_iters", state.MaxIters()}
	for _, e := range kv.Entries() {
		args = append(args, e.Key, e.Value)
	}
	o.logger.Info(name, args...)
	return nil
}

// ObserveIter implements core.Observer.
func (o *Slog[P, G, J, H, F]) ObserveIter(state *core.IterState[P, G, J, H, F], kv *core.KV) error {
	args := make([]any, 0, 2*kv.Len()+4)
	args = append(args, "iter", state.Iter(), "best_cost", state.BestCost())
	for _, e := range kv.Entries() {
		args = append(args, e.Key, e.Value)
	}
	o.logger.Info("iteration", args...)
	return nil
}
