package core

// Observer is notified of state snapshots during a run. Snapshots are taken
// after the termination check of each iteration; observers never see live
// references that a later iteration could mutate. An observer failure aborts
// the run.
type Observer[P, G, J, H any, F Float] interface {
	ObserveInit(name string, state *IterState[P, G, J, H, F], kv *KV) error
	ObserveIter(state *IterState[P, G, J, H, F], kv *KV) error
}

type observerKind int

const (
	observeAlways observerKind = iota
	observeNever
	observeNewBest
	observeEvery
)

// ObserverMode controls how often a registered observer is notified.
type ObserverMode struct {
	kind  observerKind
	every uint64
}

// ObserveAlways notifies on every iteration.
func ObserveAlways() ObserverMode { return ObserverMode{kind: observeAlways} }

// ObserveNever suppresses all notifications.
func ObserveNever() ObserverMode { return ObserverMode{kind: observeNever} }

// ObserveNewBest notifies only on iterations that produced a new best pair.
func ObserveNewBest() ObserverMode { return ObserverMode{kind: observeNewBest} }

// ObserveEvery notifies every n-th iteration.
func ObserveEvery(n uint64) ObserverMode {
	if n == 0 {
		n = 1
	}
	return ObserverMode{kind: observeEvery, every: n}
}

func (m ObserverMode) due(iter uint64, isBest bool) bool {
	switch m.kind {
	case observeNever:
		return false
	case observeNewBest:
		return isBest
	case observeEvery:
		return iter%m.every == 0
	default:
		return true
	}
}
