package observer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Orca-bit/argmin/pkg/core"
)

// TraceEntry is a single line of the cost history trace. Each entry is
// serialized as one JSON line.
type TraceEntry struct {
	Iter      uint64    `json:"iter"`
	Cost      *float64  `json:"cost,omitempty"`
	BestCost  *float64  `json:"bestCost,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Param is the best parameter vector at this iteration, omitted unless
	// the trace was created with includeParam.
	Param any `json:"param,omitempty"`
}

// Trace appends one JSON line per iteration to a trace file. It uses
// buffered I/O and is safe for concurrent use.
type Trace[P, G, J, H any, F core.Float] struct {
	mu           sync.Mutex
	file         *os.File
	writer       *bufio.Writer
	path         string
	includeParam bool
}

// NewTrace creates a trace observer appending to the file at path,
// creating parent directories as needed.
func NewTrace[P, G, J, H any, F core.Float](path string, includeParam bool) (*Trace[P, G, J, H, F], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	return &Trace[P, G, J, H, F]{
		file:         file,
		writer:       bufio.NewWriterSize(file, 64*1024), // 64KB buffer
		path:         path,
		includeParam: includeParam,
	}, nil
}

// Path returns the trace file location.
func (t *Trace[P, G, J, H, F]) Path() string {
	return t.path
}

// ObserveInit implements core.Observer.
func (t *Trace[P, G, J, H, F]) ObserveInit(_ string, state *core.IterState[P, G, J, H, F], _ *core.KV) error {
	return t.write(state)
}

// ObserveIter implements core.Observer.
func (t *Trace[P, G, J, H, F]) ObserveIter(state *core.IterState[P, G, J, H, F], _ *core.KV) error {
	return t.write(state)
}

func (t *Trace[P, G, J, H, F]) write(state *core.IterState[P, G, J, H, F]) error {
	entry := TraceEntry{
		Iter:      state.Iter(),
		Cost:      finite(float64(state.Cost())),
		BestCost:  finite(float64(state.BestCost())),
		Timestamp: time.Now(),
	}
	if t.includeParam {
		if p, ok := state.BestParam(); ok {
			entry.Param = p
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trace entry: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// Flush writes buffered entries and syncs them to disk.
func (t *Trace[P, G, J, H, F]) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace writer: %w", err)
	}
	if err := t.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync trace file: %w", err)
	}
	return nil
}

// Close flushes buffered entries and closes the trace file.
func (t *Trace[P, G, J, H, F]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return fmt.Errorf("failed to flush trace writer: %w", err)
	}
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
