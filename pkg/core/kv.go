package core

import (
	"fmt"
	"strings"
)

// KVEntry is a single (name, value) pair of an iteration record.
type KVEntry struct {
	Key   string
	Value any
}

// KV is an ordered sequence of entries attached to a single iteration for
// reporting. Insertion order is preserved and keys are not required to be
// unique.
type KV struct {
	entries []KVEntry
}

// NewKV returns an empty record.
func NewKV() *KV {
	return &KV{}
}

// Push appends an entry and returns the record for chaining.
func (kv *KV) Push(key string, value any) *KV {
	kv.entries = append(kv.entries, KVEntry{Key: key, Value: value})
	return kv
}

// Merge appends all entries of other, preserving their order. A nil other is
// a no-op.
func (kv *KV) Merge(other *KV) *KV {
	if other != nil {
		kv.entries = append(kv.entries, other.entries...)
	}
	return kv
}

// Get returns the value of the most recently pushed entry with the given key.
func (kv *KV) Get(key string) (any, bool) {
	if kv == nil {
		return nil, false
	}
	for i := len(kv.entries) - 1; i >= 0; i-- {
		if kv.entries[i].Key == key {
			return kv.entries[i].Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (kv *KV) Len() int {
	if kv == nil {
		return 0
	}
	return len(kv.entries)
}

// Entries returns the entries in insertion order.
func (kv *KV) Entries() []KVEntry {
	if kv == nil {
		return nil
	}
	return kv.entries
}

func (kv *KV) String() string {
	if kv.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, len(kv.entries))
	for _, e := range kv.entries {
		parts = append(parts, fmt.Sprintf("%s=%v", e.Key, e.Value))
	}
	return strings.Join(parts, " ")
}
