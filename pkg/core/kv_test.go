package core

import (
	"testing"
)

func TestKVPreservesInsertionOrder(t *testing.T) {
	kv := NewKV().Push("alpha", 1).Push("beta", 2).Push("gamma", 3)

	keys := []string{"alpha", "beta", "gamma"}
	entries := kv.Entries()
	if len(entries) != len(keys) {
		t.Fatalf("Expected %d entries, got %d", len(keys), len(entries))
	}
	for i, e := range entries {
		if e.Key != keys[i] {
			t.Errorf("Entry %d: got key %q, want %q", i, e.Key, keys[i])
		}
	}
}

func TestKVDuplicateKeysKept(t *testing.T) {
	kv := NewKV().Push("cost", 1.0).Push("cost", 0.5)

	if kv.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", kv.Len())
	}
	v, ok := kv.Get("cost")
	if !ok {
		t.Fatal("Expected cost to be present")
	}
	if v != 0.5 {
		t.Errorf("Get should return the latest value: got %v, want 0.5", v)
	}
}

func TestKVMerge(t *testing.T) {
	kv := NewKV().Push("a", 1)
	other := NewKV().Push("b", 2).Push("c", 3)

	kv.Merge(other)

	if kv.Len() != 3 {
		t.Fatalf("Expected 3 entries after merge, got %d", kv.Len())
	}
	if kv.Entries()[1].Key != "b" || kv.Entries()[2].Key != "c" {
		t.Errorf("Merge should append in order, got %v", kv.Entries())
	}
}

func TestKVMergeNil(t *testing.T) {
	kv := NewKV().Push("a", 1)
	kv.Merge(nil)

	if kv.Len() != 1 {
		t.Errorf("Merging nil should be a no-op, got %d entries", kv.Len())
	}
}

func TestKVGetMissing(t *testing.T) {
	kv := NewKV().Push("a", 1)
	if _, ok := kv.Get("missing"); ok {
		t.Error("Expected missing key to report false")
	}
}

func TestKVString(t *testing.T) {
	kv := NewKV().Push("iter", 3).Push("cost", 0.25)
	got := kv.String()
	want := "iter=3 cost=0.25"
	if got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}
