package cache

import (
	"fmt"
	"testing"

	"github.com/af-corp/scribe/internal/types"
)

func TestLRUPutGet(t *testing.T) {
	c := NewLRU(10)
	c.Put("a", types.GenerationResult{Content: "first"})

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Content != "first" {
		t.Errorf("content = %q", got.Content)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU(3)
	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("k%d", i), types.GenerationResult{Content: fmt.Sprintf("v%d", i)})
	}

	if _, ok := c.Get("k0"); ok {
		t.Error("k0 should have been evicted")
	}
	for i := 1; i < 4; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d should survive", i)
		}
	}
	if c.Len() != 3 {
		t.Errorf("len = %d, want 3", c.Len())
	}
}

func TestLRUGetRefreshesRecency(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", types.GenerationResult{})
	c.Put("b", types.GenerationResult{})

	// Touch a so that b is now the eviction candidate.
	c.Get("a")
	c.Put("c", types.GenerationResult{})

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
}

func TestLRUPutRefreshesExisting(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", types.GenerationResult{Content: "old"})
	c.Put("b", types.GenerationResult{})
	c.Put("a", types.GenerationResult{Content: "new"})
	c.Put("c", types.GenerationResult{})

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("re-put entry should survive eviction")
	}
	if got.Content != "new" {
		t.Errorf("content = %q, want new", got.Content)
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU(5)
	c.Put("a", types.GenerationResult{})
	c.Put("b", types.GenerationResult{})

	if n := c.Clear(); n != 2 {
		t.Errorf("Clear returned %d, want 2", n)
	}
	if c.Len() != 0 {
		t.Errorf("len after clear = %d", c.Len())
	}
	c.Put("c", types.GenerationResult{})
	if _, ok := c.Get("c"); !ok {
		t.Error("cache should be usable after Clear")
	}
}

func TestLRUZeroCapacityUsesDefault(t *testing.T) {
	c := NewLRU(0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("tmpl", map[string]string{"x": "1", "y": "2"}, 0.7, 100)
	b := Fingerprint("tmpl", map[string]string{"y": "2", "x": "1"}, 0.7, 100)
	if a != b {
		t.Error("fingerprint should not depend on map iteration order")
	}
}

func TestFingerprintDiscriminates(t *testing.T) {
	base := Fingerprint("tmpl", map[string]string{"x": "1"}, 0.7, 100)
	tests := []struct {
		name string
		got  string
	}{
		{"template", Fingerprint("other", map[string]string{"x": "1"}, 0.7, 100)},
		{"variable value", Fingerprint("tmpl", map[string]string{"x": "2"}, 0.7, 100)},
		{"variable name", Fingerprint("tmpl", map[string]string{"z": "1"}, 0.7, 100)},
		{"temperature", Fingerprint("tmpl", map[string]string{"x": "1"}, 0.8, 100)},
		{"max tokens", Fingerprint("tmpl", map[string]string{"x": "1"}, 0.7, 200)},
	}
	for _, tt := range tests {
		if tt.got == base {
			t.Errorf("changing %s should change the fingerprint", tt.name)
		}
	}
}

func TestFingerprintNoDelimiterCollision(t *testing.T) {
	a := Fingerprint("t", map[string]string{"a": "b=c"}, 0, 0)
	b := Fingerprint("t", map[string]string{"a=b": "c"}, 0, 0)
	if a == b {
		t.Error("key/value boundary should be unambiguous")
	}
}
