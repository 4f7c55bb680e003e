package store

import (
	"testing"
	"time"
)

func TestQueryKey_ParamOrderIndependent(t *testing.T) {
	a := QueryKey("select 1", map[string]any{"days": 365, "role": "SYSADMIN"})
	b := QueryKey("select 1", map[string]any{"role": "SYSADMIN", "days": 365})
	if a != b {
		t.Fatalf("QueryKey differs by param order: %s vs %s", a, b)
	}
}

func TestQueryKey_DistinguishesTextAndParams(t *testing.T) {
	base := QueryKey("select 1", map[string]any{"days": 365})
	if base == QueryKey("select 2", map[string]any{"days": 365}) {
		t.Fatal("different SQL produced the same key")
	}
	if base == QueryKey("select 1", map[string]any{"days": 30}) {
		t.Fatal("different params produced the same key")
	}
	if base == QueryKey("select 1", map[string]any{"days": "365"}) {
		t.Fatal("params differing only by type produced the same key")
	}
	if base == QueryKey("select 1", nil) {
		t.Fatal("missing params produced the same key")
	}
}

func TestLRU_Eviction(t *testing.T) {
	c, err := NewLRU[int](2, 0)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = (%v, %v), want (1, true)", v, ok)
	}

	st := c.Stats()
	if st.Evicted != 1 {
		t.Fatalf("Stats.Evicted = %d, want 1", st.Evicted)
	}
	if st.Size != 2 {
		t.Fatalf("Stats.Size = %d, want 2", st.Size)
	}
}

func TestLRU_TTL(t *testing.T) {
	c, err := NewLRU[string](4, time.Minute)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("k should be present before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("k should have expired")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("Stats = %+v, want 1 hit 1 miss", st)
	}
	if st.Size != 0 {
		t.Fatalf("expired entry still counted, size = %d", st.Size)
	}
}

func TestNop(t *testing.T) {
	var c Cache[int] = Nop[int]{}
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatal("Nop cache returned a value")
	}
}

func TestNewLRU_InvalidSize(t *testing.T) {
	if _, err := NewLRU[int](0, 0); err == nil {
		t.Fatal("NewLRU(0) should fail")
	}
}
