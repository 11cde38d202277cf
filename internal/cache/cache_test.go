package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache hit")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Capacity != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](3)
	for i := range 3 {
		c.Set(i, strconv.Itoa(i))
	}
	// Touch 0 so 1 becomes the oldest.
	if _, ok := c.Get(0); !ok {
		t.Fatal("Get(0) missed")
	}
	c.Set(3, "3")

	if _, ok := c.Get(1); ok {
		t.Error("least recently used entry survived")
	}
	for _, k := range []int{0, 2, 3} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%d) missed", k)
		}
	}
	if s := c.Stats(); s.Len != 3 || s.Evictions != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestCacheClear(t *testing.T) {
	c := New[int, int](2)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear", c.Len())
	}
	c.Set(3, 3)
	c.Set(4, 4)
	c.Set(5, 5)
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				c.Set(i%32, g)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len = %d exceeds limit", c.Len())
	}
}
