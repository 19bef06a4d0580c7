package cache

import (
	"testing"

	"monosig/internal/domain"
)

type countingClassifier struct {
	calls int
}

func (c *countingClassifier) Classify(typeName string) domain.Category {
	c.calls++
	if typeName == "int" {
		return domain.CategoryInt
	}
	return domain.CategoryPointer
}

func TestCategoryCache_GetPut(t *testing.T) {
	c := NewCategoryCache(4)

	if _, ok := c.Get("int"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put("int", domain.CategoryInt)
	got, ok := c.Get("int")
	if !ok || got != domain.CategoryInt {
		t.Errorf("expected hit with int, got %q (hit=%v)", got, ok)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", hits, misses)
	}
}

func TestCategoryCache_Eviction(t *testing.T) {
	c := NewCategoryCache(2)

	c.Put("a", domain.CategoryInt)
	c.Put("b", domain.CategoryInt)
	c.Put("c", domain.CategoryInt)

	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
}

func TestCategoryCache_Invalidate(t *testing.T) {
	c := NewCategoryCache(0)

	c.Put("MonoKind", domain.CategoryPointer)
	c.Invalidate()

	if _, ok := c.Get("MonoKind"); ok {
		t.Error("expected entry to be gone after invalidation")
	}
	if c.Size() != 0 {
		t.Errorf("expected empty cache, got %d", c.Size())
	}
}

func TestCachedClassifier(t *testing.T) {
	inner := &countingClassifier{}
	cc := NewCachedClassifier(inner, NewCategoryCache(16))

	for i := 0; i < 3; i++ {
		if got := cc.Classify("int"); got != domain.CategoryInt {
			t.Fatalf("expected int, got %q", got)
		}
	}
	if got := cc.Classify("MonoClass"); got != domain.CategoryPointer {
		t.Fatalf("expected pointer, got %q", got)
	}

	if inner.calls != 2 {
		t.Errorf("expected 2 underlying calls, got %d", inner.calls)
	}
}
