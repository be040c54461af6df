package propertydata

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/time/rate"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

type countingSource struct {
	facts classify.Facts
	err   error
	calls int
}

func (s *countingSource) Lookup(context.Context, string) (classify.Facts, error) {
	s.calls++
	return s.facts, s.err
}

func newTestCachedSource(inner Source) *CachedSource {
	s := NewCachedSource(inner)
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	return s
}

func TestCachedSourceHitsInnerOnce(t *testing.T) {
	inner := &countingSource{facts: classify.Facts{Bedrooms: 3}}
	src := newTestCachedSource(inner)

	for i := 0; i < 3; i++ {
		facts, err := src.Lookup(context.Background(), "123 Main Street")
		if err != nil {
			t.Fatalf("lookup %d failed: %v", i, err)
		}
		if facts.Bedrooms != 3 {
			t.Fatalf("lookup %d facts = %+v", i, facts)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestCachedSourceKeyIsCaseInsensitive(t *testing.T) {
	inner := &countingSource{}
	src := newTestCachedSource(inner)

	src.Lookup(context.Background(), "123 Main Street")
	src.Lookup(context.Background(), "  123 MAIN STREET ")
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (same address, different casing)", inner.calls)
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	inner := &countingSource{err: errors.New("pva unreachable")}
	src := newTestCachedSource(inner)

	if _, err := src.Lookup(context.Background(), "123 Main Street"); err == nil {
		t.Fatal("expected the inner error")
	}
	inner.err = nil
	if _, err := src.Lookup(context.Background(), "123 Main Street"); err != nil {
		t.Fatalf("retry after failure should succeed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (failure must not be cached)", inner.calls)
	}
}
