package workflows

import (
	"testing"
	"time"
)

func TestCache_SetGetInvalidate(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.Set(&CachedWorkflow{ID: "wf1", Name: "Revenue sync", Active: true})

	workflow, ok := cache.Get("wf1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if workflow.Name != "Revenue sync" {
		t.Errorf("expected cached name, got %q", workflow.Name)
	}

	cache.Invalidate("wf1")
	if _, ok := cache.Get("wf1"); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := NewCache(10 * time.Millisecond)

	cache.Set(&CachedWorkflow{ID: "wf1"})
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.Get("wf1"); ok {
		t.Error("expected entry to expire")
	}
}
