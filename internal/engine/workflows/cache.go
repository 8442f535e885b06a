package workflows

import (
	"sync"
	"time"
)

// CachedWorkflow is the dashboard's view of a workflow definition held
// between engine round-trips.
type CachedWorkflow struct {
	ID       string
	Name     string
	Active   bool
	Tags     []string
	CachedAt time.Time
}

// Cache holds workflow metadata with a TTL. workflow_updated events
// invalidate entries so the dashboard never renders stale definitions.
type Cache struct {
	store sync.Map // map[workflow_id]*CachedWorkflow
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

func (c *Cache) Get(workflowID string) (*CachedWorkflow, bool) {
	val, ok := c.store.Load(workflowID)
	if !ok {
		return nil, false
	}

	workflow := val.(*CachedWorkflow)
	if time.Since(workflow.CachedAt) > c.ttl {
		c.store.Delete(workflowID)
		return nil, false
	}

	return workflow, true
}

func (c *Cache) Set(workflow *CachedWorkflow) {
	workflow.CachedAt = time.Now()
	c.store.Store(workflow.ID, workflow)
}

// Invalidate drops the cached entry for a workflow, if any.
func (c *Cache) Invalidate(workflowID string) {
	c.store.Delete(workflowID)
}
