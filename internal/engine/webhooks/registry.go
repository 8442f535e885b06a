package webhooks

import (
	"sync"

	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

// Registry holds the active webhook endpoints in memory. The map is
// populated once at startup and only grows, via Register.
type Registry struct {
	repo  *repositories.EndpointRepository
	store sync.Map // map[endpoint_id]*models.WebhookEndpoint
	count int64
	mu    sync.Mutex
}

func NewRegistry(repo *repositories.EndpointRepository) *Registry {
	return &Registry{repo: repo}
}

// Load pulls every active endpoint from the store into memory.
func (r *Registry) Load() error {
	endpoints, err := r.repo.ListActive()
	if err != nil {
		return errors.NewPersistence("load endpoints", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, endpoint := range endpoints {
		if _, loaded := r.store.Swap(endpoint.ID, endpoint); !loaded {
			r.count++
		}
	}
	return nil
}

// Register persists the endpoint first and caches it only after the write
// succeeds. A failed write leaves the registry unchanged.
func (r *Registry) Register(endpoint *models.WebhookEndpoint) (string, error) {
	if endpoint.Method == "" {
		endpoint.Method = "POST"
	}
	if endpoint.AuthMode == "" {
		endpoint.AuthMode = models.AuthNone
	}
	if endpoint.Fallback == "" {
		endpoint.Fallback = models.FallbackLog
	}

	if err := r.repo.Create(endpoint); err != nil {
		return "", errors.NewPersistence("register endpoint", err)
	}

	r.mu.Lock()
	r.store.Store(endpoint.ID, endpoint)
	r.count++
	r.mu.Unlock()

	return endpoint.ID, nil
}

func (r *Registry) Get(id string) (*models.WebhookEndpoint, error) {
	value, ok := r.store.Load(id)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return value.(*models.WebhookEndpoint), nil
}

// ActiveCount reports how many active endpoints are registered.
func (r *Registry) ActiveCount() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
