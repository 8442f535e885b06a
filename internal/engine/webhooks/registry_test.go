package webhooks

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	repo := repositories.NewEndpointRepository(setupTestDB(t))
	registry := NewRegistry(repo)

	id, err := registry.Register(&models.WebhookEndpoint{
		Name:          "engine callbacks",
		URL:           "https://engine.example.com/hooks",
		AuthMode:      models.AuthSignature,
		AuthSecret:    "whsec_abc",
		TriggerEvents: []string{"execution_started"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	endpoint, err := registry.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if endpoint.Name != "engine callbacks" {
		t.Errorf("expected endpoint name to round-trip, got %q", endpoint.Name)
	}
	if endpoint.Method != "POST" {
		t.Errorf("expected default method POST, got %q", endpoint.Method)
	}
	if registry.ActiveCount() != 1 {
		t.Errorf("expected active count 1, got %d", registry.ActiveCount())
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry(repositories.NewEndpointRepository(setupTestDB(t)))

	if _, err := registry.Get("ep_missing"); err != errors.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_WriteThenCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO webhook_endpoints").
		WillReturnError(fmt.Errorf("disk full"))

	registry := NewRegistry(repositories.NewEndpointRepository(db))

	endpoint := &models.WebhookEndpoint{Name: "broken", URL: "https://example.com"}
	if _, err := registry.Register(endpoint); err == nil {
		t.Fatal("expected persistence error")
	}

	// The failed write must not leave the endpoint visible in memory.
	if endpoint.ID != "" {
		if _, err := registry.Get(endpoint.ID); err != errors.ErrNotFound {
			t.Errorf("endpoint cached despite failed write: %v", err)
		}
	}
	if registry.ActiveCount() != 0 {
		t.Errorf("expected active count 0 after failed write, got %d", registry.ActiveCount())
	}
}

func TestRegistry_LoadActiveEndpoints(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewEndpointRepository(db)

	seed := NewRegistry(repo)
	if _, err := seed.Register(&models.WebhookEndpoint{Name: "a", URL: "https://a.example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := seed.Register(&models.WebhookEndpoint{Name: "b", URL: "https://b.example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fresh := NewRegistry(repo)
	if err := fresh.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if fresh.ActiveCount() != 2 {
		t.Errorf("expected 2 loaded endpoints, got %d", fresh.ActiveCount())
	}
}
