package application

import (
	"context"
	"net/http"
	"testing"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// newTestRouter builds a router over all four handler groups backed by a
// mock Bitbucket server.
func newTestRouter(t *testing.T, handler http.HandlerFunc) *RequestRouter {
	t.Helper()
	client := newTestClient(t, handler)
	return NewRequestRouter(
		NewRepositoryHandler(client, domain.DefaultCloneHost),
		NewBranchHandler(client),
		NewPullRequestHandler(client),
		NewDeploymentHandler(client),
	)
}

// TestRouterBindsEveryCatalogEntry tests that every catalog name resolves
// to a handler and that the router exposes nothing beyond the catalog.
func TestRouterBindsEveryCatalogEntry(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, name := range CatalogNames() {
		if _, exists := router.GetHandler(name); !exists {
			t.Errorf("Catalog entry %s has no handler binding", name)
		}
	}

	listed := router.ListAllTools()
	if len(listed) != len(CatalogNames()) {
		t.Errorf("Router lists %d tools, catalog has %d", len(listed), len(CatalogNames()))
	}
	catalog := make(map[string]bool)
	for _, name := range CatalogNames() {
		catalog[name] = true
	}
	for _, def := range listed {
		if !catalog[def.Name] {
			t.Errorf("Router lists %s which is not in the catalog", def.Name)
		}
	}
}

// TestRouterPreservesCatalogOrder tests that tools/list order matches the
// catalog order.
func TestRouterPreservesCatalogOrder(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	listed := router.ListAllTools()
	names := CatalogNames()
	if len(listed) != len(names) {
		t.Fatalf("Router lists %d tools, want %d", len(listed), len(names))
	}
	for i, def := range listed {
		if def.Name != names[i] {
			t.Errorf("Position %d: got %s, want %s", i, def.Name, names[i])
		}
	}
}

// TestRouterRejectsUnknownTool tests that an unknown name fails with
// MethodNotFound and no remote call.
func TestRouterRejectsUnknownTool(t *testing.T) {
	calls := 0
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := router.Route(context.Background(), &domain.ToolRequest{Name: "delete_everything"})
	if err == nil {
		t.Fatal("Expected an error for an unknown tool")
	}
	rpcErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("Expected *domain.Error, got %T: %v", err, err)
	}
	if rpcErr.Code != domain.MethodNotFound {
		t.Errorf("Expected code %d, got %d", domain.MethodNotFound, rpcErr.Code)
	}
	if calls != 0 {
		t.Errorf("Expected no HTTP calls for an unknown tool, observed %d", calls)
	}
}
