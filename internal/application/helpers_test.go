package application

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

// testLogger returns a logger that discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient starts a mock Bitbucket server and returns a client for the
// "acme" workspace pointing at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *infrastructure.BitbucketClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	identity := &domain.ResolvedIdentity{
		Username:   "fernando",
		Secret:     "s3cret",
		Workspace:  "acme",
		SecretKind: domain.SecretAPIToken,
	}
	return infrastructure.NewBitbucketClient(server.URL, identity.Workspace, infrastructure.NewAuthenticatedClient(identity))
}

// responseText extracts the single text block from a tool response.
func responseText(t *testing.T, resp *domain.ToolResponse) string {
	t.Helper()
	if resp == nil {
		t.Fatal("Expected a response, got nil")
	}
	if len(resp.Content) != 1 {
		t.Fatalf("Expected exactly one content block, got %d", len(resp.Content))
	}
	if resp.Content[0].Type != "text" {
		t.Fatalf("Expected a text content block, got %s", resp.Content[0].Type)
	}
	return resp.Content[0].Text
}

// expectValidationError asserts that err is a ValidationError for field.
func expectValidationError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected a validation error for %s, got nil", field)
	}
	valErr, ok := err.(*domain.ValidationError)
	if !ok {
		t.Fatalf("Expected *domain.ValidationError, got %T: %v", err, err)
	}
	if valErr.Field != field {
		t.Errorf("Expected field %s, got %s", field, valErr.Field)
	}
}
