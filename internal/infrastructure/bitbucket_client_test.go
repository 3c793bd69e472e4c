package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// testIdentity is the resolved identity used by client tests.
var testIdentity = &domain.ResolvedIdentity{
	Username:   "fernando",
	Secret:     "s3cret",
	Workspace:  "acme",
	SecretKind: domain.SecretAPIToken,
}

// newTestClient starts a mock Bitbucket server and returns a client
// pointing at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *BitbucketClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBitbucketClient(server.URL, testIdentity.Workspace, NewAuthenticatedClient(testIdentity))
}

// TestBasicAuthHeaderIsSet tests that every request carries the resolved
// identity as HTTP Basic credentials.
func TestBasicAuthHeaderIsSet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		username, secret, ok := r.BasicAuth()
		if !ok {
			t.Error("Expected Basic auth header")
		}
		if username != "fernando" || secret != "s3cret" {
			t.Errorf("Unexpected credentials %s:%s", username, secret)
		}
		json.NewEncoder(w).Encode(domain.Page[domain.Repository]{})
	})

	if _, err := client.ListRepositories(context.Background(), 1, 10); err != nil {
		t.Fatalf("ListRepositories failed: %v", err)
	}
}

// TestListRepositoriesPathAndPagination tests the repositories endpoint
// path and that pagination parameters pass through unchanged.
func TestListRepositoriesPathAndPagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "3" || r.URL.Query().Get("pagelen") != "50" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(domain.Page[domain.Repository]{
			Values:  []domain.Repository{{Name: "website", FullName: "acme/website"}},
			Page:    3,
			Pagelen: 50,
			Size:    101,
		})
	})

	page, err := client.ListRepositories(context.Background(), 3, 50)
	if err != nil {
		t.Fatalf("ListRepositories failed: %v", err)
	}
	if page.Size != 101 {
		t.Errorf("Expected size 101, got %d", page.Size)
	}
	if len(page.Values) != 1 || page.Values[0].FullName != "acme/website" {
		t.Errorf("Unexpected values: %+v", page.Values)
	}
}

// TestRemoteErrorSurfacesStatusAndBody tests that a 404 produces a
// RemoteAPIError with the body verbatim and exactly one request.
func TestRemoteErrorSurfacesStatusAndBody(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"message": "Repository acme/nope not found"}}`))
	})

	_, err := client.GetRepository(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected an error for 404")
	}

	apiErr, ok := err.(*domain.RemoteAPIError)
	if !ok {
		t.Fatalf("Expected *domain.RemoteAPIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "Repository acme/nope not found") {
		t.Errorf("Expected body to be carried verbatim, got: %s", apiErr.Body)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected message to include the status code, got: %s", err.Error())
	}
	if calls != 1 {
		t.Errorf("Expected exactly one HTTP call, observed %d", calls)
	}
}

// TestCreateBranchPostsTargetHash tests the branch creation payload.
func TestCreateBranchPostsTargetHash(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/repositories/acme/website/refs/branches" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var payload domain.BranchCreate
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Bad payload: %v", err)
		}
		if payload.Name != "feature/x" || payload.Target.Hash != "abc123" {
			t.Errorf("Unexpected payload: %+v", payload)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Branch{Name: payload.Name})
	})

	branch, err := client.CreateBranch(context.Background(), "website", "feature/x", "abc123")
	if err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}
	if branch.Name != "feature/x" {
		t.Errorf("Unexpected branch name: %s", branch.Name)
	}
}

// TestListPullRequestsStateFilter tests the state query parameter.
func TestListPullRequestsStateFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme/website/pullrequests" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("state") != "MERGED" {
			t.Errorf("Expected state=MERGED, got %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(domain.Page[domain.PullRequest]{})
	})

	if _, err := client.ListPullRequests(context.Background(), "website", "MERGED", 1, 10); err != nil {
		t.Fatalf("ListPullRequests failed: %v", err)
	}
}

// TestMergePullRequestPayload tests the merge endpoint and body.
func TestMergePullRequestPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/repositories/acme/website/pullrequests/42/merge" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Bad payload: %v", err)
		}
		if payload["merge_strategy"] != "squash" {
			t.Errorf("Expected merge_strategy squash, got %v", payload["merge_strategy"])
		}
		if payload["close_source_branch"] != true {
			t.Errorf("Expected close_source_branch true, got %v", payload["close_source_branch"])
		}
		json.NewEncoder(w).Encode(domain.PullRequest{ID: 42, State: "MERGED"})
	})

	pr, err := client.MergePullRequest(context.Background(), "website", 42, "squash", true)
	if err != nil {
		t.Fatalf("MergePullRequest failed: %v", err)
	}
	if pr.State != "MERGED" {
		t.Errorf("Expected state MERGED, got %s", pr.State)
	}
}

// TestReadOperationsUseGetOnly tests that read operations never issue a
// mutating HTTP verb.
func TestReadOperationsUseGetOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Read operation used %s on %s", r.Method, r.URL.Path)
		}
		switch {
		case strings.Contains(r.URL.Path, "/pullrequests/7"):
			json.NewEncoder(w).Encode(domain.PullRequest{ID: 7})
		case strings.Contains(r.URL.Path, "/deployments/{"):
			json.NewEncoder(w).Encode(domain.Deployment{UUID: "{d1}"})
		default:
			w.Write([]byte(`{"values": [], "size": 0}`))
		}
	})

	ctx := context.Background()
	if _, err := client.ListRepositories(ctx, 1, 10); err != nil {
		t.Errorf("ListRepositories failed: %v", err)
	}
	if _, err := client.ListProjects(ctx, 1, 10); err != nil {
		t.Errorf("ListProjects failed: %v", err)
	}
	if _, err := client.ListBranches(ctx, "website", 1, 10); err != nil {
		t.Errorf("ListBranches failed: %v", err)
	}
	if _, err := client.ListTags(ctx, "website", 1, 10); err != nil {
		t.Errorf("ListTags failed: %v", err)
	}
	if _, err := client.ListBranchCommits(ctx, "website", "main", 1, 10); err != nil {
		t.Errorf("ListBranchCommits failed: %v", err)
	}
	if _, err := client.GetPullRequest(ctx, "website", 7); err != nil {
		t.Errorf("GetPullRequest failed: %v", err)
	}
	if _, err := client.ListPullRequests(ctx, "website", "OPEN", 1, 10); err != nil {
		t.Errorf("ListPullRequests failed: %v", err)
	}
	if _, err := client.ListDeployments(ctx, "website", 1, 10); err != nil {
		t.Errorf("ListDeployments failed: %v", err)
	}
	if _, err := client.GetDeployment(ctx, "website", "{d1}"); err != nil {
		t.Errorf("GetDeployment failed: %v", err)
	}
}

// TestAddPullRequestCommentPayload tests the comment creation body.
func TestAddPullRequestCommentPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme/website/pullrequests/5/comments" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var payload domain.CommentCreate
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Bad payload: %v", err)
		}
		if payload.Content.Raw != "Looks good" {
			t.Errorf("Unexpected content: %s", payload.Content.Raw)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Comment{ID: 11, Content: payload.Content})
	})

	comment, err := client.AddPullRequestComment(context.Background(), "website", 5, "Looks good")
	if err != nil {
		t.Fatalf("AddPullRequestComment failed: %v", err)
	}
	if comment.ID != 11 {
		t.Errorf("Expected comment ID 11, got %d", comment.ID)
	}
}

// TestBranchNameIsPathEscaped tests that slashes in branch names are
// escaped in ref paths.
func TestBranchNameIsPathEscaped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/repositories/acme/website/refs/branches/feature%2Fnew" {
			t.Errorf("Unexpected escaped path: %s", r.URL.EscapedPath())
		}
		json.NewEncoder(w).Encode(domain.Branch{Name: "feature/new"})
	})

	if _, err := client.GetBranch(context.Background(), "website", "feature/new"); err != nil {
		t.Fatalf("GetBranch failed: %v", err)
	}
}
