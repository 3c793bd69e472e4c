package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// NewAuthenticatedClient returns an HTTP client that adds HTTP Basic
// authentication from the resolved identity to every request.
func NewAuthenticatedClient(identity *domain.ResolvedIdentity) *http.Client {
	return &http.Client{
		Transport: &basicAuthTransport{
			base:     http.DefaultTransport,
			username: identity.Username,
			secret:   identity.Secret,
		},
	}
}

// basicAuthTransport is an http.RoundTripper that sets Basic auth headers.
type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	secret   string
}

// RoundTrip implements http.RoundTripper.
func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.SetBasicAuth(t.username, t.secret)
	return t.base.RoundTrip(cloned)
}

// BitbucketClient talks to the Bitbucket Cloud 2.0 API. One exported method
// per remote endpoint; each issues exactly one HTTP request, never retries,
// and surfaces any non-2xx response as a domain.RemoteAPIError carrying the
// status and body verbatim.
type BitbucketClient struct {
	baseURL    string
	workspace  string
	httpClient *http.Client
}

// NewBitbucketClient creates a Bitbucket Cloud API client. The baseURL is
// the API root (e.g. "https://api.bitbucket.org/2.0") and the httpClient
// should come from NewAuthenticatedClient.
func NewBitbucketClient(baseURL, workspace string, httpClient *http.Client) *BitbucketClient {
	return &BitbucketClient{
		baseURL:    baseURL,
		workspace:  workspace,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured API root.
func (c *BitbucketClient) BaseURL() string {
	return c.baseURL
}

// Workspace returns the workspace all requests are scoped to.
func (c *BitbucketClient) Workspace() string {
	return c.workspace
}

// repoPath builds the repository-scoped path prefix.
func (c *BitbucketClient) repoPath(repo string) string {
	return fmt.Sprintf("/repositories/%s/%s", url.PathEscape(c.workspace), url.PathEscape(repo))
}

// get issues a GET request and decodes the JSON response into out.
func (c *BitbucketClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST request with an optional JSON payload and decodes the
// response into out when out is non-nil.
func (c *BitbucketClient) post(ctx context.Context, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.doWithBody(ctx, http.MethodPost, path, nil, body, out)
}

func (c *BitbucketClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out interface{}) error {
	return c.doWithBody(ctx, method, path, query, body, out)
}

func (c *BitbucketClient) doWithBody(ctx context.Context, method, path string, query url.Values, body io.Reader, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &domain.RemoteAPIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// pageQuery builds the standard pagination query string.
func pageQuery(page, pagelen int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pagelen", strconv.Itoa(pagelen))
	return query
}

// ListRepositories retrieves one page of repositories in the workspace.
func (c *BitbucketClient) ListRepositories(ctx context.Context, page, pagelen int) (*domain.Page[domain.Repository], error) {
	var result domain.Page[domain.Repository]
	path := fmt.Sprintf("/repositories/%s", url.PathEscape(c.workspace))
	if err := c.get(ctx, path, pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProjects retrieves one page of projects in the workspace.
func (c *BitbucketClient) ListProjects(ctx context.Context, page, pagelen int) (*domain.Page[domain.Project], error) {
	var result domain.Page[domain.Project]
	path := fmt.Sprintf("/workspaces/%s/projects", url.PathEscape(c.workspace))
	if err := c.get(ctx, path, pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRepository retrieves a single repository by slug.
func (c *BitbucketClient) GetRepository(ctx context.Context, repo string) (*domain.Repository, error) {
	var result domain.Repository
	if err := c.get(ctx, c.repoPath(repo), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListBranches retrieves one page of branches in a repository.
func (c *BitbucketClient) ListBranches(ctx context.Context, repo string, page, pagelen int) (*domain.Page[domain.Branch], error) {
	var result domain.Page[domain.Branch]
	if err := c.get(ctx, c.repoPath(repo)+"/refs/branches", pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTags retrieves one page of tags in a repository.
func (c *BitbucketClient) ListTags(ctx context.Context, repo string, page, pagelen int) (*domain.Page[domain.Tag], error) {
	var result domain.Page[domain.Tag]
	if err := c.get(ctx, c.repoPath(repo)+"/refs/tags", pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListBranchCommits retrieves one page of a branch's commit history.
func (c *BitbucketClient) ListBranchCommits(ctx context.Context, repo, branch string, page, pagelen int) (*domain.Page[domain.Commit], error) {
	var result domain.Page[domain.Commit]
	path := c.repoPath(repo) + "/commits/" + url.PathEscape(branch)
	if err := c.get(ctx, path, pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBranch retrieves a single branch, including its current tip.
func (c *BitbucketClient) GetBranch(ctx context.Context, repo, name string) (*domain.Branch, error) {
	var result domain.Branch
	path := c.repoPath(repo) + "/refs/branches/" + url.PathEscape(name)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateBranch creates a branch pointing at the given commit hash.
func (c *BitbucketClient) CreateBranch(ctx context.Context, repo, name, targetHash string) (*domain.Branch, error) {
	payload := &domain.BranchCreate{
		Name:   name,
		Target: domain.HashTarget{Hash: targetHash},
	}
	var result domain.Branch
	if err := c.post(ctx, c.repoPath(repo)+"/refs/branches", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePullRequest creates a new pull request.
func (c *BitbucketClient) CreatePullRequest(ctx context.Context, repo string, create *domain.PullRequestCreate) (*domain.PullRequest, error) {
	var result domain.PullRequest
	if err := c.post(ctx, c.repoPath(repo)+"/pullrequests", create, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPullRequests retrieves one page of pull requests filtered by state.
func (c *BitbucketClient) ListPullRequests(ctx context.Context, repo, state string, page, pagelen int) (*domain.Page[domain.PullRequest], error) {
	query := pageQuery(page, pagelen)
	query.Set("state", state)
	var result domain.Page[domain.PullRequest]
	if err := c.get(ctx, c.repoPath(repo)+"/pullrequests", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPullRequest retrieves a pull request by its ID.
func (c *BitbucketClient) GetPullRequest(ctx context.Context, repo string, id int) (*domain.PullRequest, error) {
	var result domain.PullRequest
	path := fmt.Sprintf("%s/pullrequests/%d", c.repoPath(repo), id)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApprovePullRequest records the authenticated user's approval.
func (c *BitbucketClient) ApprovePullRequest(ctx context.Context, repo string, id int) (*domain.Participant, error) {
	var result domain.Participant
	path := fmt.Sprintf("%s/pullrequests/%d/approve", c.repoPath(repo), id)
	if err := c.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeclinePullRequest declines a pull request.
func (c *BitbucketClient) DeclinePullRequest(ctx context.Context, repo string, id int) (*domain.PullRequest, error) {
	var result domain.PullRequest
	path := fmt.Sprintf("%s/pullrequests/%d/decline", c.repoPath(repo), id)
	if err := c.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MergePullRequest merges a pull request with the given strategy.
func (c *BitbucketClient) MergePullRequest(ctx context.Context, repo string, id int, strategy string, closeSourceBranch bool) (*domain.PullRequest, error) {
	payload := map[string]interface{}{
		"merge_strategy":      strategy,
		"close_source_branch": closeSourceBranch,
	}
	var result domain.PullRequest
	path := fmt.Sprintf("%s/pullrequests/%d/merge", c.repoPath(repo), id)
	if err := c.post(ctx, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPullRequestComments retrieves one page of a pull request's comments.
func (c *BitbucketClient) ListPullRequestComments(ctx context.Context, repo string, id, page, pagelen int) (*domain.Page[domain.Comment], error) {
	var result domain.Page[domain.Comment]
	path := fmt.Sprintf("%s/pullrequests/%d/comments", c.repoPath(repo), id)
	if err := c.get(ctx, path, pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddPullRequestComment adds a comment to a pull request.
func (c *BitbucketClient) AddPullRequestComment(ctx context.Context, repo string, id int, content string) (*domain.Comment, error) {
	payload := &domain.CommentCreate{
		Content: domain.CommentContent{Raw: content},
	}
	var result domain.Comment
	path := fmt.Sprintf("%s/pullrequests/%d/comments", c.repoPath(repo), id)
	if err := c.post(ctx, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDeployments retrieves one page of a repository's deployments.
func (c *BitbucketClient) ListDeployments(ctx context.Context, repo string, page, pagelen int) (*domain.Page[domain.Deployment], error) {
	var result domain.Page[domain.Deployment]
	if err := c.get(ctx, c.repoPath(repo)+"/deployments/", pageQuery(page, pagelen), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDeployment retrieves a single deployment by UUID.
func (c *BitbucketClient) GetDeployment(ctx context.Context, repo, deploymentUUID string) (*domain.Deployment, error) {
	var result domain.Deployment
	path := c.repoPath(repo) + "/deployments/" + url.PathEscape(deploymentUUID)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
