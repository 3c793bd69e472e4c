package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

// RepositoryHandler implements ToolHandler for workspace-level repository
// operations: listing repositories and projects, and deriving clone commands.
type RepositoryHandler struct {
	client    *infrastructure.BitbucketClient
	cloneHost string
}

// NewRepositoryHandler creates a RepositoryHandler. The cloneHost is the
// git host used when deriving clone URLs (bitbucket.org for Cloud).
func NewRepositoryHandler(client *infrastructure.BitbucketClient, cloneHost string) *RepositoryHandler {
	return &RepositoryHandler{
		client:    client,
		cloneHost: cloneHost,
	}
}

// GroupName returns the identifier for this handler group.
func (h *RepositoryHandler) GroupName() string {
	return "repository"
}

// ListTools returns the repository group's catalog entries.
func (h *RepositoryHandler) ListTools() []domain.ToolDefinition {
	return repositoryTools()
}

// Handle processes a repository-group tool call.
func (h *RepositoryHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolListRepositories:
		return h.handleListRepositories(ctx, req.Arguments)
	case ToolListProjects:
		return h.handleListProjects(ctx, req.Arguments)
	case ToolCloneRepository:
		return h.handleCloneRepository(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown repository tool: %s", req.Name),
		}
	}
}

// handleListRepositories handles the list_repositories tool call.
func (h *RepositoryHandler) handleListRepositories(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	repos, err := h.client.ListRepositories(ctx, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repositories in workspace %s (page %d, pagelen %d, %d total):\n",
		h.client.Workspace(), page, pagelen, repos.Size)
	for _, repo := range repos.Values {
		fmt.Fprintf(&b, "\n%s", formatRepository(&repo))
	}
	if len(repos.Values) == 0 {
		b.WriteString("\nNo repositories found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// formatRepository summarizes one repository as flat text.
func formatRepository(repo *domain.Repository) string {
	var b strings.Builder
	visibility := "public"
	if repo.IsPrivate {
		visibility = "private"
	}
	fmt.Fprintf(&b, "- %s (%s)\n", repo.FullName, visibility)
	if repo.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", repo.Description)
	}
	if repo.Language != "" {
		fmt.Fprintf(&b, "  Language: %s\n", repo.Language)
	}
	if repo.MainBranch != nil {
		fmt.Fprintf(&b, "  Main branch: %s\n", repo.MainBranch.Name)
	}
	if repo.UpdatedOn != "" {
		fmt.Fprintf(&b, "  Updated: %s\n", repo.UpdatedOn)
	}
	if repo.Links.HTML.Href != "" {
		fmt.Fprintf(&b, "  URL: %s\n", repo.Links.HTML.Href)
	}
	return b.String()
}

// handleListProjects handles the list_projects tool call.
func (h *RepositoryHandler) handleListProjects(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	projects, err := h.client.ListProjects(ctx, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Projects in workspace %s (page %d, pagelen %d, %d total):\n",
		h.client.Workspace(), page, pagelen, projects.Size)
	for _, project := range projects.Values {
		visibility := "public"
		if project.IsPrivate {
			visibility = "private"
		}
		fmt.Fprintf(&b, "\n- %s: %s (%s)\n", project.Key, project.Name, visibility)
		if project.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", project.Description)
		}
		if project.CreatedOn != "" {
			fmt.Fprintf(&b, "  Created: %s\n", project.CreatedOn)
		}
	}
	if len(projects.Values) == 0 {
		b.WriteString("\nNo projects found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleCloneRepository handles the clone_repository tool call. It never
// runs git: one GET verifies the repository exists, then the clone command
// text is derived from workspace, slug, and protocol.
func (h *RepositoryHandler) handleCloneRepository(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	protocol, err := getEnumParam(args, "protocol", cloneProtocols, "ssh")
	if err != nil {
		return nil, err
	}
	branch, err := getStringParam(args, "branch", false)
	if err != nil {
		return nil, err
	}

	repo, err := h.client.GetRepository(ctx, repository)
	if err != nil {
		return nil, err
	}

	cloneURL := CloneURL(protocol, h.cloneHost, h.client.Workspace(), repository)
	command := "git clone " + cloneURL
	if branch != "" {
		command += " --branch " + branch
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repository %s found.\n\n", repo.FullName)
	fmt.Fprintf(&b, "Clone command (%s):\n\n  %s\n", protocol, command)
	if protocol == "ssh" {
		b.WriteString("\nSSH setup notes:\n")
		b.WriteString("  - An SSH key must be registered with your Bitbucket account.\n")
		fmt.Fprintf(&b, "  - Test connectivity with: ssh -T git@%s\n", h.cloneHost)
	}

	return domain.NewTextResponse(b.String()), nil
}

// CloneURL deterministically derives a clone URL from protocol, host,
// workspace, and repository slug.
func CloneURL(protocol, host, workspace, repository string) string {
	if protocol == "ssh" {
		return fmt.Sprintf("git@%s:%s/%s.git", host, workspace, repository)
	}
	return fmt.Sprintf("https://%s/%s/%s.git", host, workspace, repository)
}
