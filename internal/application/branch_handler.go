package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

// defaultSourceBranch is assumed when create_branch gets no source_branch.
const defaultSourceBranch = "main"

// BranchHandler implements ToolHandler for branch, tag, and commit
// history operations.
type BranchHandler struct {
	client *infrastructure.BitbucketClient
}

// NewBranchHandler creates a BranchHandler.
func NewBranchHandler(client *infrastructure.BitbucketClient) *BranchHandler {
	return &BranchHandler{client: client}
}

// GroupName returns the identifier for this handler group.
func (h *BranchHandler) GroupName() string {
	return "branch"
}

// ListTools returns the branch group's catalog entries.
func (h *BranchHandler) ListTools() []domain.ToolDefinition {
	return branchTools()
}

// Handle processes a branch-group tool call.
func (h *BranchHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolListBranches:
		return h.handleListBranches(ctx, req.Arguments)
	case ToolListTags:
		return h.handleListTags(ctx, req.Arguments)
	case ToolGetBranchCommits:
		return h.handleGetBranchCommits(ctx, req.Arguments)
	case ToolCreateBranch:
		return h.handleCreateBranch(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown branch tool: %s", req.Name),
		}
	}
}

// handleListBranches handles the list_branches tool call.
func (h *BranchHandler) handleListBranches(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	branches, err := h.client.ListBranches(ctx, repository, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Branches in %s (page %d, pagelen %d, %d total):\n",
		repository, page, pagelen, branches.Size)
	for _, branch := range branches.Values {
		fmt.Fprintf(&b, "\n- %s\n", branch.Name)
		if branch.Target.Hash != "" {
			fmt.Fprintf(&b, "  Tip: %s\n", branch.Target.Hash)
		}
		if branch.Target.Date != "" {
			fmt.Fprintf(&b, "  Last commit: %s\n", branch.Target.Date)
		}
	}
	if len(branches.Values) == 0 {
		b.WriteString("\nNo branches found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleListTags handles the list_tags tool call.
func (h *BranchHandler) handleListTags(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	tags, err := h.client.ListTags(ctx, repository, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tags in %s (page %d, pagelen %d, %d total):\n",
		repository, page, pagelen, tags.Size)
	for _, tag := range tags.Values {
		fmt.Fprintf(&b, "\n- %s\n", tag.Name)
		if tag.Target.Hash != "" {
			fmt.Fprintf(&b, "  Commit: %s\n", tag.Target.Hash)
		}
		if tag.Target.Date != "" {
			fmt.Fprintf(&b, "  Date: %s\n", tag.Target.Date)
		}
	}
	if len(tags.Values) == 0 {
		b.WriteString("\nNo tags found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleGetBranchCommits handles the get_branch_commits tool call.
func (h *BranchHandler) handleGetBranchCommits(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	branch, err := getStringParam(args, "branch", true)
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	commits, err := h.client.ListBranchCommits(ctx, repository, branch, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Commits on %s in %s (page %d, pagelen %d):\n",
		branch, repository, page, pagelen)
	for _, commit := range commits.Values {
		fmt.Fprintf(&b, "\n- %s\n", commit.Hash)
		if commit.Author.Raw != "" {
			fmt.Fprintf(&b, "  Author: %s\n", commit.Author.Raw)
		}
		if commit.Date != "" {
			fmt.Fprintf(&b, "  Date: %s\n", commit.Date)
		}
		if commit.Message != "" {
			fmt.Fprintf(&b, "  Message: %s\n", firstLine(commit.Message))
		}
	}
	if len(commits.Values) == 0 {
		b.WriteString("\nNo commits found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleCreateBranch handles the create_branch tool call. The target hash
// is resolved from the source branch tip first; the lookup and create are
// not transactional, a create failure simply surfaces.
func (h *BranchHandler) handleCreateBranch(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	branchName, err := getStringParam(args, "branch_name", true)
	if err != nil {
		return nil, err
	}
	sourceBranch, err := getStringParam(args, "source_branch", false)
	if err != nil {
		return nil, err
	}
	if sourceBranch == "" {
		sourceBranch = defaultSourceBranch
	}

	source, err := h.client.GetBranch(ctx, repository, sourceBranch)
	if err != nil {
		return nil, err
	}

	created, err := h.client.CreateBranch(ctx, repository, branchName, source.Target.Hash)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Created branch %s in %s from %s (at %s).",
		created.Name, repository, sourceBranch, source.Target.Hash)
	return domain.NewTextResponse(text), nil
}

// firstLine returns the first line of a possibly multi-line message.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
