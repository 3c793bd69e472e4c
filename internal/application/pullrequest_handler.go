package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

// defaultDestinationBranch is assumed when create_pull_request gets no
// destination_branch.
const defaultDestinationBranch = "main"

// PullRequestHandler implements ToolHandler for pull request operations.
type PullRequestHandler struct {
	client *infrastructure.BitbucketClient
}

// NewPullRequestHandler creates a PullRequestHandler.
func NewPullRequestHandler(client *infrastructure.BitbucketClient) *PullRequestHandler {
	return &PullRequestHandler{client: client}
}

// GroupName returns the identifier for this handler group.
func (h *PullRequestHandler) GroupName() string {
	return "pullrequest"
}

// ListTools returns the pull-request group's catalog entries.
func (h *PullRequestHandler) ListTools() []domain.ToolDefinition {
	return pullRequestTools()
}

// Handle processes a pull-request-group tool call.
func (h *PullRequestHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolCreatePullRequest:
		return h.handleCreate(ctx, req.Arguments)
	case ToolListPullRequests:
		return h.handleList(ctx, req.Arguments)
	case ToolGetPullRequest:
		return h.handleGet(ctx, req.Arguments)
	case ToolApprovePullRequest:
		return h.handleApprove(ctx, req.Arguments)
	case ToolDeclinePullRequest:
		return h.handleDecline(ctx, req.Arguments)
	case ToolMergePullRequest:
		return h.handleMerge(ctx, req.Arguments)
	case ToolGetPullRequestComments:
		return h.handleGetComments(ctx, req.Arguments)
	case ToolAddPullRequestComment:
		return h.handleAddComment(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown pull request tool: %s", req.Name),
		}
	}
}

// prArgs extracts the repository and pull_request_id pair shared by most
// pull-request operations.
func prArgs(args map[string]interface{}) (string, int, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return "", 0, err
	}
	id, err := getIntParam(args, "pull_request_id", true)
	if err != nil {
		return "", 0, err
	}
	return repository, id, nil
}

// handleCreate handles the create_pull_request tool call.
func (h *PullRequestHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	title, err := getStringParam(args, "title", true)
	if err != nil {
		return nil, err
	}
	sourceBranch, err := getStringParam(args, "source_branch", true)
	if err != nil {
		return nil, err
	}
	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	destinationBranch, err := getStringParam(args, "destination_branch", false)
	if err != nil {
		return nil, err
	}
	if destinationBranch == "" {
		destinationBranch = defaultDestinationBranch
	}
	closeSourceBranch, err := getBoolParam(args, "close_source_branch", false)
	if err != nil {
		return nil, err
	}
	reviewers, err := getStringListParam(args, "reviewers")
	if err != nil {
		return nil, err
	}

	create := &domain.PullRequestCreate{
		Title:             title,
		Description:       description,
		Source:            domain.PullRequestEndpoint{Branch: domain.BranchName{Name: sourceBranch}},
		Destination:       domain.PullRequestEndpoint{Branch: domain.BranchName{Name: destinationBranch}},
		CloseSourceBranch: closeSourceBranch,
	}
	for _, username := range reviewers {
		create.Reviewers = append(create.Reviewers, domain.AccountRef{Username: username})
	}

	pr, err := h.client.CreatePullRequest(ctx, repository, create)
	if err != nil {
		return nil, err
	}

	return domain.NewTextResponse(formatPullRequest(pr, "Created pull request")), nil
}

// handleList handles the list_pull_requests tool call.
func (h *PullRequestHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	state, err := getEnumParam(args, "state", pullRequestStates, "OPEN")
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	prs, err := h.client.ListPullRequests(ctx, repository, state, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s pull requests in %s (page %d, pagelen %d, %d total):\n",
		state, repository, page, pagelen, prs.Size)
	for _, pr := range prs.Values {
		fmt.Fprintf(&b, "\n- #%d %s [%s]\n", pr.ID, pr.Title, pr.State)
		fmt.Fprintf(&b, "  %s -> %s\n", pr.Source.Branch.Name, pr.Destination.Branch.Name)
		if pr.Author.DisplayName != "" {
			fmt.Fprintf(&b, "  Author: %s\n", pr.Author.DisplayName)
		}
		if pr.UpdatedOn != "" {
			fmt.Fprintf(&b, "  Updated: %s\n", pr.UpdatedOn)
		}
	}
	if len(prs.Values) == 0 {
		b.WriteString("\nNo pull requests found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleGet handles the get_pull_request tool call.
func (h *PullRequestHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}

	pr, err := h.client.GetPullRequest(ctx, repository, id)
	if err != nil {
		return nil, err
	}

	return domain.NewTextResponse(formatPullRequest(pr, "Pull request")), nil
}

// handleApprove handles the approve_pull_request tool call.
func (h *PullRequestHandler) handleApprove(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}

	participant, err := h.client.ApprovePullRequest(ctx, repository, id)
	if err != nil {
		return nil, err
	}

	approver := participant.User.DisplayName
	if approver == "" {
		approver = participant.User.Nickname
	}
	text := fmt.Sprintf("Approved pull request #%d in %s as %s.", id, repository, approver)
	return domain.NewTextResponse(text), nil
}

// handleDecline handles the decline_pull_request tool call.
func (h *PullRequestHandler) handleDecline(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}

	pr, err := h.client.DeclinePullRequest(ctx, repository, id)
	if err != nil {
		return nil, err
	}

	return domain.NewTextResponse(formatPullRequest(pr, "Declined pull request")), nil
}

// handleMerge handles the merge_pull_request tool call.
func (h *PullRequestHandler) handleMerge(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}
	strategy, err := getEnumParam(args, "merge_strategy", mergeStrategies, "merge_commit")
	if err != nil {
		return nil, err
	}
	closeSourceBranch, err := getBoolParam(args, "close_source_branch", false)
	if err != nil {
		return nil, err
	}

	pr, err := h.client.MergePullRequest(ctx, repository, id, strategy, closeSourceBranch)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Merged pull request #%d in %s using %s (close_source_branch=%t). State: %s.",
		id, repository, strategy, closeSourceBranch, pr.State)
	return domain.NewTextResponse(text), nil
}

// handleGetComments handles the get_pull_request_comments tool call.
func (h *PullRequestHandler) handleGetComments(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	comments, err := h.client.ListPullRequestComments(ctx, repository, id, page, pagelen)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comments on pull request #%d in %s (page %d, pagelen %d, %d total):\n",
		id, repository, page, pagelen, comments.Size)
	for _, comment := range comments.Values {
		if comment.Deleted {
			continue
		}
		fmt.Fprintf(&b, "\n- [%d] %s (%s)\n", comment.ID, comment.User.DisplayName, comment.CreatedOn)
		if comment.Inline != nil {
			fmt.Fprintf(&b, "  On %s line %d\n", comment.Inline.Path, comment.Inline.To)
		}
		fmt.Fprintf(&b, "  %s\n", comment.Content.Raw)
	}
	if len(comments.Values) == 0 {
		b.WriteString("\nNo comments found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleAddComment handles the add_pull_request_comment tool call.
func (h *PullRequestHandler) handleAddComment(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, id, err := prArgs(args)
	if err != nil {
		return nil, err
	}
	content, err := getStringParam(args, "content", true)
	if err != nil {
		return nil, err
	}

	comment, err := h.client.AddPullRequestComment(ctx, repository, id, content)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Added comment %d to pull request #%d in %s.", comment.ID, id, repository)
	return domain.NewTextResponse(text), nil
}

// formatPullRequest summarizes one pull request as flat text.
func formatPullRequest(pr *domain.PullRequest, heading string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d: %s [%s]\n", heading, pr.ID, pr.Title, pr.State)
	fmt.Fprintf(&b, "Branches: %s -> %s\n", pr.Source.Branch.Name, pr.Destination.Branch.Name)
	if pr.Author.DisplayName != "" {
		fmt.Fprintf(&b, "Author: %s\n", pr.Author.DisplayName)
	}
	if pr.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", pr.Description)
	}
	if len(pr.Reviewers) > 0 {
		names := make([]string, 0, len(pr.Reviewers))
		for _, reviewer := range pr.Reviewers {
			names = append(names, reviewer.DisplayName)
		}
		fmt.Fprintf(&b, "Reviewers: %s\n", strings.Join(names, ", "))
	}
	if pr.CreatedOn != "" {
		fmt.Fprintf(&b, "Created: %s\n", pr.CreatedOn)
	}
	if pr.UpdatedOn != "" {
		fmt.Fprintf(&b, "Updated: %s\n", pr.UpdatedOn)
	}
	if pr.Links.HTML.Href != "" {
		fmt.Fprintf(&b, "URL: %s\n", pr.Links.HTML.Href)
	}
	return b.String()
}
