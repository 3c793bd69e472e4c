package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

// DeploymentHandler implements ToolHandler for Pipelines deployment
// operations.
type DeploymentHandler struct {
	client *infrastructure.BitbucketClient
}

// NewDeploymentHandler creates a DeploymentHandler.
func NewDeploymentHandler(client *infrastructure.BitbucketClient) *DeploymentHandler {
	return &DeploymentHandler{client: client}
}

// GroupName returns the identifier for this handler group.
func (h *DeploymentHandler) GroupName() string {
	return "deployment"
}

// ListTools returns the deployment group's catalog entries.
func (h *DeploymentHandler) ListTools() []domain.ToolDefinition {
	return deploymentTools()
}

// Handle processes a deployment-group tool call.
func (h *DeploymentHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolListDeployments:
		return h.handleList(ctx, req.Arguments)
	case ToolGetDeployment:
		return h.handleGet(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown deployment tool: %s", req.Name),
		}
	}
}

// handleList handles the list_deployments tool call. The environment
// filter is applied client-side after the fetch: the remote API filters by
// environment UUID, not name, so name filtering cannot be pushed down.
func (h *DeploymentHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	environment, err := getStringParam(args, "environment", false)
	if err != nil {
		return nil, err
	}
	page, pagelen, err := getPagination(args)
	if err != nil {
		return nil, err
	}

	deployments, err := h.client.ListDeployments(ctx, repository, page, pagelen)
	if err != nil {
		return nil, err
	}

	values := deployments.Values
	if environment != "" {
		filtered := values[:0:0]
		for _, deployment := range values {
			if deployment.Environment.Name == environment {
				filtered = append(filtered, deployment)
			}
		}
		values = filtered
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Deployments in %s (page %d, pagelen %d, %d total fetched)", repository, page, pagelen, deployments.Size)
	if environment != "" {
		fmt.Fprintf(&b, ", filtered to environment %q", environment)
	}
	b.WriteString(":\n")
	for _, deployment := range values {
		b.WriteString("\n" + formatDeployment(&deployment))
	}
	if len(values) == 0 {
		b.WriteString("\nNo deployments found.")
	}

	return domain.NewTextResponse(b.String()), nil
}

// handleGet handles the get_deployment tool call. The UUID argument is
// validated before the remote call; Bitbucket's brace-wrapped form is
// accepted.
func (h *DeploymentHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	repository, err := getStringParam(args, "repository", true)
	if err != nil {
		return nil, err
	}
	deploymentUUID, err := getStringParam(args, "deployment_uuid", true)
	if err != nil {
		return nil, err
	}

	if _, parseErr := uuid.Parse(strings.Trim(deploymentUUID, "{}")); parseErr != nil {
		return nil, domain.NewValidationError("deployment_uuid", "must be a valid UUID: %v", parseErr)
	}

	deployment, err := h.client.GetDeployment(ctx, repository, deploymentUUID)
	if err != nil {
		return nil, err
	}

	return domain.NewTextResponse("Deployment details:\n\n" + formatDeployment(deployment)), nil
}

// formatDeployment summarizes one deployment as flat text.
func formatDeployment(deployment *domain.Deployment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s\n", deployment.UUID)
	if deployment.Environment.Name != "" {
		fmt.Fprintf(&b, "  Environment: %s\n", deployment.Environment.Name)
	}
	if deployment.State.Name != "" {
		state := deployment.State.Name
		if deployment.State.Status.Name != "" {
			state += " (" + deployment.State.Status.Name + ")"
		}
		fmt.Fprintf(&b, "  State: %s\n", state)
	}
	if deployment.LastUpdate != "" {
		fmt.Fprintf(&b, "  Last update: %s\n", deployment.LastUpdate)
	}
	return b.String()
}
