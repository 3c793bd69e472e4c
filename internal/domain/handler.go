package domain

import (
	"context"
)

// ToolHandler processes requests for one group of Bitbucket operations
// (repository, branch, pull request, deployment).
type ToolHandler interface {
	// Handle processes an MCP tool call request.
	// Returns the tool response or an error if processing fails.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns this group's slice of the operation catalog.
	ListTools() []ToolDefinition

	// GroupName returns the identifier for this handler group,
	// used for logging.
	GroupName() string
}
