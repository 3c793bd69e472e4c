package application

import (
	"context"
	"fmt"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// RequestRouter dispatches tool calls to the handler that declared the
// tool. The binding table is built from each handler's catalog slice, so
// the catalog and the dispatch table cannot drift apart: a tool is routable
// exactly when a handler lists it.
type RequestRouter struct {
	handlers map[string]domain.ToolHandler
	order    []string
}

// NewRequestRouter creates a RequestRouter, binding every tool each handler
// declares through ListTools.
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers: make(map[string]domain.ToolHandler),
	}

	for _, handler := range handlers {
		for _, tool := range handler.ListTools() {
			router.handlers[tool.Name] = handler
			router.order = append(router.order, tool.Name)
		}
	}

	return router
}

// Route dispatches a tool request by exact name. Unknown names fail with
// MethodNotFound before any remote call is attempted.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handler, exists := r.handlers[req.Name]
	if !exists {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s", req.Name),
		}
	}

	return handler.Handle(ctx, req)
}

// ListAllTools aggregates tool definitions from all registered handlers in
// registration order. This backs the tools/list method.
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	seen := make(map[string]bool, len(r.order))
	var allTools []domain.ToolDefinition

	for _, name := range r.order {
		if seen[name] {
			continue
		}
		seen[name] = true
		handler := r.handlers[name]
		for _, tool := range handler.ListTools() {
			if tool.Name == name {
				allTools = append(allTools, tool)
				break
			}
		}
	}

	return allTools
}

// GetHandler returns the handler bound to a tool name.
// This is useful for testing and debugging.
func (r *RequestRouter) GetHandler(toolName string) (domain.ToolHandler, bool) {
	handler, exists := r.handlers[toolName]
	return handler, exists
}
