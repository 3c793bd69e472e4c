package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// ServerVersion is reported in the initialize handshake.
const ServerVersion = "1.0.0"

// Server is the main MCP server. It drives the transport, routes tool
// calls, and is the error-normalization boundary: no raw error from the
// handler stack ever reaches the transport.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	logger    *slog.Logger
}

// NewServer creates an MCP server from a transport, router, and logger.
func NewServer(transport domain.Transport, router *RequestRouter, logger *slog.Logger) *Server {
	return &Server{
		transport: transport,
		router:    router,
		logger:    logger,
	}
}

// Start begins the server operation: the transport is started and request
// processing runs until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.Info("server started")
	go s.processRequests(ctx)

	return nil
}

// processRequests handles inbound requests one at a time until shutdown.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("server shutting down")
			return
		case req, ok := <-reqChan:
			if !ok {
				return
			}
			s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	s.logger.Info("received request", "method", req.Method, "request_id", req.ID)

	if req.Method == "" {
		s.sendError(req.ID, &domain.Error{
			Code:    domain.InvalidRequest,
			Message: "Invalid Request",
			Data:    "method is required",
		})
		return
	}

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		s.sendError(req.ID, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: "Method not found",
			Data:    fmt.Sprintf("unknown method: %s", req.Method),
		})
	}
}

// handleInitialize answers the MCP handshake.
func (s *Server) handleInitialize(req *domain.Request) {
	s.sendResult(req.ID, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    domain.ServerName,
			"version": ServerVersion,
		},
	})
}

// handleToolsList returns the full operation catalog.
func (s *Server) handleToolsList(req *domain.Request) {
	s.sendResult(req.ID, map[string]interface{}{
		"tools": s.router.ListAllTools(),
	})
}

// handleToolsCall executes one tool invocation. Any failure is normalized
// into the closed error shape before it is sent.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) {
	toolReq, err := parseToolRequest(req.Params)
	if err != nil {
		s.sendError(req.ID, &domain.Error{
			Code:    domain.InvalidParams,
			Message: "Invalid params",
			Data:    err.Error(),
		})
		return
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.logger.Error("tool execution failed", "tool", toolReq.Name, "request_id", req.ID, "error", err)
		s.sendError(req.ID, domain.Normalize(err))
		return
	}

	s.sendResult(req.ID, toolResp)
}

// parseToolRequest parses the params field into a ToolRequest.
func parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Round-trip through JSON to handle both map[string]interface{} and
	// already-typed params.
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendResult sends a successful JSON-RPC response.
func (s *Server) sendResult(id interface{}, result interface{}) {
	s.send(&domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// sendError sends a JSON-RPC error response.
func (s *Server) sendError(id interface{}, rpcErr *domain.Error) {
	s.send(&domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   rpcErr,
	})
}

func (s *Server) send(response *domain.Response) {
	if err := s.transport.Send(response); err != nil {
		s.logger.Error("failed to send response", "request_id", response.ID, "error", err)
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("closing server")
	return s.transport.Close()
}
