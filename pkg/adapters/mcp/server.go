// Package mcp exposes the blueprint service as MCP tools for LLM agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Service is the part of blueprint.Service the tools need.
type Service interface {
	Generate(ctx context.Context, sessionID string, force bool) (*blueprint.Result, error)
	UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error
	Invalidate(ctx context.Context, sessionID string) error
	Templates() []string
	Template(templateType string) (domain.Template, error)
}

// GenerateResponse is the structured output of generate_blueprint.
type GenerateResponse struct {
	Blueprint *domain.Blueprint `json:"blueprint" jsonschema_description:"The generated session blueprint"`
	Cached    bool              `json:"cached" jsonschema_description:"True when served from cache"`
	RunID     string            `json:"run_id,omitempty" jsonschema_description:"Identifier of the computation"`
}

// Server wraps the service and exposes it as an MCP Server.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		svc:       svc,
		logger:    logger,
		mcpServer: server.NewMCPServer("blueprint-mcp", strings.TrimSpace(blueprint.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	generateTool := mcp.NewTool("generate_blueprint",
		mcp.WithDescription("Generate (or fetch the cached) workout blueprint of a group session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Training session ID")),
		mcp.WithBoolean("force", mcp.Description("Recompute even if a cached blueprint exists")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	s.mcpServer.AddTool(mcp.NewTool("invalidate_blueprint",
		mcp.WithDescription("Drop the cached blueprint of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Training session ID")),
	), invalidateHandler(s.svc))

	s.mcpServer.AddTool(mcp.NewTool("update_preferences",
		mcp.WithDescription("Change a client's preferences. The session's cached blueprint is dropped."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Training session ID")),
		mcp.WithString("client_id", mcp.Required(), mcp.Description("Client ID")),
		mcp.WithString("preferences", mcp.Required(), mcp.Description(`JSON object, e.g. {"intensity":"low","muscle_target":["chest"]}`)),
	), updatePreferencesHandler(s.svc))

	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the workout templates a session can use."),
	), listTemplatesHandler(s.svc))
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return GenerateResponse{}, errors.New("session_id is required")
	}
	force, _ := args["force"].(bool)

	res, err := s.svc.Generate(ctx, sessionID, force)
	if err != nil {
		s.logger.Warn("MCP generate failed", "session_id", sessionID, "err", err)
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}
	return GenerateResponse{Blueprint: res.Blueprint, Cached: res.Cached, RunID: res.RunID}, nil
}

func invalidateHandler(svc Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Invalidate(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalidate failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("blueprint of session %s invalidated", sessionID)), nil
	}
}

func updatePreferencesHandler(svc Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		clientID, err := request.RequireString("client_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, err := request.RequireString("preferences")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("preferences must be a JSON object: %v", err)), nil
		}
		prefs, err := domain.DecodePreferences(fields)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.UpdatePreferences(ctx, sessionID, clientID, prefs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("preferences of %s updated", clientID)), nil
	}
}

func listTemplatesHandler(svc Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var b strings.Builder
		for _, typ := range svc.Templates() {
			t, err := svc.Template(typ)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "%s: %s (%d blocks, %d exercises per client)\n", t.Type, t.Name, len(t.Blocks), t.TotalExercises())
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("blueprint://templates/{type}", "Workout template definition",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		typ := strings.TrimPrefix(request.Params.URI, "blueprint://templates/")
		t, err := s.svc.Template(typ)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
