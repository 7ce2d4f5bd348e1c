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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// WizardResponse aligns with the HTTP API and provides a unified structure across adapters.
type WizardResponse struct {
	State *domain.State `json:"state" jsonschema_description:"The current state of the wizard"`
	View  *domain.View  `json:"view" jsonschema_description:"The current step with its fields and affordances"`
}

// Wizard defines what the MCP server needs from intake.Service.
type Wizard interface {
	Start(ctx context.Context, sessionID, userID, layout, locale string) (*domain.State, error)
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Render(state *domain.State) (*domain.View, error)
	Next(ctx context.Context, sessionID string) (*domain.State, error)
	Previous(ctx context.Context, sessionID string) (*domain.State, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*domain.State, error)
	SetField(ctx context.Context, sessionID, path string, value any) (*domain.State, error)
	Toggle(ctx context.Context, sessionID, path, item string) (*domain.State, error)
	Estimate(ctx context.Context, sessionID string) (pricing.Estimate, error)
	Submit(ctx context.Context, sessionID string) (*domain.State, error)
	Cancel(ctx context.Context, sessionID string) error
}

// Server wraps the wizard service and exposes it as an MCP Server.
type Server struct {
	wizard    Wizard
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(w Wizard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		wizard:    w,
		logger:    logger,
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	session := mcp.WithString("session_id", mcp.Required(), mcp.Description("Wizard session ID"))

	s.mcpServer.AddTool(mcp.NewTool("start_wizard",
		mcp.WithDescription("Start (or resume) a project intake wizard for a client."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Client the project will belong to")),
		mcp.WithString("session_id", mcp.Description("Session ID to use (generated when omitted)")),
		mcp.WithString("layout", mcp.Description("Step layout: classic or detailed")),
		mcp.WithString("locale", mcp.Description("Locale for titles and labels, e.g. en or ar")),
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("view_wizard",
		mcp.WithDescription("Show the current step, its fields and what can be done next."),
		session,
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Replace the answer at a dotted field path."),
		session,
		mcp.WithString("path", mcp.Required(), mcp.Description("Field path, e.g. name or socialMedia.facebook")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value; JSON literals (true, [\"a\"]) are decoded")),
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetField))

	s.mcpServer.AddTool(mcp.NewTool("toggle_member",
		mcp.WithDescription("Add an item to a multi-select field, or remove it when present."),
		session,
		mcp.WithString("path", mcp.Required(), mcp.Description("Set field path, e.g. features")),
		mcp.WithString("item", mcp.Required(), mcp.Description("Option to toggle")),
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggle))

	s.mcpServer.AddTool(mcp.NewTool("next_step",
		mcp.WithDescription("Advance to the next step."),
		session,
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("previous_step",
		mcp.WithDescription("Go back to the previous step."),
		session,
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handlePrevious))

	s.mcpServer.AddTool(mcp.NewTool("jump_to_step",
		mcp.WithDescription("Jump to an adjacent or already visited step."),
		session,
		mcp.WithNumber("step", mcp.Required(), mcp.Description("1-indexed step number")),
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleJump))

	s.mcpServer.AddTool(mcp.NewTool("submit_wizard",
		mcp.WithDescription("Create the project from the answers. Only available on the last step."),
		session,
		mcp.WithOutputSchema[WizardResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("estimate_price",
		mcp.WithDescription("Estimate the price of the project described so far."),
		session,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		est, err := s.wizard.Estimate(ctx, request.GetString("session_id", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("estimate failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(est)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("cancel_wizard",
		mcp.WithDescription("Discard the wizard and all of its answers."),
		session,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		if err := s.wizard.Cancel(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cancel failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("wizard %s cancelled", id)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	userID := stringArg(args, "user_id")
	if userID == "" {
		return WizardResponse{}, errors.New("user_id is required")
	}
	state, err := s.wizard.Start(ctx, stringArg(args, "session_id"), userID, stringArg(args, "layout"), stringArg(args, "locale"))
	return s.respond(state, err)
}

func (s *Server) handleView(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	state, err := s.wizard.Load(ctx, stringArg(args, "session_id"))
	return s.respond(state, err)
}

func (s *Server) handleSetField(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	state, err := s.wizard.SetField(ctx, stringArg(args, "session_id"), stringArg(args, "path"), decodeValue(args["value"]))
	return s.respond(state, err)
}

func (s *Server) handleToggle(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	state, err := s.wizard.Toggle(ctx, stringArg(args, "session_id"), stringArg(args, "path"), stringArg(args, "item"))
	return s.respond(state, err)
}

func (s *Server) handleNext(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	state, err := s.wizard.Next(ctx, stringArg(args, "session_id"))
	return s.respond(state, err)
}

func (s *Server) handlePrevious(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	state, err := s.wizard.Previous(ctx, stringArg(args, "session_id"))
	return s.respond(state, err)
}

func (s *Server) handleJump(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	step, ok := args["step"].(float64)
	if !ok {
		return WizardResponse{}, errors.New("step must be a number")
	}
	state, err := s.wizard.JumpTo(ctx, stringArg(args, "session_id"), int(step))
	return s.respond(state, err)
}

func (s *Server) handleSubmit(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (WizardResponse, error) {
	id := stringArg(args, "session_id")
	state, err := s.wizard.Submit(ctx, id)
	var submitErr *domain.SubmissionError
	if errors.As(err, &submitErr) && state != nil {
		// A failed attempt still has a state worth showing; LastError explains it.
		s.logger.Warn("MCP Submit: project store rejected submission", "session_id", id, "err", err)
		return s.respond(state, nil)
	}
	return s.respond(state, err)
}

func (s *Server) respond(state *domain.State, err error) (WizardResponse, error) {
	if err != nil {
		return WizardResponse{}, err
	}
	view, err := s.wizard.Render(state)
	if err != nil {
		return WizardResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return WizardResponse{State: state, View: view}, nil
}

func (s *Server) registerResources() {
	for _, name := range steps.Names() {
		uri := "intake://layouts/" + name
		s.mcpServer.AddResource(mcp.NewResource(uri, "Step layout "+name,
			mcp.WithMIMEType("application/json"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			l, err := steps.Lookup(name)
			if err != nil {
				return nil, err
			}
			jsonBytes, _ := json.Marshal(l.Describe())
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		})
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// decodeValue turns JSON literals into their typed form and leaves plain text alone.
func decodeValue(raw any) any {
	text, ok := raw.(string)
	if !ok {
		return raw
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "true" || trimmed == "false" || strings.HasPrefix(trimmed, "[") || trimmed == "null" {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return text
}
