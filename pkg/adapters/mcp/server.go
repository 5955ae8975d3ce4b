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

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/extraction"
	"github.com/aretw0/cortex/pkg/ports"
	"github.com/aretw0/cortex/pkg/signals"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SnapshotURI is the resource exposing the live brain.
const SnapshotURI = "cortex://snapshot"

// IntegrateResponse is the structured result of integrate_knowledge.
type IntegrateResponse struct {
	Changed bool     `json:"changed" jsonschema_description:"Whether the brain changed"`
	Errors  []string `json:"errors" jsonschema_description:"One message per rejected candidate"`
	Context string   `json:"context" jsonschema_description:"The memory context after integration"`
}

// Server wraps the Brain and exposes it as an MCP Server.
type Server struct {
	brain     ports.Brain
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(brain ports.Brain, opts ...Option) *Server {
	s := &Server{
		brain:     brain,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("cortex-mcp", strings.TrimSpace(cortex.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
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
	// TOOL: integrate_knowledge
	integrateTool := mcp.NewTool("integrate_knowledge",
		mcp.WithDescription("Integrate extracted concepts and relations into the brain. "+
			"Concepts are classified into regions, reinforced when already known, and activated."),
		mcp.WithString("extraction", mcp.Required(),
			mcp.Description(`JSON object {"nodes":[{"id","group","category"}],"links":[{"source","target","type"}]}`)),
		mcp.WithOutputSchema[IntegrateResponse](),
	)
	s.mcpServer.AddTool(integrateTool, mcp.NewStructuredToolHandler(s.handleIntegrate))

	// TOOL: activate_concepts
	s.mcpServer.AddTool(mcp.NewTool("activate_concepts",
		mcp.WithDescription("Fully activate the given concepts and the relations between them."),
		mcp.WithArray("ids", mcp.Required(), mcp.WithStringItems(), mcp.Description("Concept ids")),
	), s.handleActivate)

	// TOOL: trigger_signal
	s.mcpServer.AddTool(mcp.NewTool("trigger_signal",
		mcp.WithDescription("Send a visual signal travelling between two brain regions."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source region id")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination region id")),
		mcp.WithString("color", mcp.Description("Signal color (defaults to the source region color)")),
	), s.handleSignal)

	// TOOL: get_memory_context
	s.mcpServer.AddTool(mcp.NewTool("get_memory_context",
		mcp.WithDescription("Describe everything the brain currently knows, for use as model context."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.brain.Describe()), nil
	})
}

func (s *Server) handleIntegrate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (IntegrateResponse, error) {
	var (
		result domain.ExtractionResult
		err    error
	)

	switch raw := args["extraction"].(type) {
	case string:
		result, err = extraction.Parse([]byte(raw))
	case map[string]interface{}:
		// Some clients send the object itself instead of its JSON text.
		result, err = extraction.FromMap(raw)
		result = extraction.Dedupe(extraction.Normalize(result))
	default:
		err = errors.New("extraction is required")
	}
	if err != nil {
		s.logger.Warn("MCP Integrate: payload rejected", "error", err)
		return IntegrateResponse{}, fmt.Errorf("integrate failed: %w", err)
	}

	changed, err := s.brain.Ingest(ctx, result)
	return IntegrateResponse{
		Changed: changed,
		Errors:  errorMessages(err),
		Context: s.brain.Describe(),
	}, nil
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := request.GetStringSlice("ids", nil)
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids must list at least one concept"), nil
	}
	changed := s.brain.ActivateConcepts(ctx, ids)
	return mcp.NewToolResultText(fmt.Sprintf(`{"changed":%t}`, changed)), nil
}

func (s *Server) handleSignal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := request.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := request.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var opts []signals.Option
	if color := request.GetString("color", ""); color != "" {
		opts = append(opts, signals.WithColor(color))
	}

	id, ok := s.brain.TriggerSignal(ctx, domain.NormalizeRegionID(from), domain.NormalizeRegionID(to), opts...)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("signal ignored: %q or %q is not a known region", from, to)), nil
	}
	return mcp.NewToolResultText(id), nil
}

func (s *Server) registerResources() {
	// EXPOSE: cortex://snapshot
	s.mcpServer.AddResource(mcp.NewResource(SnapshotURI, "Current Brain Snapshot",
		mcp.WithMIMEType("application/json"),
	), s.readSnapshot)
}

func (s *Server) readSnapshot(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.brain.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SnapshotURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func errorMessages(err error) []string {
	if err == nil {
		return []string{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]string, 0, len(errs))
		for _, e := range errs {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
