package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/internal/presentation/graph"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/ports"
)

const graphURI = "questline://graph"

// StateResponse provides a unified structure for every traversal tool.
type StateResponse struct {
	Pointer     domain.Pointer `json:"pointer" jsonschema_description:"Current traversal cursor"`
	State       string         `json:"state,omitempty" jsonschema_description:"UID of the current state"`
	Kind        domain.Kind    `json:"kind,omitempty" jsonschema_description:"Kind of the current state"`
	Description string         `json:"description,omitempty" jsonschema_description:"Text of the current state"`
	Processed   bool           `json:"processed" jsonschema_description:"Indicates the scenario reached a terminal finish"`
	Steps       int            `json:"steps,omitempty" jsonschema_description:"Steps applied by this call"`
	Choice      *ChoiceView    `json:"choice,omitempty" jsonschema_description:"Nearest choice ahead, if any"`
	Blocked     string         `json:"blocked,omitempty" jsonschema_description:"Why traversal stopped, if it is not finished"`
}

// ChoiceView lists the options of a Choice.
type ChoiceView struct {
	UID      string          `json:"uid"`
	Options  []domain.Option `json:"options"`
	Resolved bool            `json:"resolved"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	ports.Driver
}

// Server wraps a questline Engine and exposes it as an MCP Server.
// Tool calls are serialised, so the server is the engine's single owner.
type Server struct {
	engine    Engine
	mu        sync.Mutex
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("questline-mcp", strings.TrimSpace(questline.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Describe the current state, whether the scenario is finished and the nearest choice ahead."),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Step through the scenario until a choice must be made or it finishes."),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("choose",
		mcp.WithDescription("Resolve a choice with one of its options."),
		mcp.WithString("choice", mcp.Required(), mcp.Description("UID of the choice state")),
		mcp.WithString("option", mcp.Required(), mcp.Description("UID of the selected option")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleChoose))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the scenario as a Mermaid flowchart with the current position highlighted."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.mermaid()), nil
	})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Scenario Graph",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/vnd.mermaid",
				Text:     s.mermaid(),
			},
		}, nil
	})
}

func (s *Server) mermaid() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overlay *graph.GraphOverlay
	if f, ok := s.engine.Facts().Lookup(domain.PointerUID); ok {
		if p, ok := f.(domain.Pointer); ok {
			overlay = graph.OverlayFor(p)
		}
	}
	return graph.GenerateMermaid(s.engine.Facts(), overlay)
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.describe()
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps, err := s.engine.StepUntilCan()
	if err != nil && !blocking(err) {
		return StateResponse{}, fmt.Errorf("advance failed: %w", err)
	}

	resp, derr := s.describe()
	if derr != nil {
		return StateResponse{}, derr
	}
	resp.Steps = steps
	if err != nil {
		resp.Blocked = err.Error()
	}
	return resp, nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	choice, _ := args["choice"].(string)
	option, _ := args["option"].(string)
	if choice == "" || option == "" {
		return StateResponse{}, fmt.Errorf("choice and option are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Choose(choice, option); err != nil {
		return StateResponse{}, fmt.Errorf("choose failed: %w", err)
	}
	return s.describe()
}

// describe must be called with mu held.
func (s *Server) describe() (StateResponse, error) {
	var resp StateResponse
	if f, ok := s.engine.Facts().Lookup(domain.PointerUID); ok {
		resp.Pointer, _ = f.(domain.Pointer)
	}

	current, err := s.engine.CurrentState()
	if err != nil {
		return resp, err
	}
	if current != nil {
		resp.State = current.UID()
		resp.Kind = current.Kind()
		resp.Description = current.Details().Description
	}
	if resp.Processed, err = s.engine.IsProcessed(); err != nil {
		return resp, err
	}

	point, err := s.engine.NearestChoice()
	if err != nil && !blocking(err) {
		return resp, err
	}
	if point != nil {
		resp.Choice = &ChoiceView{UID: point.Choice.UID(), Options: point.Options, Resolved: point.Resolved()}
	}
	return resp, nil
}

// blocking reports errors that only mean traversal cannot continue without a decision.
func blocking(err error) bool {
	return errors.Is(err, domain.ErrNoJumpsAvailable) ||
		errors.Is(err, domain.ErrMoreThanOneJumpsAvailable) ||
		errors.Is(err, domain.ErrNoJumpsFromLastState) ||
		errors.Is(err, domain.ErrStepLimit)
}
