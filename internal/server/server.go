package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/diagramkit/mermaid-mcp/internal/config"
	"github.com/diagramkit/mermaid-mcp/internal/mermaid"
)

// Server handles MCP protocol communication
type Server struct {
	name    string
	version string

	renderer *mermaid.Renderer
}

// New creates a new MCP server instance from the given configuration.
func New(cfg *config.Config, version string) *Server {
	return &Server{
		name:    cfg.Name,
		version: version,
		renderer: mermaid.New(
			mermaid.WithCommand(cfg.MmdcPath),
			mermaid.WithTimeout(cfg.RenderTimeout),
		),
	}
}

// toolHandler is a tool implementation working on decoded arguments.
type toolHandler func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error)

// build assembles the protocol server with every tool registered.
func (s *Server) build() (*mcp.Server, error) {
	impl := &mcp.Implementation{
		Name:    s.name,
		Version: s.version,
	}
	srv := mcp.NewServer(impl, nil)

	handlers := map[string]toolHandler{
		ToolGenerateDiagramFile:   s.handleGenerateFile,
		ToolGenerateDiagramStream: s.handleGenerateStream,
	}

	for _, tool := range GetToolDefinitions() {
		handler, ok := handlers[tool.Name]
		if !ok {
			return nil, fmt.Errorf("no handler registered for tool %s", tool.Name)
		}

		schema, err := compileSchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema for tool %s: %w", tool.Name, err)
		}

		srv.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		}, adaptHandler(handler))
	}

	return srv, nil
}

// adaptHandler lifts a toolHandler into the SDK's handler signature,
// recovering the raw argument bytes from the request.
func adaptHandler(h toolHandler) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(json.RawMessage)
		if !ok && req.Params.Arguments != nil {
			// In-process clients may pass decoded values instead of raw bytes.
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			args = data
		}
		if args == nil {
			args = json.RawMessage("{}")
		}
		return h(ctx, args)
	}
}

// Run serves MCP over stdin/stdout until the client disconnects or the
// context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv, err := s.build()
	if err != nil {
		return err
	}
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP surface: the streamable MCP endpoint at /mcp
// plus a /healthz probe. Sessions are stateless, so any replica can serve
// any request.
func (s *Server) Handler() (http.Handler, error) {
	srv, err := s.build()
	if err != nil {
		return nil, err
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, &mcp.StreamableHTTPOptions{Stateless: true})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/mcp", streamable)

	return r, nil
}
