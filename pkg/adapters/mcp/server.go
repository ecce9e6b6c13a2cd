package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/internal/presentation/graph"
	"github.com/aretw0/soundboard/internal/validator"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LimitsURI is the resource describing the console limits in effect.
const LimitsURI = "soundboard://limits"

// Compiler is the compile core exposed to MCP clients.
type Compiler interface {
	Compile(ctx context.Context, sb *domain.Soundboard) (*compiler.Result, error)
}

// Server exposes soundboard compilation as an MCP Server.
type Server struct {
	compiler  Compiler
	limits    console.Limits
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(c Compiler, limits console.Limits, version string) *Server {
	s := &Server{
		compiler:  c,
		limits:    limits,
		mcpServer: server.NewMCPServer("soundboard-mcp", strings.TrimSpace(version)),
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
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_soundboard
	s.mcpServer.AddTool(mcp.NewTool("compile_soundboard",
		mcp.WithDescription("Compile a YAML soundboard into a Source engine .cfg program."),
		mcp.WithString("source", mcp.Required(), mcp.Description("The soundboard source (YAML)")),
	), s.handleCompile)

	// TOOL: validate_soundboard
	s.mcpServer.AddTool(mcp.NewTool("validate_soundboard",
		mcp.WithDescription("Check a soundboard and list every problem in it."),
		mcp.WithString("source", mcp.Required(), mcp.Description("The soundboard source (YAML)")),
	), s.handleValidate)

	// TOOL: graph_soundboard
	s.mcpServer.AddTool(mcp.NewTool("graph_soundboard",
		mcp.WithDescription("Render the soundboard menu as a Mermaid diagram or a markdown outline."),
		mcp.WithString("source", mcp.Required(), mcp.Description("The soundboard source (YAML)")),
		mcp.WithString("format", mcp.Description("mermaid (default) or markdown")),
	), s.handleGraph)
}

func (s *Server) parse(ctx context.Context, request mcp.CallToolRequest) (*domain.Soundboard, *mcp.CallToolResult) {
	source, ok := request.GetArguments()["source"].(string)
	if !ok || source == "" {
		return nil, mcp.NewToolResultError("source is required")
	}
	if err := file.CheckSource([]byte(source)); err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	sb, err := file.ParseContext(ctx, []byte(source))
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return sb, nil
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sb, failed := s.parse(ctx, request)
	if failed != nil {
		return failed, nil
	}
	res, err := s.compiler.Compile(ctx, sb)
	if err != nil {
		slog.Debug("MCP Compile: rejected", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	return mcp.NewToolResultText(res.Program.String()), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sb, failed := s.parse(ctx, request)
	if failed != nil {
		return failed, nil
	}
	report, err := validator.Validate(ctx, sb, s.limits)
	if err != nil {
		var lines []string
		for _, p := range domain.Problems(err) {
			lines = append(lines, "- "+p.Error())
		}
		return mcp.NewToolResultError(strings.Join(lines, "\n")), nil
	}
	jsonBytes, _ := json.Marshal(report)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sb, failed := s.parse(ctx, request)
	if failed != nil {
		return failed, nil
	}
	format, _ := request.GetArguments()["format"].(string)
	switch format {
	case "", "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(sb, nil)), nil
	case "markdown":
		return mcp.NewToolResultText(graph.GenerateMarkdown(sb, s.limits)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) registerResources() {
	// EXPOSE: soundboard://limits
	s.mcpServer.AddResource(mcp.NewResource(LimitsURI, "Console Limits",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(map[string]int{
			"line_width":      s.limits.LineWidth,
			"sends_per_alias": s.limits.SendsPerAlias,
			"command_length":  s.limits.CommandLength,
			"echo_length":     s.limits.EchoLength,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode limits: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      LimitsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
