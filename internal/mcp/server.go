package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/spotify-mcp/internal/logging"
	"github.com/dshills/spotify-mcp/internal/tools"
)

const (
	// ServerName is the MCP server name
	ServerName = "spotify-controller"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// ServiceName identifies the server in health responses
	ServiceName = "spotify-mcp-server"

	// EndpointPath serves MCP requests in HTTP mode
	EndpointPath = "/mcp"
	// HealthPath serves the health check in HTTP mode
	HealthPath = "/health"

	shutdownTimeout = 10 * time.Second
)

// Server wraps the MCP server with the Spotify tools
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
	tools  []tools.Tool
}

// NewServer creates a server exposing every tool in tools.All, backed by conn
func NewServer(conn tools.Connector, logger *zap.Logger) *Server {
	s := &Server{
		logger: logging.OrNop(logger),
		tools:  tools.All(),
	}

	s.mcp = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.logToolCall),
	)
	s.registerTools(conn)

	return s
}

// registerTools registers all tools in their declared order
func (s *Server) registerTools(conn tools.Connector) {
	for _, tool := range s.tools {
		s.mcp.AddTool(tool.Definition, tool.Handler(conn))
	}
	s.logger.Debug("registered tools", zap.Int("count", len(s.tools)))
}

// Tools returns the registered tools
func (s *Server) Tools() []tools.Tool {
	return s.tools
}

// MCPServer exposes the underlying mcp-go server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) logToolCall(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, request)

		fields := []zap.Field{
			zap.String("tool", request.Params.Name),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case err != nil:
			s.logger.Error("tool call failed", append(fields, zap.Error(err))...)
		case result != nil && result.IsError:
			s.logger.Warn("tool returned error result", append(fields, zap.String("message", resultText(result)))...)
		default:
			s.logger.Info("tool call", fields...)
		}
		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// ServeStdio serves MCP over the given streams until ctx is cancelled or input ends
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("serving MCP over stdio", zap.Int("tools", len(s.tools)))
	err := stdio.Listen(ctx, in, out)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)) {
		return nil
	}
	return err
}

// HTTPHandler returns the HTTP transport: a health check and a stateless
// streamable HTTP endpoint accepting POST only.
func (s *Server) HTTPHandler() http.Handler {
	streamable := server.NewStreamableHTTPServer(s.mcp,
		server.WithStateLess(true),
		server.WithEndpointPath(EndpointPath),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": ServiceName,
			"version": ServerVersion,
		})
	})
	mux.HandleFunc(EndpointPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
				"error": "Method not allowed. Use POST for MCP requests.",
			})
			return
		}
		streamable.ServeHTTP(w, r)
	})
	return mux
}

// ListenAndServeHTTP listens on addr and serves the HTTP transport until ctx is cancelled
func (s *Server) ListenAndServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeHTTPListener(ctx, ln)
}

// ServeHTTPListener serves the HTTP transport on ln and shuts down gracefully when ctx ends
func (s *Server) ServeHTTPListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	base := "http://" + ln.Addr().String()
	s.logger.Info("Spotify MCP Server running",
		zap.String("url", base),
		zap.String("health", base+HealthPath),
		zap.String("endpoint", base+EndpointPath))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
