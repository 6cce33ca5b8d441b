package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"oddrafter/internal/drafter"
	"oddrafter/internal/logging"
)

const (
	// ServerName is reported to clients during initialisation.
	ServerName = "od-smart-drafter"
	// ServerVersion is the protocol-level server version.
	ServerVersion = "6.0.0"
)

// Options configures the HTTP listener.
type Options struct {
	Addr     string
	Endpoint string
}

// Server represents an MCP server instance using mcp-go
type Server struct {
	opts       Options
	logger     *logging.AppLogger
	drafter    *drafter.Service
	mcpServer  *server.MCPServer
	httpServer *http.Server
}

// NewServer creates the MCP server and registers its tools.
func NewServer(svc *drafter.Service, opts Options, logger *logging.AppLogger) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}
	if opts.Endpoint == "" {
		opts.Endpoint = "/mcp"
	}

	s := &Server{
		opts:    opts,
		logger:  logger,
		drafter: svc,
		mcpServer: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(true),
			server.WithLogging(),
			server.WithRecovery(),
			server.WithToolHandlerMiddleware(flushNotifications),
		),
	}
	s.registerTools()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Handler returns the HTTP handler serving the MCP endpoint and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.opts.Endpoint, server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithEndpointPath(s.opts.Endpoint),
	))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start listens on the configured address and serves until Stop is called.
// It returns nil after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Stop is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("MCP server listening",
		"addr", ln.Addr().String(),
		"endpoint", s.opts.Endpoint,
		"name", ServerName,
		"version", ServerVersion)

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the MCP server, waiting for in-flight tool
// calls until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping MCP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down MCP server: %w", err)
	}
	return nil
}
