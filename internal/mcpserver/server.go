package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
)

// Server exposes finished and running logs under a directory as MCP tools.
type Server struct {
	logDir string

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(logDir string) *Server {
	mcpSrv := server.NewMCPServer(
		"damage-game",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		logDir:     logDir,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerReplayTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}
