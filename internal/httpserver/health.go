package httpserver

import (
	"github.com/gin-gonic/gin"

	"memos-mcp/internal/memos"
	"memos-mcp/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Memos MCP Server"
	ServiceName   = "memos-mcp"
)

// healthCheck reports process liveness.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": memos.Version,
		"service": ServiceName,
	})
}

// readyCheck reports readiness to serve traffic.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": memos.Version,
		"service": ServiceName,
	})
}

// liveCheck reports that the process is alive.
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": memos.Version,
		"service": ServiceName,
	})
}
