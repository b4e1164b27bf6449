package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerMCPRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.corsMiddleware())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

// registerMCPRoutes mounts the streamable MCP transport behind token auth.
func (srv *HTTPServer) registerMCPRoutes() {
	ctx := context.Background()

	handlers := []gin.HandlerFunc{srv.tokenAuth.middleware(srv.l), gin.WrapH(srv.mcpHandler)}
	srv.gin.Any("/mcp", handlers...)
	srv.gin.Any("/mcp/*path", handlers...)

	if srv.tokenAuth.enabled() {
		srv.l.Infof(ctx, "MCP endpoint mounted at /mcp (token auth enabled)")
	} else {
		srv.l.Infof(ctx, "MCP endpoint mounted at /mcp (token auth disabled)")
	}
}

// corsMiddleware reflects configured origins; with none configured requests
// pass through untouched.
func (srv *HTTPServer) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(srv.corsOrigins))
	for _, origin := range srv.corsOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
