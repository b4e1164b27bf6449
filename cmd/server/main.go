package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"memos-mcp/config"
	"memos-mcp/internal/httpserver"
	"memos-mcp/internal/mcpserver"
	"memos-mcp/internal/memos"
	"memos-mcp/internal/tools"
	"memos-mcp/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Instance id distinguishes restarts in aggregated logs.
	logger.Infof(ctx, "Starting Memos MCP Server (instance %s)...", uuid.NewString())
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Memos instance: %s (API %s)", cfg.Memos.BaseURL, cfg.Memos.APIVersion)

	// 3. Memos client + use case
	limiter := memos.NewRateLimiter(cfg.Memos.RateLimitPerMinute)
	client := memos.NewClient(cfg.Memos, limiter, logger)
	uc := memos.New(client, logger)

	// 4. Tools
	registry := tools.NewDefaultRegistry(uc, logger, time.Now())
	logger.Infof(ctx, "Registered tools: %v", registry.Names())

	// 5. MCP server
	mcpSrv, err := mcpserver.New(registry, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize MCP server: %v", err)
		os.Exit(1)
	}

	if cfg.MCP.Transport == "stdio" {
		if err := mcpSrv.Run(ctx); err != nil {
			logger.Errorf(ctx, "MCP stdio server stopped with error: %v", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Server stopped gracefully")
		return
	}

	// 6. HTTP server hosting /mcp plus health endpoints
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Host:        cfg.HTTPServer.Host,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		CORSOrigins: cfg.HTTPServer.CORSOrigins,
		MCPHandler:  mcpSrv.HTTPHandler(),
		AccessToken: cfg.Memos.AccessToken,
		AuthEnabled: cfg.Auth.TokenAuthEnabled,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		os.Exit(1)
	}

	if cfg.Auth.TokenAuthEnabled {
		logger.Infof(ctx, "Token auth enabled; MCP clients connect with /mcp?token=%s...",
			httpserver.ComputeTokenHash(cfg.Memos.AccessToken)[:8])
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
