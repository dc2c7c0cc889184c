package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/estate-docs/internal/adapters/mcp"
	"github.com/kirillkom/estate-docs/internal/bootstrap"
	"github.com/kirillkom/estate-docs/internal/config"
	"github.com/kirillkom/estate-docs/internal/observability/logging"
)

const version = "0.1.0"

// stdout carries the MCP protocol, so logs go to stderr.
func main() {
	cfg := config.Load()
	logger := logging.NewJSONLoggerTo(os.Stderr, "estate-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := server.ServeStdio(mcpadapter.NewServer(app.Catalog, version)); err != nil {
		logger.Error("mcp_serve_failed", "error", err)
	}
}
