package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/kirillkom/estate-docs/internal/adapters/http"
	"github.com/kirillkom/estate-docs/internal/bootstrap"
	"github.com/kirillkom/estate-docs/internal/config"
	"github.com/kirillkom/estate-docs/internal/observability/logging"
	"github.com/kirillkom/estate-docs/internal/observability/metrics"
)

const serviceName = "estate-api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if app.InlineQueue() {
		go runInlineVerifier(ctx, app)
	}

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	httpMetrics.RegisterBreakerStates(serviceName, app.Resilience.BreakerStates)
	router := httpadapter.NewRouter(cfg, app.Catalog, app.Uploader, app.Reviewer, app.Downloader, httpMetrics).Handler()
	server := &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		logger.Error("api_listen_failed", "port", cfg.APIPort, "error", err)
		os.Exit(1)
	}
	if cfg.APIMaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.APIMaxConnections)
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort, "repository", cfg.RepositoryBackend, "queue", cfg.QueueBackend)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.APIShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}

// runInlineVerifier consumes in-process upload events when no broker is configured.
func runInlineVerifier(ctx context.Context, app *bootstrap.App) {
	err := app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		verifyCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()
		return app.Verifier.VerifyByID(verifyCtx, documentID)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("inline_verifier_stopped", "error", err)
	}
}
