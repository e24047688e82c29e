package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/questline"
	httpAdapter "github.com/aretw0/questline/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/questline/pkg/adapters/mcp"
	"github.com/aretw0/questline/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// NewServerHandler builds the HTTP handler with its own metrics registry.
func NewServerHandler(ctx context.Context, opts RunOptions, logger *slog.Logger) (http.Handler, *questline.Engine, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := createEngine(ctx, opts, logger, metrics.Hooks())
	if err != nil {
		return nil, nil, err
	}

	handler := httpAdapter.NewHandler(engine,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	return handler, engine, nil
}

// Serve exposes the scenario over HTTP until ctx is cancelled.
func Serve(ctx context.Context, opts RunOptions) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	handler, engine, err := NewServerHandler(ctx, opts, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Out, "Starting questline server on %s", srv.Addr)
		printSystemMessage(opts.Out, "Serving scenario %q (run %s)", engine.Name, engine.ID)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printSystemMessage(opts.Out, "questline server stopped gracefully")
		return nil
	}
}

// ServeMCP exposes the scenario as MCP tools, over stdio or SSE when sse is set.
func ServeMCP(ctx context.Context, opts RunOptions, sse bool) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	engine, err := createEngine(ctx, opts, logger)
	if err != nil {
		return err
	}

	srv := mcpAdapter.NewServer(engine)
	if sse {
		return srv.ServeSSE(ctx, opts.Addr)
	}
	return srv.ServeStdio()
}
