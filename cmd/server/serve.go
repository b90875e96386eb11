package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samhotchkiss/biztask/internal/api"
	"github.com/samhotchkiss/biztask/internal/assistant"
	"github.com/samhotchkiss/biztask/internal/config"
	"github.com/samhotchkiss/biztask/internal/metrics"
	"github.com/samhotchkiss/biztask/internal/workspace"
	"github.com/samhotchkiss/biztask/internal/ws"
)

const (
	minShutdownTimeout = 15 * time.Second
	// shutdownGrace covers writing the response after the assistant returns.
	shutdownGrace      = 5 * time.Second
)

// app holds the long-running pieces of the server.
type app struct {
	server          *http.Server
	hub             *ws.Hub
	registry        *workspace.Registry
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// shutdownTimeoutFor lets an in-flight assistant call finish before the
// server is forced closed.
func shutdownTimeoutFor(cfg config.Config) time.Duration {
	return max(minShutdownTimeout, cfg.Assistant.Timeout+shutdownGrace)
}

func newApp(cfg config.Config, logger *zap.Logger, model assistant.Model) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	bot := assistant.New(model, assistant.Options{
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
		Logger:  logger.Named("assistant"),
		Metrics: m,
	})
	if !bot.Configured() {
		logger.Warn("assistant credential missing; BizBot will answer with the setup notice")
	}

	hub := ws.NewHub(logger.Named("ws"), m)
	registry := workspace.NewRegistry(workspace.Options{
		Theme:          cfg.DefaultTheme,
		Assistant:      bot,
		IncludeHistory: cfg.Assistant.IncludeHistory,
		IdleTTL:        cfg.WorkspaceIdleTTL,
		OnCreate:       api.BroadcastEvents(hub, logger),
		Logger:         logger.Named("workspace"),
		Metrics:        m,
	})

	handler := api.NewRouter(api.Options{
		Registry:           registry,
		Hub:                hub,
		Gatherer:           reg,
		Logger:             logger.Named("http"),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WSAllowedOrigins:   cfg.WSAllowedOrigins,
	})

	return &app{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		hub:             hub,
		registry:        registry,
		logger:          logger,
		shutdownTimeout: shutdownTimeoutFor(cfg),
	}, nil
}

// run serves until ctx is done or the listener fails, then shuts down.
func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.registry.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.logger.Info("BizTask starting", zap.String("addr", a.server.Addr), zap.String("version", version()))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warn("shutdown timed out; closing remaining connections", zap.Duration("timeout", a.shutdownTimeout))
			err = a.server.Close()
		}
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		a.logger.Info("BizTask stopped")
		return nil
	})

	return g.Wait()
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger, newModel())
	if err != nil {
		return err
	}
	return a.run(ctx)
}

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
