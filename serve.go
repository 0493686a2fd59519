package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Andrewp2/andrew-chat/internal/adapter/llm"
	"github.com/Andrewp2/andrew-chat/internal/adapter/search"
	"github.com/Andrewp2/andrew-chat/internal/catalog"
	"github.com/Andrewp2/andrew-chat/internal/config"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
	"github.com/Andrewp2/andrew-chat/internal/policy"
	"github.com/Andrewp2/andrew-chat/internal/service"
	"github.com/Andrewp2/andrew-chat/internal/store"
	handler "github.com/Andrewp2/andrew-chat/internal/transport/http"
	"github.com/Andrewp2/andrew-chat/internal/transport/rpc"
	"github.com/Andrewp2/andrew-chat/internal/transport/ws"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, WebSocket and JSON-RPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
}

// app is everything the servers share.
type app struct {
	store      *store.MemoryStore
	httpServer *echo.Echo
	rpcServer  *rpc.Server
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	m := metrics.New()

	models, err := catalog.Load(cfg.ModelsFile)
	if err != nil {
		return nil, err
	}

	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize policy engine")
	}

	httpClient := &http.Client{}
	conversations := store.NewMemoryStore(cfg.StreamBuffer, m)
	svc := service.New(
		conversations,
		store.NewUserStore(),
		llm.NewClient(cfg, httpClient, m),
		search.NewClient(cfg.SearchBaseURL, httpClient, m),
		models,
		policyEngine,
	)

	a := &app{
		store:      conversations,
		httpServer: handler.NewServer(svc, ws.NewServer(cfg, svc), m),
	}
	if cfg.RPCPort > 0 {
		if a.rpcServer, err = rpc.NewServer(svc); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info().
		Int("http_port", cfg.HTTPPort).
		Int("rpc_port", cfg.RPCPort).
		Str("models_file", cfg.ModelsFile).
		Bool("mock", cfg.MockMode()).
		Msg("starting chat server")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.Info().Str("addr", addr).Msg("HTTP API started")
		if err := a.httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "HTTP server")
		}
		return nil
	})

	if a.rpcServer != nil {
		eg.Go(func() error {
			addr := fmt.Sprintf(":%d", cfg.RPCPort)
			log.Info().Str("addr", addr).Msg("JSON-RPC server started")
			return errors.Wrap(a.rpcServer.Start(addr), "RPC server")
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down chat server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Ending the streams first lets long-lived stream handlers return.
		a.store.Close()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown HTTP server gracefully")
		}
		if a.rpcServer != nil {
			if err := a.rpcServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown RPC server gracefully")
			}
		}
		log.Info().Msg("chat server stopped")
		return nil
	})

	return eg.Wait()
}
