package main

import (
	"ritcompass/internal/api"
	"ritcompass/internal/api/handlers"
	"ritcompass/pkg/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCMD() *cobra.Command {
	var port string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			app, err := bootstrap(ctx, registry)
			if err != nil {
				return err
			}
			defer app.Close()

			appLogger := app.logger
			appLogger.Info("Starting RIT Compass service",
				zap.String("provider", app.cfg.LLM.Provider),
				zap.String("strict_model", app.cfg.LLM.StrictModel),
				zap.String("free_model", app.cfg.LLM.FreeModel),
			)

			decoder := auth.NewDecoder(app.cfg.JWT.SecretKey)
			if !decoder.Verifies() {
				appLogger.Warn("JWT_SECRET_KEY is empty; identity tokens are decoded without verification")
			}

			askHandler := handlers.NewAskHandler(app.pipeline, appLogger)
			router := api.SetupRouter(ctx, &app.cfg.Server, askHandler, decoder, registry, appLogger)

			if port == "" {
				port = app.cfg.Server.Port
			}
			addr := ":" + port

			errCh := make(chan error, 1)
			go func() {
				appLogger.Info("Server starting", zap.String("address", addr))
				errCh <- router.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			appLogger.Info("Shutting down server")
			if err := router.Shutdown(); err != nil {
				appLogger.Error("Server shutdown error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	serve.Flags().StringVar(&port, "port", "", "listen port (default SERVER_PORT)")

	return serve
}
