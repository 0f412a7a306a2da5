package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftworks/slipway/internal/api"
	"github.com/driftworks/slipway/internal/auth"
	"github.com/driftworks/slipway/internal/store/postgres"
	"github.com/driftworks/slipway/pkg/config"
	"github.com/driftworks/slipway/pkg/logger"
)

func newServeCommand(log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the build status API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			storeCfg := postgres.DefaultConfig(cfg.DatabaseDSN)
			st, err := postgres.NewPostgresStore(storeCfg, log.Logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer st.Close()

			authSvc := auth.NewService(&auth.Config{
				JWTSecret:   []byte(cfg.JWTSecret),
				TokenExpiry: cfg.JWTExpiry,
			}, log.Logger)

			server := api.NewServer(cfg, st, authSvc, log.Logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
