package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftworks/slipway/internal/buildexec"
	postgresqueue "github.com/driftworks/slipway/internal/queue/postgres"
	"github.com/driftworks/slipway/internal/store/postgres"
	"github.com/driftworks/slipway/internal/worker"
	"github.com/driftworks/slipway/pkg/config"
	"github.com/driftworks/slipway/pkg/logger"
)

func newWorkCommand(log *logger.Logger) *cobra.Command {
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "work",
		Short: "Drain the build hand-off queue, triggering builds on the runner",
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

			q := postgresqueue.NewPostgresQueue(st.DB(), log.Logger)
			runner := buildexec.NewHTTPExecutor(cfg.RunnerEndpoint, cfg.RunnerToken, log.Logger)

			w := worker.New(q, runner, poll, log.Logger)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 5*time.Second, "sleep between queue polls when idle")

	return cmd
}
