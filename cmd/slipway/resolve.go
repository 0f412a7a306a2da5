package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driftworks/slipway/internal/buildexec"
	"github.com/driftworks/slipway/internal/checks"
	"github.com/driftworks/slipway/internal/gitrepo"
	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/projectcfg"
	postgresqueue "github.com/driftworks/slipway/internal/queue/postgres"
	"github.com/driftworks/slipway/internal/resolve"
	"github.com/driftworks/slipway/internal/store/postgres"
	"github.com/driftworks/slipway/pkg/config"
	"github.com/driftworks/slipway/pkg/logger"
)

func newResolveCommand(log *logger.Logger) *cobra.Command {
	var (
		deployID      string
		repoPath      string
		projectConfig string
		selectors     []string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and synchronize the builds a deploy depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			overrides, err := parseSelectors(selectors)
			if err != nil {
				return err
			}

			storeCfg := postgres.DefaultConfig(cfg.DatabaseDSN)
			st, err := postgres.NewPostgresStore(storeCfg, log.Logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer st.Close()

			deploy, err := st.Deploys().Get(cmd.Context(), deployID)
			if err != nil {
				return fmt.Errorf("loading deploy %s: %w", deployID, err)
			}

			var project *models.Project
			if projectConfig != "" {
				project, err = projectFromConfig(projectConfig, deploy.ProjectID)
			} else {
				project, err = st.Projects().Get(cmd.Context(), deploy.ProjectID)
			}
			if err != nil {
				return fmt.Errorf("loading project %s: %w", deploy.ProjectID, err)
			}

			var executor resolve.Executor
			switch cfg.ExecutorMode {
			case config.ExecutorModeHTTP:
				executor = buildexec.NewHTTPExecutor(cfg.RunnerEndpoint, cfg.RunnerToken, log.Logger)
			default:
				executor = buildexec.NewQueueExecutor(postgresqueue.NewPostgresQueue(st.DB(), log.Logger), log.Logger)
			}

			repo := gitrepo.NewClient(repoPath, log.Logger)
			registry := checks.NewRegistry(log.Logger)

			engine := resolve.NewEngine(
				st.Builds(),
				repo,
				executor,
				registry,
				resolve.RealClock(),
				nil,
				cfg.Resolver,
				log.WithDeployID(deploy.ID).Logger,
			)

			// The deploy coordinator owns the token; here the process
			// signal is the coordinator.
			token := resolve.NewCancelToken()
			go func() {
				<-cmd.Context().Done()
				token.Cancel()
			}()

			builds, err := engine.Run(cmd.Context(), token, deploy, project, overrides)
			if err != nil {
				return err
			}

			if token.Cancelled() {
				log.Info("deploy cancelled", "deploy_id", deploy.ID, "builds_resolved", len(builds))
				return nil
			}

			log.Info("all builds ready", "deploy_id", deploy.ID, "builds", len(builds))
			for _, build := range builds {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", build.Name, build.Status, build.RepoDigest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&deployID, "deploy", "", "deploy ID to resolve builds for")
	cmd.Flags().StringVar(&repoPath, "repo", ".", "path to the local git mirror of the project repository")
	cmd.Flags().StringVar(&projectConfig, "project-config", "",
		"path to a slipway.yaml to use instead of the project's stored configuration")
	cmd.Flags().StringArrayVar(&selectors, "selector", nil,
		"override selector as dockerfile=PATH,image=REF (repeatable; replaces the project's dockerfile list)")
	cmd.MarkFlagRequired("deploy")

	return cmd
}

// projectFromConfig loads the project's build configuration from a
// slipway.yaml file, keeping the stored project's identity so builds created
// during the run still attach to the right project.
func projectFromConfig(path, projectID string) (*models.Project, error) {
	project, err := projectcfg.Load(path)
	if err != nil {
		return nil, err
	}
	project.ID = projectID
	return project, nil
}

// parseSelectors converts --selector flag values into override selectors.
func parseSelectors(values []string) ([]resolve.Selector, error) {
	var selectors []resolve.Selector
	for _, value := range values {
		var sel resolve.Selector
		for _, part := range strings.Split(value, ",") {
			key, val, found := strings.Cut(part, "=")
			if !found {
				return nil, fmt.Errorf("invalid selector %q: expected key=value pairs", value)
			}
			switch key {
			case "dockerfile":
				sel.Dockerfile = val
			case "image":
				sel.ImageRef = val
			default:
				return nil, fmt.Errorf("invalid selector %q: unknown key %q", value, key)
			}
		}
		if sel.Dockerfile == "" && sel.ImageRef == "" {
			return nil, fmt.Errorf("invalid selector %q: dockerfile or image required", value)
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}
