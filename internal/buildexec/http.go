package buildexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/driftworks/slipway/internal/models"
)

// HTTPExecutor triggers builds on a remote runner over its HTTP API.
type HTTPExecutor struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPExecutor creates an executor for the runner at baseURL. The token,
// when set, is sent as a bearer credential.
func NewHTTPExecutor(baseURL, token string, logger *slog.Logger) *HTTPExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPExecutor{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Start POSTs the build to the runner's trigger endpoint. A 2xx response
// means the runner accepted the build; actual execution is asynchronous.
func (e *HTTPExecutor) Start(ctx context.Context, build *models.Build) error {
	body, err := json.Marshal(build)
	if err != nil {
		return fmt.Errorf("marshaling build: %w", err)
	}

	url := fmt.Sprintf("%s/v1/builds", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating runner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("triggering build %s: %w", build.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("runner rejected build %s: status %d: %s",
			build.ID, resp.StatusCode, bytes.TrimSpace(detail))
	}

	e.logger.Info("handed build to runner", "build_id", build.ID, "runner", e.baseURL)
	return nil
}
