// Package gitrepo provides read-only access to project source trees through
// a local git mirror.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Client answers questions about a project's source tree at a given commit.
// It operates on a local clone or mirror of the repository.
type Client struct {
	repoPath string
	logger   *slog.Logger
}

// NewClient creates a Client for the repository at repoPath.
func NewClient(repoPath string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		repoPath: repoPath,
		logger:   logger,
	}
}

// FileExists reports whether path exists in the source tree at commit.
// It uses `git cat-file -e <commit>:<path>`, which exits non-zero both for a
// missing path and for an unknown commit; the unknown-commit case is
// reported as an error rather than a plain false.
func (c *Client) FileExists(ctx context.Context, path, commit string) (bool, error) {
	spec := fmt.Sprintf("%s:%s", commit, path)

	cmd := exec.CommandContext(ctx, "git", "-C", c.repoPath, "cat-file", "-e", spec)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	if _, ok := err.(*exec.ExitError); ok {
		// A missing path and an unknown commit both exit non-zero; an
		// unknown commit names the bare sha in stderr and is an error,
		// not a plain "file absent".
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "Not a valid object name "+commit) && !strings.Contains(msg, commit+":") {
			return false, fmt.Errorf("unknown commit %s: %s", commit, msg)
		}
		c.logger.Debug("path not present at commit",
			"path", path,
			"commit", commit,
		)
		return false, nil
	}

	return false, fmt.Errorf("running git cat-file: %w", err)
}
