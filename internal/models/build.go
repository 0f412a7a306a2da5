package models

import "time"

// BuildStatus represents the current state of a build record.
type BuildStatus string

const (
	BuildStatusPending   BuildStatus = "pending"
	BuildStatusActive    BuildStatus = "active"
	BuildStatusSucceeded BuildStatus = "succeeded"
	BuildStatusFailed    BuildStatus = "failed"
)

// ExecutionJob is the job record the external build runner attaches to a
// build when it picks it up. Its Status is surfaced to users verbatim.
type ExecutionJob struct {
	ID      string `json:"id"`
	BuildID string `json:"build_id"`
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
}

// Build represents a container image build attempt. Records are inserted
// once by this service or by an external CI system; after insertion only the
// build runner mutates status, digest and the attached job.
type Build struct {
	ID           string       `json:"id"`
	ProjectID    string       `json:"project_id"`
	Name         string       `json:"name"`
	SourceCommit string       `json:"source_commit"`
	SourceRef    string       `json:"source_ref"`
	Requester    string       `json:"requester,omitempty"`
	Dockerfile   string       `json:"dockerfile,omitempty"`
	ImageName    string       `json:"image_name"`
	Status       BuildStatus  `json:"status"`
	RepoDigest   string       `json:"repo_digest,omitempty"`
	External     bool         `json:"external"`
	URL          string       `json:"url,omitempty"`
	Job          *ExecutionJob `json:"job,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
}

// Active reports whether the build has not yet reached a terminal state.
func (b *Build) Active() bool {
	return b.Status == BuildStatusPending || b.Status == BuildStatusActive
}
