package models

import "time"

// DeployStatus represents the current state of a deploy.
type DeployStatus string

const (
	DeployStatusPending   DeployStatus = "pending"
	DeployStatusResolving DeployStatus = "resolving"
	DeployStatusReady     DeployStatus = "ready"
	DeployStatusFailed    DeployStatus = "failed"
	DeployStatusCancelled DeployStatus = "cancelled"
)

// Deploy carries the read-only context of the deploy whose builds are being
// resolved. The engine never writes deploy records.
type Deploy struct {
	ID                    string       `json:"id"`
	ProjectID             string       `json:"project_id"`
	TargetCommit          string       `json:"target_commit"`
	TargetRef             string       `json:"target_ref"`
	Requester             string       `json:"requester,omitempty"`
	PreviousReleaseCommit string       `json:"previous_release_commit,omitempty"`
	ReuseReleaseBuilds    bool         `json:"reuse_release_builds"`
	Status                DeployStatus `json:"status"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// CandidateCommits returns the ranked list of commits whose builds may
// satisfy this deploy's selectors: the deploy's own commit first, then the
// previous release's commit when cross-release reuse is allowed.
func (d *Deploy) CandidateCommits() []string {
	commits := []string{d.TargetCommit}
	if d.ReuseReleaseBuilds && d.PreviousReleaseCommit != "" {
		commits = append(commits, d.PreviousReleaseCommit)
	}
	return commits
}
