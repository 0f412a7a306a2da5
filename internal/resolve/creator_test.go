package resolve

import (
	"context"
	"errors"
	"testing"
)

func TestCreator_OverrideImagePreferred(t *testing.T) {
	deploy := testDeploy()
	builds := newMemBuildStore()
	repo := newFakeRepo(deploy.TargetCommit + ":custom/Dockerfile")
	creator := NewCreator(builds, repo, &fakeExecutor{}, nil)

	sel := Selector{Dockerfile: "custom/Dockerfile", ImageRef: "registry.example.com/team/edge:v2"}
	build, err := creator.Create(context.Background(), deploy, testProject(), sel)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if build.ImageName != "edge" {
		t.Errorf("image name = %q, want the override's short name %q", build.ImageName, "edge")
	}
	if build.Name != "deploy-dep-1-edge" {
		t.Errorf("build name = %q, want it derived from the override image", build.Name)
	}
	if build.Dockerfile != "custom/Dockerfile" {
		t.Errorf("dockerfile = %q, want the selector's", build.Dockerfile)
	}
}

func TestCreator_TemplateImageWithoutOverride(t *testing.T) {
	deploy := testDeploy()
	builds := newMemBuildStore()
	repo := newFakeRepo(deploy.TargetCommit + ":Dockerfile.worker")
	creator := NewCreator(builds, repo, &fakeExecutor{}, nil)

	build, err := creator.Create(context.Background(), deploy, testProject(),
		Selector{Dockerfile: "Dockerfile.worker"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if build.ImageName != "worker" {
		t.Errorf("image name = %q, want template-derived %q", build.ImageName, "worker")
	}
}

func TestCreator_ExecutorFailurePropagates(t *testing.T) {
	deploy := testDeploy()
	builds := newMemBuildStore()
	repo := newFakeRepo(deploy.TargetCommit + ":Dockerfile")
	executor := &fakeExecutor{err: errors.New("runner unreachable")}
	creator := NewCreator(builds, repo, executor, nil)

	_, err := creator.Create(context.Background(), deploy, testProject(),
		Selector{Dockerfile: "Dockerfile", ImageRef: "myapp"})
	if err == nil {
		t.Fatal("Create succeeded, want the executor's error surfaced")
	}
}
