package projectcfg

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`
name: myapp
repo_url: https://git.example.com/team/myapp
dockerfiles:
  - Dockerfile
  - Dockerfile.worker
image_template: registry.example.com/team/{stem}
release_branch: release
`)

	project, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if project.Name != "myapp" {
		t.Errorf("name = %q, want myapp", project.Name)
	}
	if len(project.Dockerfiles) != 2 {
		t.Errorf("dockerfiles = %v, want 2 entries", project.Dockerfiles)
	}
	if project.ImageTemplate != "registry.example.com/team/{stem}" {
		t.Errorf("image template = %q", project.ImageTemplate)
	}
	if project.ReleaseBranch != "release" {
		t.Errorf("release branch = %q, want release", project.ReleaseBranch)
	}
	if project.BuildCreationDisabled {
		t.Error("build creation disabled defaulted to true")
	}
}

func TestParse_MinimalConfig(t *testing.T) {
	project, err := Parse([]byte("name: bare\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if project.Name != "bare" || len(project.Dockerfiles) != 0 {
		t.Errorf("got %+v, want name only", project)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"missing name", "dockerfiles: [Dockerfile]", "name is required"},
		{"empty dockerfile", "name: x\ndockerfiles: ['']", "empty dockerfile"},
		{"duplicate dockerfile", "name: x\ndockerfiles: [Dockerfile, Dockerfile]", "duplicate dockerfile"},
		{"malformed yaml", "name: [unclosed", "parsing project config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
