package stack

import (
	"path/filepath"
	"testing"

	"vcfkit/cli/vcfctl/internal/config"
	"vcfkit/cli/vcfctl/internal/steps"
)

func TestFetchRequest(t *testing.T) {
	cfg := config.Default()
	cfg.Data.SHA256 = "ab"
	cfg.Data.Size = 10
	c := &steps.Context{Root: "/srv/stack", Config: cfg, DryRun: true}
	req := FetchRequest(c, true)
	if req.Target != filepath.Join("/srv/stack", "data", config.DefaultFilename) {
		t.Fatalf("target=%q", req.Target)
	}
	if req.URL != config.DefaultURL || !req.Force || !req.Dry {
		t.Fatalf("request=%+v", req)
	}
	if req.Integrity.SHA256 != "ab" || req.Integrity.Size != 10 {
		t.Fatalf("integrity=%+v", req.Integrity)
	}
}

func TestComposeLineAndEnvBase(t *testing.T) {
	cfg := config.Default()
	c := &steps.Context{Root: "/srv/stack", Config: cfg}
	if got := ComposeLine(c, []string{"-p", "v"}, "up", "-d"); got != "docker compose -p v up -d" {
		t.Fatalf("line=%q", got)
	}
	if got := EnvBase(c); got != "/srv/stack" {
		t.Fatalf("env base=%q", got)
	}
	c.ConfigPath = "/etc/vcfkit/vcfkit.yaml"
	if got := EnvBase(c); got != "/etc/vcfkit" {
		t.Fatalf("env base=%q", got)
	}
}
