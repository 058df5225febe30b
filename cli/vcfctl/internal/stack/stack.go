// Package stack turns the loaded configuration into the concrete requests the
// commands hand to fetch and runner.
package stack

import (
	"path/filepath"

	"vcfkit/cli/vcfctl/internal/compose"
	"vcfkit/cli/vcfctl/internal/execx"
	"vcfkit/cli/vcfctl/internal/fetch"
	"vcfkit/cli/vcfctl/internal/paths"
	"vcfkit/cli/vcfctl/internal/runner"
	"vcfkit/cli/vcfctl/internal/steps"
)

// FetchRequest describes the data download for c.
func FetchRequest(c *steps.Context, force bool) fetch.Request {
	d := c.Config.Data
	return fetch.Request{
		URL:         d.URL,
		Target:      paths.Target(c.Root, d),
		Downloaders: d.Downloaders,
		Integrity:   fetch.Integrity{SHA256: d.SHA256, Size: d.Size},
		Force:       force,
		Dry:         c.DryRun,
		Timeout:     d.Timeout,
	}
}

// ComposeOptions describes how compose is invoked for c.
func ComposeOptions(c *steps.Context) runner.Options {
	return runner.Options{
		Dry:     c.DryRun,
		Command: c.Config.Compose.Command,
		Timeout: c.Config.Compose.Timeout,
		Stderr:  c.Err,
	}
}

// ComposeFiles returns the global compose arguments for c.
func ComposeFiles(c *steps.Context) ([]string, error) {
	return compose.Files(c.Root, c.Config.Compose)
}

// ComposeLine renders the compose invocation for operator messages.
func ComposeLine(c *steps.Context, files []string, args ...string) string {
	cmd := c.Config.Compose.Command
	all := append(append(append([]string{}, cmd[1:]...), files...), args...)
	return execx.Line(cmd[0], all)
}

// EnvBase is the directory env_files resolve against: the config file's
// directory, or the stack root when running on defaults.
func EnvBase(c *steps.Context) string {
	if c.ConfigPath != "" {
		return filepath.Dir(c.ConfigPath)
	}
	return c.Root
}
