package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vcfkit/cli/vcfctl/internal/config"
)

// conventionalFiles are the names docker compose picks up without -f, in its lookup order.
var conventionalFiles = []string{"compose.yaml", "compose.yml", "docker-compose.yaml", "docker-compose.yml"}

// DetectRoot picks the working directory: an explicit flag value, then
// VCFKIT_ROOT, then the process working directory.
func DetectRoot(flag string) (string, error) {
	root := strings.TrimSpace(flag)
	if root == "" {
		root = strings.TrimSpace(os.Getenv("VCFKIT_ROOT"))
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Files builds the global compose arguments: -p, --profile and -f entries.
// Listed files resolve against root and must exist.
func Files(root string, c config.Compose) ([]string, error) {
	var args []string
	if p := strings.TrimSpace(c.Project); p != "" {
		args = append(args, "-p", p)
	}
	for _, prof := range c.Profiles {
		if prof = strings.TrimSpace(prof); prof != "" {
			args = append(args, "--profile", prof)
		}
	}
	for _, f := range c.Files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(root, f)
		}
		if !fileExists(f) {
			return nil, fmt.Errorf("compose file %s does not exist", f)
		}
		args = append(args, "-f", f)
	}
	return args, nil
}

// DefaultFile returns the conventional compose file present in root, or "".
func DefaultFile(root string) string {
	for _, name := range conventionalFiles {
		candidate := filepath.Join(root, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// UpArgs starts the configured services detached.
func UpArgs(c config.Compose) []string {
	return append([]string{"up", "-d"}, services(c)...)
}

func DownArgs() []string { return []string{"down"} }

func PsArgs(c config.Compose) []string {
	return append([]string{"ps"}, services(c)...)
}

func LogsArgs(c config.Compose, extra []string) []string {
	args := append([]string{"logs"}, extra...)
	return append(args, services(c)...)
}

func services(c config.Compose) []string {
	out := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
