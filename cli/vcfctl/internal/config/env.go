package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyEnv exports cfg.EnvFiles then cfg.Env into the process environment so
// compose can substitute them. Variables already set are never overridden.
// Relative env file paths resolve against baseDir.
func ApplyEnv(cfg Config, baseDir string) error {
	for _, f := range cfg.EnvFiles {
		path := strings.TrimSpace(f)
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		vals, err := ReadEnvFile(path)
		if err != nil {
			return err
		}
		setMissing(vals)
	}
	setMissing(cfg.Env)
	return nil
}

// ReadEnvFile parses KEY=VALUE lines, skipping blanks and # comments.
func ReadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("env file: %w", err)
	}
	defer f.Close()
	out := map[string]string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = strings.Trim(strings.TrimSpace(val), `"'`)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("env file %s: %w", path, err)
	}
	return out, nil
}

func setMissing(vals map[string]string) {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		_ = os.Setenv(k, vals[k])
	}
}
