package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "vcfkit.yaml"

	DefaultURL      = "https://ftp.ensembl.org/pub/current_variation/vcf/homo_sapiens/homo_sapiens-chr22.vcf.gz"
	DefaultDataDir  = "data"
	DefaultFilename = "homo_sapiens-chr22.vcf.gz"
)

// KnownDownloaders are the download tool names data.downloaders accepts.
var KnownDownloaders = []string{"curl", "wget", "http"}

type Data struct {
	Dir      string `yaml:"dir"`
	URL      string `yaml:"url"`
	Filename string `yaml:"filename"`
	// SHA256 pins the expected content; empty skips hashing.
	SHA256 string `yaml:"sha256"`
	// Size is the expected size in bytes; 0 skips the check.
	Size        int64         `yaml:"size"`
	Downloaders []string      `yaml:"downloaders"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Compose struct {
	Command  []string      `yaml:"command"`
	Project  string        `yaml:"project"`
	Files    []string      `yaml:"files"`
	Profiles []string      `yaml:"profiles"`
	Services []string      `yaml:"services"`
	Timeout  time.Duration `yaml:"timeout"`
}

type SQLite struct {
	Path string `yaml:"path"`
	// Statements maps a benchmark method (q1_variant_by_id, ...) to SQL using named parameters.
	Statements map[string]string `yaml:"statements"`
}

type Bench struct {
	Iterations  int    `yaml:"iterations"`
	Warmup      int    `yaml:"warmup"`
	Output      string `yaml:"output"`
	QueryConfig string `yaml:"query_config"`
	SQLite      SQLite `yaml:"sqlite"`
}

type Config struct {
	LogLevel string            `yaml:"log_level"`
	Data     Data              `yaml:"data"`
	Compose  Compose           `yaml:"compose"`
	Env      map[string]string `yaml:"env"`
	EnvFiles []string          `yaml:"env_files"`
	Bench    Bench             `yaml:"bench"`
}

// Default returns the built-in settings used when no config file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Data: Data{
			Dir:         DefaultDataDir,
			URL:         DefaultURL,
			Filename:    DefaultFilename,
			Downloaders: []string{"curl", "wget"},
		},
		Compose: Compose{
			Command: []string{"docker", "compose"},
			Timeout: 10 * time.Minute,
		},
		Env: map[string]string{},
		Bench: Bench{
			Iterations:  100,
			Warmup:      10,
			Output:      "benchmark_results.csv",
			QueryConfig: "query_config.json",
		},
	}
}

// Path resolves the config file: VCFKIT_CONFIG if set, else <root>/vcfkit.yaml.
func Path(root string) string {
	if v := strings.TrimSpace(os.Getenv("VCFKIT_CONFIG")); v != "" {
		return v
	}
	return filepath.Join(root, FileName)
}

// Load reads the config for root, layering the file and env overrides on top
// of Default. It returns the file path used, or "" when no file exists.
func Load(root string) (Config, string, error) {
	return LoadFile(Path(root))
}

func LoadFile(path string) (Config, string, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		path = ""
	case err != nil:
		return cfg, path, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, path, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
	cfg.applyEnvOverrides()
	return cfg, path, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("VCFKIT_DATA_URL")); v != "" {
		c.Data.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("VCFKIT_DATA_DIR")); v != "" {
		c.Data.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("VCFKIT_DATA_FILE")); v != "" {
		c.Data.Filename = v
	}
	if v := strings.TrimSpace(os.Getenv("VCFKIT_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Data.URL)
	if err != nil {
		return fmt.Errorf("data.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("data.url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("data.url: missing host")
	}
	name := strings.TrimSpace(c.Data.Filename)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("data.filename must be a bare file name, got %q", c.Data.Filename)
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		return fmt.Errorf("data.dir is empty")
	}
	if c.Data.Size < 0 {
		return fmt.Errorf("data.size is negative")
	}
	if len(c.Data.Downloaders) == 0 {
		return fmt.Errorf("data.downloaders is empty")
	}
	for _, name := range c.Data.Downloaders {
		if !slices.Contains(KnownDownloaders, strings.ToLower(strings.TrimSpace(name))) {
			return fmt.Errorf("data.downloaders: unknown downloader %q (known: %s)", name, strings.Join(KnownDownloaders, ", "))
		}
	}
	if len(c.Compose.Command) == 0 || strings.TrimSpace(c.Compose.Command[0]) == "" {
		return fmt.Errorf("compose.command is empty")
	}
	if c.Bench.Iterations < 1 {
		return fmt.Errorf("bench.iterations must be at least 1")
	}
	if c.Bench.Warmup < 0 {
		return fmt.Errorf("bench.warmup is negative")
	}
	return nil
}
