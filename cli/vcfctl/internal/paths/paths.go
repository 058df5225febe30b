package paths

import (
	"path/filepath"
	"strings"

	"vcfkit/cli/vcfctl/internal/config"
)

// PartialSuffix marks a download that has not completed.
const PartialSuffix = ".part"

// DataDir returns the data directory for root. Relative config values resolve
// against root.
func DataDir(root string, d config.Data) string {
	dir := strings.TrimSpace(d.Dir)
	if dir == "" {
		dir = config.DefaultDataDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// Target returns the path the data file is stored at: <data dir>/<filename>.
func Target(root string, d config.Data) string {
	return filepath.Join(DataDir(root, d), strings.TrimSpace(d.Filename))
}

// Partial returns the in-flight download path for target.
func Partial(target string) string {
	return target + PartialSuffix
}

// Rel renders p relative to root for operator messages, falling back to p.
func Rel(root, p string) string {
	r, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(r, "..") {
		return p
	}
	return "./" + filepath.ToSlash(r)
}
