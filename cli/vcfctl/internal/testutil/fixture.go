package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// HostFixture replaces host tools (curl, wget, docker) with stub scripts on a
// private PATH and keeps a temporary working directory for the stack.
// Every stub appends its argv to a shared call log.
type HostFixture struct {
	t       *testing.T
	root    string
	binDir  string
	callLog string
}

// NewHostFixture prepares the fixture and points PATH at the stub directory
// only, so real host tools are never reached.
func NewHostFixture(t *testing.T) *HostFixture {
	t.Helper()
	base := t.TempDir()
	f := &HostFixture{
		t:       t,
		root:    filepath.Join(base, "stack"),
		binDir:  filepath.Join(base, "bin"),
		callLog: filepath.Join(base, "calls.log"),
	}
	for _, dir := range []string{f.root, f.binDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("PATH", f.binDir)
	t.Setenv("VCFKIT_CONFIG", "")
	t.Setenv("VCFKIT_ROOT", "")
	t.Setenv("VCFKIT_DATA_URL", "")
	t.Setenv("VCFKIT_DATA_DIR", "")
	t.Setenv("VCFKIT_DATA_FILE", "")
	t.Setenv("VCFKIT_LOG_LEVEL", "")
	t.Setenv("VCFKIT_DEBUG", "")
	return f
}

// Root is the stack working directory.
func (f *HostFixture) Root() string { return f.root }

// Stub installs an executable called name running body after logging its argv.
func (f *HostFixture) Stub(name, body string) {
	f.t.Helper()
	script := fmt.Sprintf("#!/bin/sh\necho \"%s $*\" >> %s\n%s\n", name, shQuote(f.callLog), body)
	if err := os.WriteFile(filepath.Join(f.binDir, name), []byte(script), 0o755); err != nil {
		f.t.Fatalf("write stub %s: %v", name, err)
	}
}

// StubDownloader installs a curl or wget stub that writes content to the
// path following -o/-O and exits with code.
func (f *HostFixture) StubDownloader(name, content string, code int) {
	f.t.Helper()
	body := fmt.Sprintf(`dest=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o|-O) dest="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf '%%s' %s > "$dest"
exit %d`, shQuote(content), code)
	f.Stub(name, body)
}

// StubDocker installs a docker stub exiting with code.
func (f *HostFixture) StubDocker(code int) {
	f.Stub("docker", fmt.Sprintf("exit %d", code))
}

// Calls returns logged invocations whose program is name, each as the argv after the program.
func (f *HostFixture) Calls(name string) []string {
	f.t.Helper()
	data, err := os.ReadFile(f.callLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		f.t.Fatalf("read call log: %v", err)
	}
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		prog, rest, _ := strings.Cut(line, " ")
		if prog == name {
			out = append(out, rest)
		}
	}
	return out
}

// WriteFile writes content under Root and returns the absolute path.
func (f *HostFixture) WriteFile(rel string, content string) string {
	f.t.Helper()
	path := filepath.Join(f.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
