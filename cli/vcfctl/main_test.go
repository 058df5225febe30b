package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vcfkit/cli/vcfctl/internal/config"
	"vcfkit/cli/vcfctl/internal/testutil"
)

type run struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, f *testutil.HostFixture, args ...string) run {
	t.Helper()
	var out, errw bytes.Buffer
	cmd := newRootCmd(&out, &errw)
	cmd.SetArgs(append([]string{"--workdir", f.Root()}, args...))
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(&errw, "Error:", err)
	}
	return run{code: exitCode(err), stdout: out.String(), stderr: errw.String()}
}

func dataFile(f *testutil.HostFixture) string {
	return filepath.Join(f.Root(), "data", config.DefaultFilename)
}

func TestSetupDownloadsAndStartsServices(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "##fileformat=VCFv4.2", 0)
	f.StubDocker(0)

	r := execute(t, f)
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	data, err := os.ReadFile(dataFile(f))
	if err != nil {
		t.Fatalf("data file missing: %v", err)
	}
	if string(data) != "##fileformat=VCFv4.2" {
		t.Fatalf("data=%q", data)
	}
	if calls := f.Calls("curl"); len(calls) != 1 || !strings.HasSuffix(calls[0], config.DefaultURL) {
		t.Fatalf("curl calls=%v", calls)
	}
	if calls := f.Calls("docker"); len(calls) != 1 || calls[0] != "compose up -d" {
		t.Fatalf("docker calls=%v", calls)
	}
	if !strings.Contains(r.stdout, "Setup complete") {
		t.Fatalf("missing completion notice: %q", r.stdout)
	}
}

func TestSetupSkipsExistingFile(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "NEW", 0)
	f.StubDocker(0)
	f.WriteFile(filepath.Join("data", config.DefaultFilename), "OLD")

	r := execute(t, f, "setup")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if calls := f.Calls("curl"); len(calls) != 0 {
		t.Fatalf("expected no download, got %v", calls)
	}
	if !strings.Contains(r.stdout, "already exists") {
		t.Fatalf("stdout=%q", r.stdout)
	}
	if calls := f.Calls("docker"); len(calls) != 1 {
		t.Fatalf("docker calls=%v", calls)
	}
}

func TestSetupWithoutDownloaderExitsOne(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDocker(0)

	r := execute(t, f)
	if r.code != 1 {
		t.Fatalf("exit=%d, want 1", r.code)
	}
	if !strings.Contains(r.stderr, "curl, wget") {
		t.Fatalf("stderr should name the tools: %q", r.stderr)
	}
	entries, err := os.ReadDir(filepath.Join(f.Root(), "data"))
	if err != nil {
		t.Fatalf("data dir should be created: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("data dir should be empty, got %d entries", len(entries))
	}
	if calls := f.Calls("docker"); len(calls) != 0 {
		t.Fatalf("compose should not run, got %v", calls)
	}
}

func TestSetupContinuesAfterDownloadFailure(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "partial", 56)
	f.StubDocker(0)

	r := execute(t, f)
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if _, err := os.Stat(dataFile(f)); !os.IsNotExist(err) {
		t.Fatalf("failed download must not leave a data file: %v", err)
	}
	if _, err := os.Stat(dataFile(f) + ".part"); !os.IsNotExist(err) {
		t.Fatalf("failed download must not leave a partial file: %v", err)
	}
	if calls := f.Calls("docker"); len(calls) != 1 {
		t.Fatalf("compose should run exactly once, got %v", calls)
	}
}

func TestSetupIgnoresComposeFailure(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("wget", "VCF", 0)
	f.StubDocker(1)

	r := execute(t, f)
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if calls := f.Calls("docker"); len(calls) != 1 {
		t.Fatalf("docker calls=%v", calls)
	}
	if !strings.Contains(r.stdout, "Setup complete") {
		t.Fatalf("stdout=%q", r.stdout)
	}
}

func TestStrictPropagatesComposeExit(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "VCF", 0)
	f.StubDocker(3)

	r := execute(t, f, "--strict")
	if r.code != 3 {
		t.Fatalf("exit=%d, want 3", r.code)
	}
	if strings.Contains(r.stdout, "Setup complete") {
		t.Fatalf("strict failure should stop before the notice")
	}
}

func TestDryRunRunsNothing(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "VCF", 0)
	f.StubDocker(0)

	r := execute(t, f, "--dry-run")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if len(f.Calls("curl"))+len(f.Calls("docker")) != 0 {
		t.Fatalf("dry run executed host tools")
	}
	if !strings.Contains(r.stderr, "+ docker compose up -d") {
		t.Fatalf("stderr=%q", r.stderr)
	}
	if !strings.Contains(r.stdout, "Would download") {
		t.Fatalf("stdout=%q", r.stdout)
	}
	if _, err := os.Stat(filepath.Join(f.Root(), "data")); !os.IsNotExist(err) {
		t.Fatalf("dry run created the data dir: %v", err)
	}
}

func TestConfigFileShapesComposeCall(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "VCF", 0)
	f.StubDocker(0)
	f.WriteFile("stack.yml", "services: {}\n")
	f.WriteFile(config.FileName, ""+
		"data:\n  dir: vcf\n  filename: sample.vcf.gz\n"+
		"compose:\n  project: variants\n  files: [stack.yml]\n  services: [postgres]\n")

	r := execute(t, f)
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if _, err := os.Stat(filepath.Join(f.Root(), "vcf", "sample.vcf.gz")); err != nil {
		t.Fatalf("configured data path not used: %v", err)
	}
	want := "compose -p variants -f " + filepath.Join(f.Root(), "stack.yml") + " up -d postgres"
	if calls := f.Calls("docker"); len(calls) != 1 || calls[0] != want {
		t.Fatalf("docker calls=%v, want %q", calls, want)
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	f := testutil.NewHostFixture(t)
	if r := execute(t, f, "--no-such-flag"); r.code != 2 {
		t.Fatalf("exit=%d, want 2", r.code)
	}
}

func TestPreflight(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDocker(0)
	f.StubDownloader("wget", "", 0)
	f.WriteFile("compose.yaml", "services: {}\n")

	r := execute(t, f, "preflight")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	for _, want := range []string{"docker: OK", "downloader: OK (wget)", "compose file: OK (./compose.yaml)", "data file: missing"} {
		if !strings.Contains(r.stdout, want) {
			t.Fatalf("stdout missing %q: %q", want, r.stdout)
		}
	}

	f2 := testutil.NewHostFixture(t)
	f2.StubDocker(0)
	if r := execute(t, f2, "preflight"); r.code != 1 {
		t.Fatalf("preflight without downloader: exit=%d", r.code)
	}
	f3 := testutil.NewHostFixture(t)
	f3.Stub("docker", `[ "$1" = compose ] && echo "Docker Compose version v2.29.1"; exit 0`)
	f3.StubDownloader("curl", "", 0)
	r = execute(t, f3, "preflight")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "docker compose: OK (Docker Compose version v2.29.1)") {
		t.Fatalf("stdout=%q", r.stdout)
	}
}

func TestStatusReportsDataFile(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDocker(0)
	f.WriteFile(filepath.Join("data", config.DefaultFilename), "12345")

	r := execute(t, f, "status")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "(present, 5 bytes)") {
		t.Fatalf("stdout=%q", r.stdout)
	}
	if calls := f.Calls("docker"); len(calls) != 1 || calls[0] != "compose ps" {
		t.Fatalf("docker calls=%v", calls)
	}
}

func TestBenchWithoutTargets(t *testing.T) {
	f := testutil.NewHostFixture(t)
	r := execute(t, f, "bench")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "No database benchmark targets configured") {
		t.Fatalf("stdout=%q", r.stdout)
	}
}

func TestFetchForceRefetches(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("wget", "NEW", 0)
	f.WriteFile(filepath.Join("data", config.DefaultFilename), "OLD")

	r := execute(t, f, "fetch")
	if r.code != 0 || len(f.Calls("wget")) != 0 {
		t.Fatalf("plain fetch should skip: exit=%d calls=%v", r.code, f.Calls("wget"))
	}
	r = execute(t, f, "fetch", "--force")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	data, err := os.ReadFile(dataFile(f))
	if err != nil || string(data) != "NEW" {
		t.Fatalf("data=%q err=%v", data, err)
	}
	if len(f.Calls("docker")) != 0 {
		t.Fatalf("fetch must not touch compose")
	}
}

func TestDownAndUpCommands(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDocker(0)

	if r := execute(t, f, "up"); r.code != 0 {
		t.Fatalf("up exit=%d stderr=%s", r.code, r.stderr)
	}
	if r := execute(t, f, "down"); r.code != 0 {
		t.Fatalf("down exit=%d stderr=%s", r.code, r.stderr)
	}
	calls := f.Calls("docker")
	if len(calls) != 2 || calls[0] != "compose up -d" || calls[1] != "compose down" {
		t.Fatalf("docker calls=%v", calls)
	}
}

func seedVariants(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variants.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE variants (chrom TEXT, pos INTEGER, ref TEXT, alt TEXT)`,
		`INSERT INTO variants VALUES ('chr22', 10736093, 'A', 'T')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}

func csvRows(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("results not written: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestBenchSQLiteTarget(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.WriteFile(config.FileName, ""+
		"bench:\n  iterations: 3\n  warmup: 1\n  output: results.csv\n"+
		"  sqlite:\n    path: "+seedVariants(t)+"\n"+
		"    statements:\n      q1_variant_by_id: SELECT * FROM variants WHERE chrom = :chromosome AND pos = :position\n")

	r := execute(t, f, "bench", "--queries", "Q1")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "Running filtered queries: Q1") {
		t.Fatalf("stdout=%q", r.stdout)
	}
	rows := csvRows(t, filepath.Join(f.Root(), "results.csv"))
	if len(rows) != 4 || !strings.HasPrefix(rows[0], "database,query_type,") {
		t.Fatalf("rows=%v", rows)
	}
	for _, row := range rows[1:] {
		if !strings.HasPrefix(row, "SQLite,Q1,") || !strings.Contains(row, ",1,warm,") {
			t.Fatalf("row=%q", row)
		}
	}

	r = execute(t, f, "bench", "--queries", "Q1", "--iterations", "2", "--output", "again.csv")
	if r.code != 0 {
		t.Fatalf("exit=%d stderr=%s", r.code, r.stderr)
	}
	if rows := csvRows(t, filepath.Join(f.Root(), "again.csv")); len(rows) != 3 {
		t.Fatalf("flag overrides ignored: rows=%v", rows)
	}
}

func TestExtraArgsAreUsageErrors(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDocker(0)
	for _, args := range [][]string{{"bogus"}, {"fetch", "extra"}, {"down", "now"}} {
		if r := execute(t, f, args...); r.code != 2 {
			t.Fatalf("%v: exit=%d, want 2", args, r.code)
		}
	}
	if calls := f.Calls("docker"); len(calls) != 0 {
		t.Fatalf("docker calls=%v", calls)
	}
}

func TestUnknownDownloaderInConfigFails(t *testing.T) {
	f := testutil.NewHostFixture(t)
	f.StubDownloader("curl", "VCF", 0)
	f.StubDocker(0)
	f.WriteFile(config.FileName, "data:\n  downloaders: [aria2c, curl]\n")

	r := execute(t, f)
	if r.code != 1 {
		t.Fatalf("exit=%d, want 1", r.code)
	}
	if !strings.Contains(r.stderr, `unknown downloader "aria2c"`) {
		t.Fatalf("stderr=%q", r.stderr)
	}
	if strings.Contains(r.stdout, "Setup complete") {
		t.Fatalf("setup must not report completion: %q", r.stdout)
	}
	if n := len(f.Calls("curl")) + len(f.Calls("docker")); n != 0 {
		t.Fatalf("host tools ran %d times", n)
	}
}
