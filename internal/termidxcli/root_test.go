package termidxcli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"termidx/internal/version"
)

func TestRootShowsHelp(t *testing.T) {
	cmd := NewRootCommand()
	out, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"index", "q", "sig", "stats"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q:\n%s", want, out)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--version"})
	out, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != version.String() {
		t.Fatalf("version output = %q", out)
	}
}

func TestStatsFailsWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"stats", "-d", filepath.Join(dir, "missing.db")})
	if _, err := ExecuteForTest(cmd); err == nil {
		t.Fatalf("stats on a missing store should fail")
	}
}

func TestIndexBuildThenStats(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.ts"), []byte("const x = 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dbPath := filepath.Join(root, ".termidx", "index.db")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"index", "build", root, "-d", dbPath})
	out, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("index build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "indexed") {
		t.Fatalf("build output = %q", out)
	}

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"stats", "-d", dbPath})
	out, err = ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "files:") {
		t.Fatalf("stats output = %q", out)
	}
}

func TestQEmptyIndex(t *testing.T) {
	root := t.TempDir()
	dbPath := filepath.Join(root, ".termidx", "index.db")

	// Build an empty index first so the read-only open succeeds.
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"index", "build", root, "-d", dbPath})
	if _, err := ExecuteForTest(cmd); err != nil {
		t.Fatalf("build: %v", err)
	}

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"q", "anything", "-d", dbPath})
	out, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("q: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("empty index query printed %q", out)
	}
}

func TestSigUnindexedFile(t *testing.T) {
	root := t.TempDir()
	dbPath := filepath.Join(root, ".termidx", "index.db")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"index", "build", root, "-d", dbPath})
	if _, err := ExecuteForTest(cmd); err != nil {
		t.Fatalf("build: %v", err)
	}

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"sig", "nope.ts", "-d", dbPath})
	if _, err := ExecuteForTest(cmd); err == nil {
		t.Fatalf("sig for unindexed file should fail")
	}
}
