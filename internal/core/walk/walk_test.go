package walk

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalkIncludeExclude(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "x")
	write(t, root, "a.sql", "x")

	files, err := ListFiles(root, Options{
		IncludeGlobs: []string{"*.go"},
		ExcludeGlobs: []string{"*.sql"},
	})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "a.go" {
		t.Fatalf("files=%v", files)
	}
}

func TestWalkSkipsHiddenAndDefaultDirs(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/a.ts", "x")
	write(t, root, ".termidx/index.db", "x")
	write(t, root, "node_modules/pkg/b.js", "x")
	write(t, root, ".hidden.ts", "x")

	files, err := ListFiles(root, Options{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "src/a.ts" {
		t.Fatalf("files=%v", files)
	}

	all, err := ListFiles(root, Options{ScanAll: true})
	if err != nil {
		t.Fatalf("ListFiles all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("scan-all files=%v", all)
	}
}

func TestWalkHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "dist/\n*.log\n")
	write(t, root, "src/a.ts", "x")
	write(t, root, "dist/bundle.js", "x")
	write(t, root, "debug.log", "x")

	files, err := ListFiles(root, Options{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "src/a.ts" {
		t.Fatalf("files=%v", files)
	}
}

func TestWalkSortsResults(t *testing.T) {
	root := t.TempDir()
	write(t, root, "z.go", "x")
	write(t, root, "a.go", "x")
	write(t, root, "m/b.go", "x")

	files, err := ListFiles(root, Options{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{"a.go", "m/b.go", "z.go"}
	for i, w := range want {
		if files[i] != w {
			t.Fatalf("files=%v, want %v", files, want)
		}
	}
}

func TestFilterCSVExclude(t *testing.T) {
	root := t.TempDir()
	f, err := NewFilter(root, Options{ExcludeGlobs: []string{"*.js,*.sql"}})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.ShouldInclude("app.js", false) || f.ShouldInclude("schema.sql", false) {
		t.Fatalf("csv exclude not applied")
	}
	if !f.ShouldInclude("app.go", false) {
		t.Fatalf("unrelated file excluded")
	}
}

func TestFilterBasenamePatterns(t *testing.T) {
	root := t.TempDir()
	f, err := NewFilter(root, Options{IncludeGlobs: []string{"*.ts"}})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if !f.ShouldInclude("deep/nested/app.ts", false) {
		t.Fatalf("basename include should match nested path")
	}
	if f.ShouldInclude("deep/app.go", false) {
		t.Fatalf("non-matching file included")
	}
	if !f.ShouldInclude("deep/nested", true) {
		t.Fatalf("directories are not subject to include globs")
	}
}
