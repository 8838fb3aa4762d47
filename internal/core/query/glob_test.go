package query

import "testing"

func TestTranslateGlob(t *testing.T) {
	cases := []struct {
		glob  string
		path  string
		match bool
	}{
		{"**/test/**", "src/test/app.ts", true},
		{"**/test/**", "test/app.ts", true},
		{"**/test/**", "src/testing/app.ts", false},
		{"src/**", "src/a/b/c.go", true},
		{"src/**", "src", true},
		{"src/**", "source/a.go", false},
		{"*.ts", "app.ts", true},
		{"*.ts", "src/app.ts", false},
		{"src/*.ts", "src/app.ts", true},
		{"src/*.ts", "src/sub/app.ts", false},
		{"a?c.go", "abc.go", true},
		{"a?c.go", "a/c.go", false},
		{"**/*.py", "deep/nested/mod.py", true},
		{"**/*.py", "mod.py", true},
		{"SRC/*.TS", "src/app.ts", true}, // case-insensitive
	}
	for _, c := range cases {
		re, err := TranslateGlob(c.glob)
		if err != nil {
			t.Fatalf("translate %q: %v", c.glob, err)
		}
		if got := re.MatchString(c.path); got != c.match {
			t.Fatalf("glob %q vs %q = %v, want %v", c.glob, c.path, got, c.match)
		}
	}
}

func TestTranslateGlobEmpty(t *testing.T) {
	re, err := TranslateGlob("   ")
	if err != nil || re != nil {
		t.Fatalf("blank glob should compile to nil, got %v %v", re, err)
	}
}

func TestTranslateGlobQuotesMetachars(t *testing.T) {
	re, err := TranslateGlob("a.b/c+d.go")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !re.MatchString("a.b/c+d.go") {
		t.Fatalf("literal path should match itself")
	}
	if re.MatchString("aXb/cQd.go") {
		t.Fatalf("dot and plus must be literal")
	}
}
