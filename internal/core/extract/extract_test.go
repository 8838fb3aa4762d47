//go:build treesitter && cgo

package extract

import (
	"errors"
	"testing"

	"termidx/internal/core/grammar"
	"termidx/internal/index/store"
)

func newTestExtractor() *TreeExtractor {
	return New(grammar.NewRegistry())
}

func lineTypeOf(res *Result, lineNo int) store.LineType {
	for _, ln := range res.Lines {
		if ln.LineNo == lineNo {
			return ln.Type
		}
	}
	return ""
}

func hasItem(res *Result, name string, lineNo int) bool {
	for _, it := range res.Items {
		if it.Name == name && it.LineNo == lineNo {
			return true
		}
	}
	return false
}

func TestExtractTypeScript(t *testing.T) {
	src := []byte(`// User helpers.
// Centralizes fetch and retry logic.

interface User {
  id: string;
}

export async function fetchUser(id: string): Promise<User> {
  return get(id);
}
`)
	res, err := newTestExtractor().Extract("user.ts", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(res.HeaderComments) == 0 {
		t.Fatalf("header comments not collected")
	}

	if got := lineTypeOf(res, 4); got != store.LineStruct {
		t.Fatalf("interface line type = %q", got)
	}
	if got := lineTypeOf(res, 8); got != store.LineMethod {
		t.Fatalf("function line type = %q", got)
	}
	if got := lineTypeOf(res, 1); got != store.LineComment {
		t.Fatalf("comment line type = %q", got)
	}

	if !hasItem(res, "fetchUser", 8) {
		t.Fatalf("fetchUser identifier missing; items=%+v", res.Items)
	}
	// Comment terms are harvested too; keywords are not.
	if !hasItem(res, "retry", 2) {
		t.Fatalf("comment term retry missing")
	}
	for _, it := range res.Items {
		if it.Name == "return" || it.Name == "interface" {
			t.Fatalf("keyword %q indexed", it.Name)
		}
	}

	if len(res.Types) != 1 || res.Types[0].Name != "User" || res.Types[0].Kind != "interface" {
		t.Fatalf("types = %+v", res.Types)
	}
	if len(res.Methods) != 1 {
		t.Fatalf("methods = %+v", res.Methods)
	}
	m := res.Methods[0]
	if m.Name != "fetchUser" || !m.Async || m.LineNo != 8 {
		t.Fatalf("method = %+v", m)
	}
	if m.Prototype == "" {
		t.Fatalf("method prototype empty")
	}
}

func TestExtractArrowFunctionBindingName(t *testing.T) {
	src := []byte(`const add = (a, b) => a + b;
`)
	res, err := newTestExtractor().Extract("math.js", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Methods) != 1 || res.Methods[0].Name != "add" {
		t.Fatalf("arrow binding methods = %+v", res.Methods)
	}
	if got := lineTypeOf(res, 1); got != store.LineMethod {
		t.Fatalf("arrow line type = %q", got)
	}
}

func TestExtractPython(t *testing.T) {
	src := []byte(`"""module docstring"""

class Greeter:
    def greet(self, name):
        return "hi " + name
`)
	res, err := newTestExtractor().Extract("greet.py", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Types) != 1 || res.Types[0].Name != "Greeter" {
		t.Fatalf("types = %+v", res.Types)
	}
	if len(res.Methods) != 1 || res.Methods[0].Name != "greet" {
		t.Fatalf("methods = %+v", res.Methods)
	}
}

func TestExtractJavaModifiers(t *testing.T) {
	src := []byte(`public class Util {
  public static int twice(int x) { return x * 2; }
}
`)
	res, err := newTestExtractor().Extract("Util.java", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Methods) != 1 {
		t.Fatalf("methods = %+v", res.Methods)
	}
	m := res.Methods[0]
	if m.Visibility != "public" || !m.Static {
		t.Fatalf("modifiers = %+v", m)
	}
}

func TestExtractGoTypeSpec(t *testing.T) {
	src := []byte(`package main

type Config struct {
	Name string
}

func Load() *Config { return nil }
`)
	res, err := newTestExtractor().Extract("config.go", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Types) != 1 || res.Types[0].Name != "Config" {
		t.Fatalf("types = %+v", res.Types)
	}
	found := false
	for _, m := range res.Methods {
		if m.Name == "Load" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Load not extracted: %+v", res.Methods)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	_, err := newTestExtractor().Extract("notes.txt", []byte("hello"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestExtractJSONKeys(t *testing.T) {
	src := []byte(`{
  "serverPort": 8080
}
`)
	res, err := newTestExtractor().Extract("config.json", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !hasItem(res, "serverPort", 2) {
		t.Fatalf("json key not indexed: %+v", res.Items)
	}
}
