package construct

import (
	"testing"

	"github.com/TryExceptElse/zen/internal/component"
	"github.com/TryExceptElse/zen/internal/source"
)

func mustRoot(t *testing.T, src string) component.Component {
	t.Helper()
	content := source.NewContent("test.cc", src)
	chunk, err := source.New(content, nil, nil, source.Uncommented)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	root, err := component.NewRootBlock(chunk, component.Global)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

const twoFunctionsSrc = `int helper() {
  return 1;
}
int caller() {
  return helper();
}
`

func TestDependenciesFollowCalledFunction(t *testing.T) {
	root := mustRoot(t, twoFunctionsSrc)
	g := FromRoot(root)

	if !g.Has("helper") || !g.Has("caller") {
		t.Fatalf("expected both constructs present, got %v", g.Names())
	}
	caller, _ := g.Get("caller")
	deps := caller.Dependencies()
	found := false
	for _, d := range deps {
		if d == "helper" {
			found = true
		}
	}
	if !found {
		t.Fatalf("caller should depend on helper, got %v", deps)
	}
	helper, _ := g.Get("helper")
	if len(helper.Dependencies()) != 0 {
		t.Fatalf("helper should have no known dependencies, got %v", helper.Dependencies())
	}
}

func TestRecursiveDependenciesTransitAndTerminate(t *testing.T) {
	root := mustRoot(t, `int a() { return b(); }
int b() { return c(); }
int c() { return a(); }
`)
	g := FromRoot(root)
	a, _ := g.Get("a")
	rec := a.RecursiveDependencies()
	want := map[string]bool{"b": true, "c": true}
	got := map[string]bool{}
	for _, d := range rec {
		got[d] = true
	}
	for name := range want {
		if !got[name] {
			t.Fatalf("expected %s in recursive deps, got %v", name, rec)
		}
	}
	if got["a"] {
		t.Fatalf("recursive deps should not include the construct's own name, got %v", rec)
	}
}

func TestContentHashStableAcrossWhitespaceOnlyChange(t *testing.T) {
	g1 := FromRoot(mustRoot(t, "int f() {\n  return 1;\n}\n"))
	g2 := FromRoot(mustRoot(t, "int   f()   {\n    return    1;\n}\n"))

	f1, _ := g1.Get("f")
	f2, _ := g2.Get("f")
	if f1.ContentHash() != f2.ContentHash() {
		t.Fatalf("content hash should be insensitive to whitespace changes")
	}
}

func TestContentHashChangesOnRealEdit(t *testing.T) {
	g1 := FromRoot(mustRoot(t, "int f() {\n  return 1;\n}\n"))
	g2 := FromRoot(mustRoot(t, "int f() {\n  return 2;\n}\n"))

	f1, _ := g1.Get("f")
	f2, _ := g2.Get("f")
	if f1.ContentHash() == f2.ContentHash() {
		t.Fatalf("content hash should change when a literal changes")
	}
}
