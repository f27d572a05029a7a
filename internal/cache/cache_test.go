package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsEmptyCache(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(Key("anything")); ok {
		t.Fatalf("expected no entries in a fresh cache")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	k := Key("/abs/path/foo.cc")
	c.Set(k, 12345)
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		t.Fatalf("expected cache file to exist: %v", err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := reloaded.Get(k)
	if !ok || v != 12345 {
		t.Fatalf("expected reloaded value 12345, got %d ok=%v", v, ok)
	}
}

func TestTextSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	k := Key("/abs/path/foo.cc")
	c.SetText(k, "int foo() { return 1; }")
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := reloaded.GetText(k)
	if !ok || v != "int foo() { return 1; }" {
		t.Fatalf("expected reloaded text to round-trip, got %q ok=%v", v, ok)
	}
}

func TestObjectConstructKeyIsStableAndDistinct(t *testing.T) {
	a := ObjectConstructKey("/build/foo.o", "Helper")
	b := ObjectConstructKey("/build/foo.o", "Other")
	if a == b {
		t.Fatalf("different construct names should produce different keys")
	}
	if a != ObjectConstructKey("/build/foo.o", "Helper") {
		t.Fatalf("key derivation should be deterministic")
	}
}

func TestSaveIsNoOpWhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, filename)); err == nil {
		t.Fatalf("expected no file written when cache is empty and unchanged")
	}
}
