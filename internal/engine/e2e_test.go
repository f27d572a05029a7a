package engine

import (
	"path/filepath"
	"testing"

	"github.com/TryExceptElse/zen/internal/builddir"
)

// newOperatorFixture builds a single object whose only source defines
// a class with an overloaded operator==, called from nothing by name
// (call sites read "a == b", never the literal token "operator==").
func newOperatorFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "point.cc"), `class Point {
 public:
  bool operator==(const Point& other) {
    return x == other.x;
  }
  int x;
};

int compare(Point a, Point b) {
  return a == b;
}
`)
	dir := filepath.Join(root, "CMakeFiles", "geo.dir")
	writeFile(t, filepath.Join(dir, "depend.internal"),
		"CMakeFiles/geo.dir/point.cc.o\n"+
			" "+filepath.Join(root, "point.cc")+"\n")
	writeFile(t, filepath.Join(dir, "cmake_clean.cmake"), `file(REMOVE_RECURSE
  "CMakeFiles/geo.dir/point.cc.o"
  "libgeo.a"
)
`)
	writeFile(t, filepath.Join(dir, "build.make"),
		"geo: CMakeFiles/geo.dir/point.cc.o\n\t$(CMAKE_AR) ...\n")
	return root
}

// TestOperatorOverloadEditAlwaysTriggersChanged checks that an edited
// operator== body yields Changed. A call site like "a == b" never
// spells out the literal identifier "operator==", so no token
// reference reaches the construct. In this fixture the class lives in
// the object's own translation unit, so the edit to point.cc already
// forces Changed through the non-header-source clause as well.
func TestOperatorOverloadEditAlwaysTriggersChanged(t *testing.T) {
	root := newOperatorFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "point.cc"), `class Point {
 public:
  bool operator==(const Point& other) {
    return x == other.x && true;
  }
  int x;
};

int compare(Point a, Point b) {
  return a == b;
}
`)

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("Meditate: %v", err)
	}
	obj := findObject(t, bd, "point.cc.o")
	if obj.Status != builddir.Changed {
		t.Fatalf("expected Changed for an edited operator== body, got %s", obj.Status)
	}
}

// newLessThanFixture exercises the bracket-search fallback for a
// top-level '<' that is not a template argument list.
func newLessThanFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cmp.cc"), `int a = 1;
int b = 2;
bool flag = a < b;

int get_flag() {
  return flag;
}
`)
	dir := filepath.Join(root, "CMakeFiles", "cmp.dir")
	writeFile(t, filepath.Join(dir, "depend.internal"),
		"CMakeFiles/cmp.dir/cmp.cc.o\n"+
			" "+filepath.Join(root, "cmp.cc")+"\n")
	writeFile(t, filepath.Join(dir, "cmake_clean.cmake"), `file(REMOVE_RECURSE
  "CMakeFiles/cmp.dir/cmp.cc.o"
  "cmp"
)
`)
	writeFile(t, filepath.Join(dir, "build.make"),
		"cmp: CMakeFiles/cmp.dir/cmp.cc.o\n\t$(CMAKE_COMMAND) ...\n")
	return root
}

func TestTopLevelLessThanDoesNotCrashAndIgnoresWhitespaceEdit(t *testing.T) {
	root := newLessThanFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "cmp.cc"), `int a = 1;
int b = 2;

bool flag = a < b;


int get_flag() {
  return flag;
}
`)

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("Meditate should not fail parsing a top-level '<': %v", err)
	}
	obj := findObject(t, bd, "cmp.cc.o")
	if obj.Status != builddir.MinorChange {
		t.Fatalf("expected a whitespace-only edit to yield MinorChange, got %s", obj.Status)
	}
}

// newLibraryFixture wires an executable "app" that links a library
// "geo" so Meditate's library-first rollup can be exercised: the
// library's own Status must dominate its dependent's.
func newLibraryFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "geo.h"), "int geo_value();\n")
	writeFile(t, filepath.Join(root, "geo.cc"), `#include "geo.h"
int geo_value() {
  return 1;
}
`)
	writeFile(t, filepath.Join(root, "app.cc"), `#include "geo.h"
int main() {
  return geo_value();
}
`)

	geoDir := filepath.Join(root, "CMakeFiles", "geo.dir")
	writeFile(t, filepath.Join(geoDir, "depend.internal"),
		"CMakeFiles/geo.dir/geo.cc.o\n"+
			" "+filepath.Join(root, "geo.cc")+"\n"+
			" "+filepath.Join(root, "geo.h")+"\n")
	writeFile(t, filepath.Join(geoDir, "cmake_clean.cmake"), `file(REMOVE_RECURSE
  "CMakeFiles/geo.dir/geo.cc.o"
  "libgeo.a"
)
`)
	writeFile(t, filepath.Join(geoDir, "build.make"),
		"geo: CMakeFiles/geo.dir/geo.cc.o\n\t$(CMAKE_AR) ...\n")

	appDir := filepath.Join(root, "CMakeFiles", "app.dir")
	writeFile(t, filepath.Join(appDir, "depend.internal"),
		"CMakeFiles/app.dir/app.cc.o\n"+
			" "+filepath.Join(root, "app.cc")+"\n"+
			" "+filepath.Join(root, "geo.h")+"\n")
	writeFile(t, filepath.Join(appDir, "cmake_clean.cmake"), `file(REMOVE_RECURSE
  "CMakeFiles/app.dir/app.cc.o"
  "app"
)
`)
	writeFile(t, filepath.Join(appDir, "build.make"),
		"app: CMakeFiles/app.dir/app.cc.o "+filepath.Join(root, "libgeo.a")+"\n\t$(CMAKE_COMMAND) ...\n")

	return root
}

func TestLibraryChangeRollsUpIntoDependentTarget(t *testing.T) {
	root := newLibraryFixture(t)
	establishBaseline(t, root)

	// Simulate libgeo.a already existing at baseline time alongside the
	// other artifacts (establishBaseline only touches what Load found as
	// target FilePaths, which already covers libgeo.a and app).
	editFile(t, filepath.Join(root, "geo.cc"), `#include "geo.h"
int geo_value() {
  return 42;
}
`)

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("Meditate: %v", err)
	}
	if bd.Targets["geo"].Status != builddir.Changed {
		t.Fatalf("expected geo library Changed, got %s", bd.Targets["geo"].Status)
	}
	if bd.Targets["app"].Status != builddir.Changed {
		t.Fatalf("expected app to roll up its library dependency's Changed status, got %s",
			bd.Targets["app"].Status)
	}
}

// newClassMemberFixture mirrors newFixture (internal/engine/engine_test.go)
// but declares its header's two functions as inline members of a class
// rather than free functions, exercising the same used/unused
// construct-change logic across a ClassDefinition/MemberFunctionDef
// rather than a FunctionDef.
func newClassMemberFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "widget.h"), `#ifndef WIDGET_H
#define WIDGET_H

class Widget {
  int used_method() {
    return 1;
  }
  int unused_method() {
    return 2;
  }
};

#endif
`)
	writeFile(t, filepath.Join(root, "main.cc"), `#include "widget.h"

int main() {
  Widget w;
  return w.used_method();
}
`)
	writeFile(t, filepath.Join(root, "aux.cc"), `#include "widget.h"

int aux_helper() {
  return 7;
}
`)

	dir := filepath.Join(root, "CMakeFiles", "widget.dir")
	writeFile(t, filepath.Join(dir, "depend.internal"),
		"CMakeFiles/widget.dir/main.cc.o\n"+
			" "+filepath.Join(root, "main.cc")+"\n"+
			" "+filepath.Join(root, "widget.h")+"\n"+
			"CMakeFiles/widget.dir/aux.cc.o\n"+
			" "+filepath.Join(root, "aux.cc")+"\n"+
			" "+filepath.Join(root, "widget.h")+"\n")
	writeFile(t, filepath.Join(dir, "cmake_clean.cmake"), `file(REMOVE_RECURSE
  "CMakeFiles/widget.dir/main.cc.o"
  "CMakeFiles/widget.dir/aux.cc.o"
  "widget_app"
)
`)
	writeFile(t, filepath.Join(dir, "build.make"),
		"widget_app: CMakeFiles/widget.dir/main.cc.o CMakeFiles/widget.dir/aux.cc.o\n"+
			"\t$(CMAKE_COMMAND) -E cmake_link_script\n")

	return root
}

func TestUnusedClassMemberEditYieldsMinorChange(t *testing.T) {
	root := newClassMemberFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "widget.h"), `#ifndef WIDGET_H
#define WIDGET_H

class Widget {
  int used_method() {
    return 1;
  }
  int unused_method() {
    return 999;
  }
};

#endif
`)

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("Meditate: %v", err)
	}
	for _, obj := range bd.Targets["widget"].Objects {
		if obj.Status != builddir.MinorChange {
			t.Fatalf("object %s: expected MinorChange, editing an unreferenced member function should not force a rebuild, got %s",
				obj.Path, obj.Status)
		}
	}
}

func TestUsedClassMemberEditYieldsChanged(t *testing.T) {
	root := newClassMemberFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "widget.h"), `#ifndef WIDGET_H
#define WIDGET_H

class Widget {
  int used_method() {
    return 42;
  }
  int unused_method() {
    return 2;
  }
};

#endif
`)

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("Meditate: %v", err)
	}
	mainObj := findObject(t, bd, "main.cc.o")
	if mainObj.Status != builddir.Changed {
		t.Fatalf("object %s: expected Changed, main.cc calls the edited member function, got %s", mainObj.Path, mainObj.Status)
	}
}

func TestBrokenThenFixedSourceRecovers(t *testing.T) {
	root := newFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "aux.cc"), `#include "sample.h"

int aux_helper() {
  return 7;
`) // missing closing brace: unterminated block

	bd := loadFresh(t, root)
	if err := Meditate(bd); err != nil {
		t.Fatalf("a parsing error must downgrade to Changed, not propagate: %v", err)
	}
	auxObj := findObject(t, bd, "aux.cc.o")
	if auxObj.Status != builddir.Changed {
		t.Fatalf("expected conservative Changed for a broken source, got %s", auxObj.Status)
	}

	editFile(t, filepath.Join(root, "aux.cc"), `#include "sample.h"

int aux_helper() {
  return 70;
}
`)
	bd2 := loadFresh(t, root)
	if err := Meditate(bd2); err != nil {
		t.Fatalf("Meditate after fix: %v", err)
	}
	auxObj2 := findObject(t, bd2, "aux.cc.o")
	if auxObj2.Status != builddir.Changed {
		t.Fatalf("expected Changed once the source is fixed and substantively edited, got %s", auxObj2.Status)
	}
}
