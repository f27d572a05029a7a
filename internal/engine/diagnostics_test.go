// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/TryExceptElse/zen/internal/builddir"
)

func TestDiagnoseSourceChangeRendersInsertedText(t *testing.T) {
	diff := DiagnoseSourceChange(
		"int used_func() {\n  return 1;\n}\n",
		"int used_func() {\n  return 42;\n}\n",
	)
	if !strings.Contains(diff, "42") {
		t.Fatalf("expected diff to mention the inserted text, got %q", diff)
	}
}

func findSource(t *testing.T, bd *builddir.BuildDir, base string) *builddir.SourceFile {
	t.Helper()
	for _, tgt := range bd.Targets {
		for _, obj := range tgt.Objects {
			for _, sf := range obj.Sources {
				if filepath.Base(sf.Path) == base {
					return sf
				}
			}
		}
	}
	t.Fatalf("no source file named %s", base)
	return nil
}

func TestDiagnoseSourceReportsNoChangeRightAfterBaseline(t *testing.T) {
	root := newFixture(t)
	establishBaseline(t, root)

	bd := loadFresh(t, root)
	sf := findSource(t, bd, "sample.h")

	diff, changed, err := DiagnoseSource(sf, bd.Cache)
	if err != nil {
		t.Fatalf("DiagnoseSource: %v", err)
	}
	if changed {
		t.Fatalf("expected no change right after establishing a baseline, got diff %q", diff)
	}
}

func TestDiagnoseSourceRendersDiffForSubstantiveEdit(t *testing.T) {
	root := newFixture(t)
	establishBaseline(t, root)

	editFile(t, filepath.Join(root, "sample.h"), `#ifndef SAMPLE_H
#define SAMPLE_H

inline int used_func() {
  return 90210;
}

inline int unused_func() {
  return 2;
}

#endif
`)

	bd := loadFresh(t, root)
	sf := findSource(t, bd, "sample.h")

	diff, changed, err := DiagnoseSource(sf, bd.Cache)
	if err != nil {
		t.Fatalf("DiagnoseSource: %v", err)
	}
	if !changed {
		t.Fatalf("expected the edited header to be reported as changed")
	}
	if !strings.Contains(diff, "90210") {
		t.Fatalf("expected diff to surface the edited literal, got %q", diff)
	}
}
