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
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/TryExceptElse/zen/internal/builddir"
	"github.com/TryExceptElse/zen/internal/cache"
)

// DiagnoseSourceChange renders a human-readable diff between two
// revisions of the same source, for --verbose output explaining why an
// object was (or was not) marked changed.
func DiagnoseSourceChange(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}

// DiagnoseSource reports whether sf's stripped content differs from
// what was last remembered in c and, if so, a human-readable diff
// against the last remembered text. It is meant to be called after
// Meditate, under --verbose, to explain a CHANGED or MINOR_CHANGE
// decision line by line rather than just naming the file.
func DiagnoseSource(sf *builddir.SourceFile, c *cache.Cache) (diff string, changed bool, err error) {
	current, err := sf.StrippedText()
	if err != nil {
		return "", false, err
	}
	h, err := sf.StrippedHash()
	if err != nil {
		return "", false, err
	}
	cachedHash, hasHash := c.Get(sf.Hex())
	if hasHash && cachedHash == h {
		return "", false, nil
	}
	prevText, hasPrevText := c.GetText(sf.Hex())
	if !hasPrevText {
		return "(no prior fingerprint to diff against)", true, nil
	}
	return DiagnoseSourceChange(prevText, current), true, nil
}
