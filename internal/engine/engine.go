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

// Package engine decides, for every object and target in a build
// directory, whether its last mtime-visible change was substantive
// enough to warrant the rebuild make would otherwise perform, and
// records the fingerprints that decision is made against.
package engine

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/TryExceptElse/zen/internal/builddir"
	"github.com/TryExceptElse/zen/internal/cache"
	"github.com/TryExceptElse/zen/internal/component"
	"github.com/TryExceptElse/zen/internal/construct"
	"github.com/TryExceptElse/zen/internal/zenerr"
	"github.com/TryExceptElse/zen/internal/zenlog"
)

// Meditate walks bd's targets library-first, deciding and recording a
// Status for every object and target, back-dating any artifact whose
// only changes were cosmetic so make leaves it alone.
func Meditate(bd *builddir.BuildDir) error {
	index := targetsByFilePath(bd)
	for _, name := range targetOrder(bd) {
		t := bd.Targets[name]
		if err := meditateTarget(bd, t, index); err != nil {
			return err
		}
		zenlog.Trace("target %s -> %s", t.Name, t.Status)
	}
	return nil
}

// Remember persists every source's current stripped hash and every
// object's per-construct content hashes, so the next Meditate run has
// something to compare against. A single malformed object's failure is
// logged and skipped rather than aborting the whole run, so one bad
// source never costs the rest of the build its recorded fingerprints.
func Remember(bd *builddir.BuildDir) error {
	for _, t := range bd.Targets {
		for _, obj := range t.Objects {
			if err := rememberObject(obj, bd.Cache); err != nil {
				zenlog.Warn("not recording %s: %v", obj.Path, err)
			}
		}
	}
	return bd.Cache.Save()
}

func targetsByFilePath(bd *builddir.BuildDir) map[string]*builddir.Target {
	index := map[string]*builddir.Target{}
	for _, t := range bd.Targets {
		if t.FilePath != "" {
			index[t.FilePath] = t
		}
	}
	return index
}

// targetOrder returns target names in dependency order, libraries
// before their dependents, via a DFS postorder over each target's
// Deps resolved against other targets' FilePaths. A visited set
// tolerates whatever cycles a malformed build graph might contain.
func targetOrder(bd *builddir.BuildDir) []string {
	index := targetsByFilePath(bd)
	var names []string
	for name := range bd.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	var order []string
	visited := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		t, ok := bd.Targets[name]
		if !ok {
			return
		}
		var depNames []string
		for dep := range t.Deps {
			if dt, ok := index[dep]; ok {
				depNames = append(depNames, dt.Name)
			}
		}
		sort.Strings(depNames)
		for _, dn := range depNames {
			visit(dn)
		}
		order = append(order, name)
	}
	for _, name := range names {
		visit(name)
	}
	return order
}

func meditateTarget(bd *builddir.BuildDir, t *builddir.Target, index map[string]*builddir.Target) error {
	status := builddir.Unchecked
	ownObjects := map[string]bool{}
	for _, obj := range t.Objects {
		if err := meditateObject(obj, bd.Cache); err != nil {
			return err
		}
		status = builddir.Max(status, obj.Status)
		ownObjects[obj.Path] = true
	}

	for dep := range t.Deps {
		if ownObjects[dep] {
			continue
		}
		if depTarget, ok := index[dep]; ok {
			status = builddir.Max(status, depTarget.Status)
			continue
		}
		newer, err := fileNewerThan(dep, t.FilePath)
		if err != nil {
			return err
		}
		if newer {
			status = builddir.Max(status, builddir.Changed)
		}
	}

	if t.FilePath == "" {
		status = builddir.Max(status, builddir.Changed)
	} else if _, err := os.Stat(t.FilePath); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		status = builddir.Max(status, builddir.Changed)
	}

	t.Status = status
	if status == builddir.MinorChange && t.Type != builddir.UnknownType && t.FilePath != "" {
		return builddir.TouchClear(t.FilePath)
	}
	return nil
}

// fileNewerThan reports whether path's mtime is after target's. A
// missing target is treated as infinitely old; a missing dependency
// simply can't be newer than anything.
func fileNewerThan(path, target string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if target == "" {
		return true, nil
	}
	tInfo, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return info.ModTime().After(tInfo.ModTime()), nil
}

func meditateObject(obj *builddir.CompileObject, c *cache.Cache) error {
	sourcesModified, err := objectSourcesModified(obj)
	if err != nil {
		return err
	}
	if !sourcesModified {
		obj.Status = builddir.NoChange
		return nil
	}

	hasCodeChanges, err := objectHasCodeChanges(obj, c)
	if err != nil {
		return err
	}

	hasUsedChange, err := objectHasUsedContentChange(obj, c)
	if err != nil {
		var pe *zenerr.ParsingError
		if errors.As(err, &pe) {
			zenlog.Warn("%s: treating %s as changed: %v", obj.Path, obj.Path, err)
			zenlog.TraceDetail("%s: parsing error downgraded to Changed: %+v", obj.Path, pe)
			obj.Status = builddir.Changed
			return nil
		}
		return err
	}

	if hasCodeChanges && hasUsedChange {
		obj.Status = builddir.Changed
		return nil
	}
	obj.Status = builddir.MinorChange
	return builddir.TouchClear(obj.Path)
}

func objectSourcesModified(obj *builddir.CompileObject) (bool, error) {
	objInfo, err := os.Stat(obj.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	for _, sf := range obj.Sources {
		mt, err := sf.ModTime()
		if err != nil {
			return false, err
		}
		if mt.After(objInfo.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

func sourceChanged(sf *builddir.SourceFile, c *cache.Cache) (bool, error) {
	h, err := sf.StrippedHash()
	if err != nil {
		return false, err
	}
	cached, ok := c.Get(sf.Hex())
	if !ok {
		zenlog.TraceDetail("%s: no cached fingerprint, treating as changed", sf.Path)
		return true, nil
	}
	return cached != h, nil
}

func objectHasCodeChanges(obj *builddir.CompileObject, c *cache.Cache) (bool, error) {
	for _, sf := range obj.Sources {
		changed, err := sourceChanged(sf, c)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// isAlwaysUsed reports whether name is an operator overload: the
// tokenizer's word-character regex never produces the literal symbols
// a call site like "a + b" would need to reference "operator+" by
// name, so such constructs must be checked for change unconditionally
// rather than only when some other component's tokens name them.
func isAlwaysUsed(name string) bool {
	return strings.HasPrefix(name, "operator")
}

// objectHasUsedContentChange implements step 3 of the change decision:
// it builds the object's own ConstructGraph from every source it
// names, then asks whether anything that graph's non-header
// components actually reference (or, for operator overloads, anything
// at all) has itself changed, directly or transitively.
func objectHasUsedContentChange(obj *builddir.CompileObject, c *cache.Cache) (bool, error) {
	var roots []component.Component
	for _, sf := range obj.Sources {
		root, err := sf.Root()
		if err != nil {
			return false, err
		}
		roots = append(roots, root)
	}
	graph := construct.FromRoots(roots)

	memo := map[string]bool{}
	var isChanged func(name string) bool
	isChanged = func(name string) bool {
		if v, ok := memo[name]; ok {
			return v
		}
		memo[name] = false // breaks cycles conservatively
		con, ok := graph.Get(name)
		if !ok {
			return false
		}
		changed := false
		cached, cok := c.Get(cache.ObjectConstructKey(obj.Path, name))
		if !cok || cached != con.ContentHash() {
			changed = true
		}
		if !changed {
			for _, dep := range con.Dependencies() {
				if isChanged(dep) {
					changed = true
					break
				}
			}
		}
		memo[name] = changed
		return changed
	}

	for _, sf := range obj.Sources {
		if sf.IsHeader {
			continue
		}
		changed, err := sourceChanged(sf, c)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
		root, err := sf.Root()
		if err != nil {
			return false, err
		}
		for _, comp := range root.RecursiveComponents() {
			for _, name := range comp.Tokens() {
				if !graph.Has(name) {
					continue
				}
				if isChanged(name) {
					return true, nil
				}
			}
		}
	}

	for _, name := range graph.Names() {
		if isAlwaysUsed(name) && isChanged(name) {
			return true, nil
		}
	}
	return false, nil
}

func rememberObject(obj *builddir.CompileObject, c *cache.Cache) error {
	var roots []component.Component
	for _, sf := range obj.Sources {
		h, err := sf.StrippedHash()
		if err != nil {
			return err
		}
		c.Set(sf.Hex(), h)
		text, err := sf.StrippedText()
		if err != nil {
			return err
		}
		c.SetText(sf.Hex(), text)
		root, err := sf.Root()
		if err != nil {
			return err
		}
		roots = append(roots, root)
	}
	graph := construct.FromRoots(roots)
	for _, name := range graph.Names() {
		con, _ := graph.Get(name)
		c.Set(cache.ObjectConstructKey(obj.Path, name), con.ContentHash())
	}
	return nil
}
