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

// Package builddir adapts a CMake+Make build directory's own bookkeeping
// files (depend.internal, cmake_clean.cmake, build.make) into the
// Target/CompileObject/SourceFile model the rest of zen reasons about.
// It never invokes cmake or make itself; it only reads what they have
// already written.
package builddir

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/TryExceptElse/zen/internal/cache"
	"github.com/TryExceptElse/zen/internal/zenlog"
)

// BuildDir is one CMake build tree, with every target it knows about
// discovered from the CMakeFiles/<name>.dir layout CMake generates.
type BuildDir struct {
	Root    string
	Targets map[string]*Target
	Cache   *cache.Cache
}

// Load discovers every target under root's CMakeFiles directory and
// parses each one's dependency and output metadata.
func Load(root string) (*BuildDir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	bd := &BuildDir{Root: abs, Targets: map[string]*Target{}}

	cmakeFiles := filepath.Join(abs, "CMakeFiles")
	entries, err := os.ReadDir(cmakeFiles)
	if err != nil {
		return nil, fmt.Errorf("zen: reading %s: %w", cmakeFiles, err)
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), ".dir") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".dir")
		dir := filepath.Join(cmakeFiles, e.Name())
		t, err := bd.loadTarget(name, dir)
		if err != nil {
			zenlog.Warn("skipping target %s: %v", name, err)
			continue
		}
		bd.Targets[name] = t
	}

	c, err := cache.Load(abs)
	if err != nil {
		return nil, err
	}
	bd.Cache = c
	return bd, nil
}

func (bd *BuildDir) loadTarget(name, dir string) (*Target, error) {
	objSources, err := parseDependInternal(filepath.Join(dir, "depend.internal"), bd.Root)
	if err != nil {
		return nil, err
	}
	ttype, filePath, err := parseCMakeClean(filepath.Join(dir, "cmake_clean.cmake"))
	if err != nil {
		return nil, err
	}
	if filePath != "" && !filepath.IsAbs(filePath) {
		filePath = filepath.Join(bd.Root, filePath)
	}

	deps, err := parseBuildMakeDeps(filepath.Join(dir, "build.make"), name, bd.Root)
	if err != nil {
		zenlog.Warn("target %s: reading build.make: %v", name, err)
	}
	depSet := map[string]bool{}
	for _, d := range deps {
		depSet[d] = true
	}

	t := &Target{Name: name, Type: ttype, FilePath: filePath, Deps: depSet}

	var objPaths []string
	for p := range objSources {
		objPaths = append(objPaths, p)
	}
	sort.Strings(objPaths)

	for _, op := range objPaths {
		co := &CompileObject{Path: op}
		for _, sp := range objSources[op] {
			sf, err := Intern(sp)
			if err != nil {
				zenlog.Warn("target %s: interning %s: %v", name, sp, err)
				continue
			}
			co.Sources = append(co.Sources, sf)
		}
		t.Objects = append(t.Objects, co)
	}
	return t, nil
}

// resolve turns a path named by build metadata, which may be relative
// to the build directory root, into an absolute path.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// parseDependInternal reads a CMakeFiles/<target>.dir/depend.internal
// file: an un-indented line ending in ".o" starts a new object; each
// indented line following it names one source dependency of that
// object, until the next un-indented line.
func parseDependInternal(path, root string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := map[string][]string{}
	var current string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			trimmed := strings.TrimSuffix(strings.TrimSpace(line), ":")
			if strings.HasSuffix(trimmed, ".o") {
				current = resolve(root, trimmed)
				if _, ok := result[current]; !ok {
					result[current] = nil
				}
			} else {
				current = ""
			}
			continue
		}
		if current == "" {
			continue
		}
		dep := strings.TrimSpace(line)
		if dep == "" {
			continue
		}
		result[current] = append(result[current], resolve(root, dep))
	}
	return result, scanner.Err()
}

var quotedEntryRe = regexp.MustCompile(`"([^"]*)"`)

// parseCMakeClean extracts a target's output file from the last quoted
// entry of its cmake_clean.cmake file(REMOVE_RECURSE ...) block, and
// infers the target's type from that file's extension.
func parseCMakeClean(path string) (TargetType, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UnknownType, "", err
	}
	text := string(data)
	start := strings.Index(text, "file(REMOVE_RECURSE")
	if start == -1 {
		return UnknownType, "", fmt.Errorf("no REMOVE_RECURSE block in %s", path)
	}
	rel := strings.Index(text[start:], ")")
	if rel == -1 {
		return UnknownType, "", fmt.Errorf("unterminated REMOVE_RECURSE block in %s", path)
	}
	block := text[start : start+rel]

	matches := quotedEntryRe.FindAllStringSubmatch(block, -1)
	if len(matches) == 0 {
		return UnknownType, "", fmt.Errorf("no quoted entries in REMOVE_RECURSE block in %s", path)
	}
	out := matches[len(matches)-1][1]

	var ttype TargetType
	switch strings.ToLower(filepath.Ext(out)) {
	case "":
		ttype = Executable
	case ".a":
		ttype = StaticLib
	case ".so":
		ttype = SharedLib
	default:
		ttype = UnknownType
	}
	return ttype, out, nil
}

// parseBuildMakeDeps finds the make rule line "<name>: dep dep ..." in
// build.make and returns its dependency paths resolved against root. A
// target with no such line simply has no recorded dependencies.
func parseBuildMakeDeps(path, name, root string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prefix := name + ":"
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, prefix))
		deps := make([]string, 0, len(fields))
		for _, f := range fields {
			deps = append(deps, resolve(root, f))
		}
		return deps, nil
	}
	return nil, nil
}
