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

package builddir

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TryExceptElse/zen/internal/cache"
	"github.com/TryExceptElse/zen/internal/component"
	"github.com/TryExceptElse/zen/internal/construct"
	"github.com/TryExceptElse/zen/internal/source"
)

// SourceFile is a single interned, lazily-parsed translation unit or
// header, shared by every CompileObject that names it as a dependency.
// Analysis is single threaded: registry access below needs no lock.
type SourceFile struct {
	Path     string
	IsHeader bool
	hex      string

	parsedAt     time.Time
	content      *source.Content
	root         component.Component
	graph        *construct.Graph
	strippedHash uint64
	hashSet      bool
}

var registry = map[string]*SourceFile{}

// Intern returns the process-wide SourceFile for path, creating it on
// first reference. Every CompileObject that names the same absolute
// path shares one SourceFile instance, so its parse and hash are
// computed at most once per run.
func Intern(path string) (*SourceFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if sf, ok := registry[abs]; ok {
		return sf, nil
	}
	sf := &SourceFile{
		Path:     abs,
		IsHeader: isHeaderPath(abs),
		hex:      cache.Key(abs),
	}
	registry[abs] = sf
	return sf, nil
}

// ClearRegistry discards every interned SourceFile. It must be called
// between independent analyses (e.g. successive test cases in the same
// process) so stale parses of a prior analysis's files can't leak in.
func ClearRegistry() {
	registry = map[string]*SourceFile{}
}

func isHeaderPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".h", ".hh", ".hpp", ".hxx", ".inl":
		return true
	default:
		return false
	}
}

// Hex is the cache key this file's fingerprints are remembered under.
func (sf *SourceFile) Hex() string { return sf.hex }

// ModTime stats the file's current modification time.
func (sf *SourceFile) ModTime() (time.Time, error) {
	info, err := os.Stat(sf.Path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// ensureParsed (re-)reads and parses the file's content if it has never
// been parsed, or has changed on disk since the last time it was.
func (sf *SourceFile) ensureParsed() error {
	mtime, err := sf.ModTime()
	if err != nil {
		return err
	}
	if sf.content != nil && !mtime.After(sf.parsedAt) {
		return nil
	}
	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return err
	}
	sf.content = source.NewContent(sf.Path, string(data))
	sf.parsedAt = time.Now()
	sf.root = nil
	sf.graph = nil
	sf.hashSet = false
	return nil
}

// StrippedHash is the file's whitespace/comment-insensitive content
// hash, used to decide whether a source changed at all before any
// construct-level analysis runs.
func (sf *SourceFile) StrippedHash() (uint64, error) {
	if err := sf.ensureParsed(); err != nil {
		return 0, err
	}
	if !sf.hashSet {
		sf.strippedHash = sf.content.StrippedHash()
		sf.hashSet = true
	}
	return sf.strippedHash, nil
}

// StrippedText is the substantive text StrippedHash fingerprints,
// re-read fresh from the parsed content each call: cheap, since
// ensureParsed only re-reads the file when its mtime has advanced.
func (sf *SourceFile) StrippedText() (string, error) {
	if err := sf.ensureParsed(); err != nil {
		return "", err
	}
	return sf.content.StrippedText(), nil
}

// Root parses the file's top level into a component tree, memoized
// until the file's content changes.
func (sf *SourceFile) Root() (component.Component, error) {
	if err := sf.ensureParsed(); err != nil {
		return nil, err
	}
	if sf.root == nil {
		chunk, err := source.New(sf.content, nil, nil, source.Uncommented)
		if err != nil {
			return nil, err
		}
		root, err := component.NewRootBlock(chunk, component.Global)
		if err != nil {
			return nil, err
		}
		sf.root = root
	}
	return sf.root, nil
}

// ConstructGraph is the named-symbol graph this file's components
// contribute, memoized alongside Root.
func (sf *SourceFile) ConstructGraph() (*construct.Graph, error) {
	root, err := sf.Root()
	if err != nil {
		return nil, err
	}
	if sf.graph == nil {
		sf.graph = construct.FromRoot(root)
	}
	return sf.graph, nil
}
