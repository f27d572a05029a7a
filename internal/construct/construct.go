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

// Package construct builds the named-symbol dependency graph a source
// file's components declare and reference. It deliberately only
// imports component, never the reverse: a Component reports its own
// Tokens(), and it is construct's job to decide which of those tokens
// name a known construct.
package construct

import (
	"sort"

	"github.com/TryExceptElse/zen/internal/component"
	"github.com/TryExceptElse/zen/internal/hashutil"
)

// Construct is every Component contributing to one named symbol
// (a class, a function, a member function): the pieces of source whose
// combined content determines whether that symbol changed, and whose
// combined token set determines what it depends on.
type Construct struct {
	name    string
	content []component.Component
	graph   *Graph

	contentHash    uint64
	contentHashSet bool

	deps    []string
	depsSet bool

	recDeps    []string
	recDepsSet bool
}

// Name is the construct's symbol name.
func (c *Construct) Name() string { return c.name }

// Content lists the Components contributing to this construct, in the
// order they were added (source order across however many source
// files declare or define the symbol).
func (c *Construct) Content() []component.Component { return c.content }

// ContentHash folds every contributing Component's Chunk().ContentHash()
// into one order-stable value. Two constructs with identical content
// hashes are interchangeable for recompilation purposes even if their
// source text differs only in whitespace or comments.
func (c *Construct) ContentHash() uint64 {
	if c.contentHashSet {
		return c.contentHash
	}
	digests := make([]uint64, len(c.content))
	for i, comp := range c.content {
		digests[i] = comp.Chunk().ContentHash()
	}
	c.contentHash = hashutil.Combine(digests)
	c.contentHashSet = true
	return c.contentHash
}

// Dependencies lists the names of other known constructs referenced by
// this construct's own content, deduplicated, excluding the construct's
// own name.
func (c *Construct) Dependencies() []string {
	if c.depsSet {
		return c.deps
	}
	seen := map[string]bool{c.name: true}
	var deps []string
	for _, comp := range c.content {
		for _, tok := range comp.Tokens() {
			if seen[tok] {
				continue
			}
			if !c.graph.Has(tok) {
				continue
			}
			seen[tok] = true
			deps = append(deps, tok)
		}
	}
	sort.Strings(deps)
	c.deps = deps
	c.depsSet = true
	return c.deps
}

// RecursiveDependencies is the transitive closure of Dependencies,
// deduplicated via a visited-name set so cyclic references (mutually
// recursive functions, a class referencing itself) terminate.
func (c *Construct) RecursiveDependencies() []string {
	if c.recDepsSet {
		return c.recDeps
	}
	visited := map[string]bool{c.name: true}
	var out []string
	var walk func(name string)
	walk = func(name string) {
		con, ok := c.graph.Get(name)
		if !ok {
			return
		}
		for _, d := range con.Dependencies() {
			if visited[d] {
				continue
			}
			visited[d] = true
			out = append(out, d)
			walk(d)
		}
	}
	walk(c.name)
	sort.Strings(out)
	c.recDeps = out
	c.recDepsSet = true
	return c.recDeps
}

// Graph is the set of named Constructs contributed by one or more
// source files' root Components.
type Graph struct {
	byName map[string]*Construct
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{byName: map[string]*Construct{}}
}

// FromRoot walks root's ConstructContent (which already aggregates
// every nested contribution) into a Graph.
func FromRoot(root component.Component) *Graph {
	g := New()
	g.Merge(root)
	return g
}

// FromRoots merges several files' roots into one Graph, for an object
// compiled from a translation unit plus the headers it includes: a
// construct declared in a header and defined in the translation unit
// contributes its content from both.
func FromRoots(roots []component.Component) *Graph {
	g := New()
	for _, root := range roots {
		g.Merge(root)
	}
	return g
}

// Merge folds another root's ConstructContent into g.
func (g *Graph) Merge(root component.Component) {
	for name, comps := range root.ConstructContent() {
		g.add(name, comps)
	}
}

func (g *Graph) add(name string, content []component.Component) *Construct {
	if existing, ok := g.byName[name]; ok {
		existing.content = append(existing.content, content...)
		return existing
	}
	c := &Construct{name: name, content: content, graph: g}
	g.byName[name] = c
	return c
}

// Has reports whether name is a known construct in this graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// Get looks up a construct by name.
func (g *Graph) Get(name string) (*Construct, bool) {
	c, ok := g.byName[name]
	return c, ok
}

// Len is the number of distinct named constructs in the graph.
func (g *Graph) Len() int { return len(g.byName) }

// Names returns every construct name, sorted for deterministic
// iteration.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.byName))
	for n := range g.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
