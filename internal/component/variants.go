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

package component

import "github.com/TryExceptElse/zen/internal/source"

func mergeContent(children []Component) map[string][]Component {
	out := map[string][]Component{}
	for _, c := range children {
		for name, comps := range c.ConstructContent() {
			out[name] = append(out[name], comps...)
		}
	}
	return out
}

func mergeExposed(children []Component) []*source.Chunk {
	var out []*source.Chunk
	for _, c := range children {
		out = append(out, c.ExposedContent()...)
	}
	return out
}

// Preprocessor is a `#...` directive, possibly continued via a
// trailing '\'. It declares no construct; its whole chunk is exposed
// content since it affects compilation whenever present.
type Preprocessor struct{ base }

func newPreprocessor(chunk *source.Chunk) *Preprocessor {
	p := &Preprocessor{base{kind: KindPreprocessor, chunk: chunk, sig: chunk}}
	p.self = p
	return p
}

func (p *Preprocessor) SubComponents() []Component           { return nil }
func (p *Preprocessor) ConstructContent() map[string][]Component { return p.defaultConstructContent() }
func (p *Preprocessor) ExposedContent() []*source.Chunk       { return []*source.Chunk{p.chunk} }

// Using is a `using ...;` statement; exposed content is itself.
type Using struct{ base }

func newUsing(chunk *source.Chunk) *Using {
	u := &Using{base{kind: KindUsing, chunk: chunk, sig: chunk}}
	u.self = u
	return u
}

func (u *Using) SubComponents() []Component           { return nil }
func (u *Using) ConstructContent() map[string][]Component { return u.defaultConstructContent() }
func (u *Using) ExposedContent() []*source.Chunk       { return []*source.Chunk{u.chunk} }

// Namespace is `namespace N { ... }`. Its own exposed content is the
// prefix "namespace N" (braces excluded); its sub-components are the
// inner block's children directly, and its construct contributions
// bubble up from those children unchanged.
type Namespace struct {
	base
	prefix   *source.Chunk
	children []Component
}

func newNamespace(chunk, prefix *source.Chunk, children []Component) *Namespace {
	n := &Namespace{base: base{kind: KindNamespace, chunk: chunk, sig: prefix}, prefix: prefix, children: children}
	n.self = n
	return n
}

func (n *Namespace) SubComponents() []Component           { return n.children }
func (n *Namespace) ConstructContent() map[string][]Component { return mergeContent(n.children) }
func (n *Namespace) ExposedContent() []*source.Chunk       { return []*source.Chunk{n.prefix} }

// ClassForwardDecl is `class X ...;`; name is the last identifier token.
type ClassForwardDecl struct{ base }

func newClassForwardDecl(chunk *source.Chunk, name string) *ClassForwardDecl {
	c := &ClassForwardDecl{base{kind: KindClassForwardDecl, chunk: chunk, name: name, sig: chunk}}
	c.self = c
	return c
}

func (c *ClassForwardDecl) SubComponents() []Component { return nil }
func (c *ClassForwardDecl) ConstructContent() map[string][]Component {
	return map[string][]Component{c.name: {c}}
}
func (c *ClassForwardDecl) ExposedContent() []*source.Chunk { return []*source.Chunk{c.chunk} }

// ClassDefinition is `class X { ... };`. Exposed content is the prefix
// "class X"; construct_content[X] holds the definition plus every
// member's own contribution.
type ClassDefinition struct {
	base
	prefix  *source.Chunk
	members []Component
}

func newClassDefinition(chunk, prefix *source.Chunk, name string, members []Component) *ClassDefinition {
	c := &ClassDefinition{base: base{kind: KindClassDefinition, chunk: chunk, name: name, sig: prefix}, prefix: prefix, members: members}
	c.self = c
	return c
}

func (c *ClassDefinition) SubComponents() []Component { return c.members }
func (c *ClassDefinition) Members() []Component       { return c.members }
func (c *ClassDefinition) ConstructContent() map[string][]Component {
	out := mergeContent(c.members)
	out[c.name] = append(append([]Component{c}, c.members...))
	return out
}
func (c *ClassDefinition) ExposedContent() []*source.Chunk { return []*source.Chunk{c.prefix} }

// FunctionDecl is `...name(args);` at global scope. Declarations alone
// do not alter linked code, so exposed content is empty.
type FunctionDecl struct{ base }

func newFunctionDecl(chunk *source.Chunk, name string) *FunctionDecl {
	f := &FunctionDecl{base{kind: KindFunctionDecl, chunk: chunk, name: name, sig: chunk}}
	f.self = f
	return f
}

func (f *FunctionDecl) SubComponents() []Component { return nil }
func (f *FunctionDecl) ConstructContent() map[string][]Component {
	return map[string][]Component{f.name: {f}}
}
func (f *FunctionDecl) ExposedContent() []*source.Chunk { return nil }

// MemberFunctionDecl is the same syntax inside a class; unlike a
// free-function declaration, it affects class layout, so its whole
// declaration is exposed content.
type MemberFunctionDecl struct{ base }

func newMemberFunctionDecl(chunk *source.Chunk, name string) *MemberFunctionDecl {
	f := &MemberFunctionDecl{base{kind: KindMemberFunctionDecl, chunk: chunk, name: name, sig: chunk}}
	f.self = f
	return f
}

func (f *MemberFunctionDecl) SubComponents() []Component { return nil }
func (f *MemberFunctionDecl) ConstructContent() map[string][]Component {
	return map[string][]Component{f.name: {f}}
}
func (f *MemberFunctionDecl) ExposedContent() []*source.Chunk { return []*source.Chunk{f.chunk} }

// FunctionDef is `...name(args) { ... }` at global scope.
// construct_content[name] aggregates the prefix (as a self-contribution)
// plus the inner block's children; exposed content is empty.
type FunctionDef struct {
	base
	prefix *source.Chunk
	body   []Component
}

func newFunctionDef(chunk, prefix *source.Chunk, name string, body []Component) *FunctionDef {
	f := &FunctionDef{base: base{kind: KindFunctionDef, chunk: chunk, name: name, sig: prefix}, prefix: prefix, body: body}
	f.self = f
	return f
}

func (f *FunctionDef) SubComponents() []Component { return f.body }
func (f *FunctionDef) ConstructContent() map[string][]Component {
	out := mergeContent(f.body)
	out[f.name] = append([]Component{f}, f.body...)
	return out
}
func (f *FunctionDef) ExposedContent() []*source.Chunk { return nil }

// MemberFunctionDef is the same syntax inside a class; exposed content
// is the prefix only (the class layout needs it even when the body's
// constructs are unused).
type MemberFunctionDef struct {
	base
	prefix *source.Chunk
	body   []Component
}

func newMemberFunctionDef(chunk, prefix *source.Chunk, name string, body []Component) *MemberFunctionDef {
	f := &MemberFunctionDef{base: base{kind: KindMemberFunctionDef, chunk: chunk, name: name, sig: prefix}, prefix: prefix, body: body}
	f.self = f
	return f
}

func (f *MemberFunctionDef) SubComponents() []Component { return f.body }
func (f *MemberFunctionDef) ConstructContent() map[string][]Component {
	out := mergeContent(f.body)
	out[f.name] = append([]Component{f}, f.body...)
	return out
}
func (f *MemberFunctionDef) ExposedContent() []*source.Chunk { return []*source.Chunk{f.prefix} }

// ControlBlock is an `if`/`for`/`while`/`do ... (...) { ... }`. It
// declares no construct of its own; its prefix is exposed content, and
// its body is parsed in CLASS scope, preserving the source's (likely
// unintended) observable behavior for member lookup within control bodies.
type ControlBlock struct {
	base
	prefix *source.Chunk
	body   []Component
}

func newControlBlock(chunk, prefix *source.Chunk, body []Component) *ControlBlock {
	c := &ControlBlock{base: base{kind: KindControlBlock, chunk: chunk, sig: prefix}, prefix: prefix, body: body}
	c.self = c
	return c
}

func (c *ControlBlock) SubComponents() []Component           { return c.body }
func (c *ControlBlock) ConstructContent() map[string][]Component { return mergeContent(c.body) }
func (c *ControlBlock) ExposedContent() []*source.Chunk       { return []*source.Chunk{c.prefix} }

// Label is an identifier followed by ':' that is not a class-extension
// colon or '::'.
type Label struct{ base }

func newLabel(chunk *source.Chunk, name string) *Label {
	l := &Label{base{kind: KindLabel, chunk: chunk, name: name, sig: chunk}}
	l.self = l
	return l
}

func (l *Label) SubComponents() []Component               { return nil }
func (l *Label) ConstructContent() map[string][]Component { return l.defaultConstructContent() }
func (l *Label) ExposedContent() []*source.Chunk           { return nil }

// MiscStatement is any other ';'-terminated statement or body content
// in function scope.
type MiscStatement struct{ base }

func newMiscStatement(chunk *source.Chunk) *MiscStatement {
	m := &MiscStatement{base{kind: KindMisc, chunk: chunk, sig: chunk}}
	m.self = m
	return m
}

func (m *MiscStatement) SubComponents() []Component               { return nil }
func (m *MiscStatement) ConstructContent() map[string][]Component { return m.defaultConstructContent() }
func (m *MiscStatement) ExposedContent() []*source.Chunk           { return []*source.Chunk{m.chunk} }

// Block is a container of components, carrying the ScopeType under
// which its children are parsed.
type Block struct {
	base
	scope    ScopeType
	children []Component
}

func (b *Block) Scope() ScopeType { return b.scope }

func (b *Block) SubComponents() []Component               { return b.children }
func (b *Block) ConstructContent() map[string][]Component { return mergeContent(b.children) }
func (b *Block) ExposedContent() []*source.Chunk           { return mergeExposed(b.children) }
