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

import (
	"regexp"
	"strings"

	"github.com/TryExceptElse/zen/internal/source"
)

// Kind identifies which taxonomy variant a Component is. Closed set,
// a closed set.
type Kind int

const (
	KindBlock Kind = iota
	KindPreprocessor
	KindUsing
	KindNamespace
	KindClassForwardDecl
	KindClassDefinition
	KindFunctionDecl
	KindMemberFunctionDecl
	KindFunctionDef
	KindMemberFunctionDef
	KindControlBlock
	KindLabel
	KindMisc
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "Block"
	case KindPreprocessor:
		return "Preprocessor"
	case KindUsing:
		return "Using"
	case KindNamespace:
		return "Namespace"
	case KindClassForwardDecl:
		return "CppClassForwardDeclaration"
	case KindClassDefinition:
		return "CppClassDefinition"
	case KindFunctionDecl:
		return "FunctionDeclaration"
	case KindMemberFunctionDecl:
		return "MemberFunctionDeclaration"
	case KindFunctionDef:
		return "FunctionDefinition"
	case KindMemberFunctionDef:
		return "MemberFunctionDefinition"
	case KindControlBlock:
		return "ControlBlock"
	case KindLabel:
		return "Label"
	case KindMisc:
		return "MiscStatement"
	default:
		return "Unknown"
	}
}

// Component is the common contract every taxonomy variant satisfies
// Every taxonomy variant embeds base and satisfies this contract.
type Component interface {
	Kind() Kind
	Chunk() *source.Chunk
	// Name is the construct name this component contributes to, or ""
	// for components that do not declare/define a named construct
	// (PreprocessorComponent, UsingStatement, Block, ControlBlock,
	// MiscStatement).
	Name() string
	// Tokens lists identifiers appearing in the component's signature,
	// excluding nested bodies where the component has one.
	Tokens() []string
	// SubComponents are this component's direct children.
	SubComponents() []Component
	// RecursiveComponents walks depth-first: each child, then that
	// child's descendants, in source order.
	RecursiveComponents() []Component
	// ConstructContent maps a construct name to the Components that
	// contribute to it from within this component (possibly including
	// itself).
	ConstructContent() map[string][]Component
	// ExposedContent lists the Chunks that affect compilation even if
	// no construct from this component is referenced elsewhere.
	ExposedContent() []*source.Chunk
	// Tags are the `// ZEN(tag, ...)` annotations attached to lines
	// that belong to this component and no nested sub-component.
	Tags() []string
}

var zenTagRe = regexp.MustCompile(`//\s*ZEN\(([^)]*)\)`)

// base implements the parts of Component shared by every variant:
// chunk storage, token caching, tag extraction, and depth-first
// recursive descent over whatever SubComponents() the embedding type
// reports.
type base struct {
	kind  Kind
	chunk *source.Chunk
	name  string
	// sig is the chunk Tokens() reads from. It equals chunk for leaf
	// variants, and the pre-'{' prefix for variants with nested bodies
	// (so a class/function/namespace's own member names don't count as
	// "used" by the enclosing construct itself).
	sig *source.Chunk

	self Component // set by concrete constructors; used for SubComponents in RecursiveComponents
}

func (b *base) Kind() Kind            { return b.kind }
func (b *base) Chunk() *source.Chunk  { return b.chunk }
func (b *base) Name() string          { return b.name }
func (b *base) Tokens() []string {
	sig := b.sig
	if sig == nil {
		sig = b.chunk
	}
	return sig.Tokenize("")
}

func (b *base) Tags() []string {
	covered := make([]bool, 0)
	sub := b.self.SubComponents()
	startLine := b.chunk.Start.Line()
	endLine := b.chunk.End.Line()
	n := endLine - startLine + 1
	if n > 0 {
		covered = make([]bool, n)
	}
	for _, s := range sub {
		sc := s.Chunk()
		for li := sc.Start.Line(); li <= sc.End.Line(); li++ {
			if li-startLine >= 0 && li-startLine < len(covered) {
				covered[li-startLine] = true
			}
		}
	}
	var tags []string
	for li := startLine; li <= endLine; li++ {
		if li-startLine < len(covered) && covered[li-startLine] {
			continue
		}
		line := b.chunk.Content.Lines[li]
		m := zenTagRe.FindStringSubmatch(line.Raw)
		if m == nil {
			continue
		}
		for _, t := range strings.Split(m[1], ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func (b *base) RecursiveComponents() []Component {
	var out []Component
	for _, c := range b.self.SubComponents() {
		out = append(out, c)
		out = append(out, c.RecursiveComponents()...)
	}
	return out
}

// defaultConstructContent is used by variants with no named construct
// of their own: an empty map.
func (b *base) defaultConstructContent() map[string][]Component {
	return map[string][]Component{}
}
