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
	"github.com/TryExceptElse/zen/internal/zenerr"
	"github.com/TryExceptElse/zen/internal/zenlog"
)

var identRe = regexp.MustCompile(`[\w0-9]+`)

var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "do": true,
}

func sliceIdx(chunk *source.Chunk, a, b int) *source.Chunk {
	sp := chunk.BoundaryPos(a)
	ep := chunk.BoundaryPos(b)
	return source.MustNew(chunk.Content, &sp, &ep, chunk.Form)
}

func lastIdent(s string) string {
	toks := identRe.FindAllString(s, -1)
	if len(toks) == 0 {
		return ""
	}
	return toks[len(toks)-1]
}

func identAfter(s, keyword string) string {
	toks := identRe.FindAllString(s, -1)
	for i, t := range toks {
		if t == keyword && i+1 < len(toks) {
			return toks[i+1]
		}
	}
	return lastIdent(s)
}

// extractCallableName finds the name of the function/method whose
// parameter list starts at s's first '(': ordinarily the last
// identifier token before it, but for an operator overload ("operator",
// immediately followed by a symbol run such as "==", "[]", "<<") the
// operator's symbol is part of the name too, since plain word-regex
// tokenization can never see it. Without this, operator overloads could
// never be recognized as "used" by any caller's token set.
func extractCallableName(s string) string {
	before := s
	if idx := strings.IndexByte(s, '('); idx != -1 {
		before = s[:idx]
	}
	locs := identRe.FindAllStringIndex(before, -1)
	if len(locs) == 0 {
		return ""
	}
	last := locs[len(locs)-1]
	lastTok := before[last[0]:last[1]]
	if lastTok == "operator" {
		if suffix := strings.TrimSpace(before[last[1]:]); suffix != "" {
			return "operator" + suffix
		}
	}
	return lastTok
}

// Create recognizes a single Component starting at chunk's beginning,
// scanning character-by-character and accumulating structurally
// significant tokens. It returns zenerr.ErrComponentCreation if chunk is
// exhausted without a component being recognized.
func Create(chunk *source.Chunk, scope ScopeType) (Component, error) {
	var sb strings.Builder
	n := chunk.Len()
	i := 0
	for i < n {
		c, err := chunk.At(i)
		if err != nil {
			return nil, err
		}
		pos := chunk.PosAt(i)

		switch {
		case c == ':':
			// Distinguish '::' (scope resolution) from a bare label
			// colon. A colon following "class" (base-class list) or
			// inside an already-seen call/declaration ("()" present,
			// e.g. a ternary "cond ? a() : b()") is not a label.
			if i+1 < n {
				if nc, _ := chunk.At(i + 1); nc == ':' {
					sb.WriteString("::")
					i += 2
					continue
				}
			}
			s := sb.String()
			if strings.Contains(s, "class") || strings.Contains(s, "()") {
				sb.WriteByte(':')
				i++
				continue
			}
			sub := sliceIdx(chunk, 0, i+1)
			return newLabel(sub, lastIdent(sub.String())), nil

		case c == ';':
			sub := sliceIdx(chunk, 0, i+1)
			if scope == Func {
				return newMiscStatement(sub), nil
			}
			s := sb.String()
			switch {
			case strings.Contains(s, "class"):
				return newClassForwardDecl(sub, lastIdent(sub.String())), nil
			case strings.Contains(s, "using"):
				return newUsing(sub), nil
			case strings.Contains(s, "()"):
				name := extractCallableName(sub.String())
				if scope == Class {
					return newMemberFunctionDecl(sub, name), nil
				}
				return newFunctionDecl(sub, name), nil
			default:
				return newMiscStatement(sub), nil
			}

		case pos.Col() == 0 && strings.HasPrefix(strings.TrimSpace(chunk.Line(pos).Raw), "#"):
			return createPreprocessor(chunk, i)

		case isSpaceByte(c):
			i++

		case c == '<' && scope != Func:
			end, ferr := chunk.FindPair(pos, false)
			if ferr == nil {
				sb.WriteString("<>")
				i = chunk.IndexOf(end) + 1
				continue
			}
			zenlog.TraceDetail("%s:%d: '<' has no matching '>' before a ';', treating as less-than",
				chunk.Content.Path, pos.Line())
			sb.WriteRune(c)
			i++

		case c == '(':
			end, ferr := chunk.FindPair(pos, true)
			if ferr != nil {
				return nil, ferr
			}
			sb.WriteString("()")
			i = chunk.IndexOf(end) + 1

		case c == '[':
			end, ferr := chunk.FindPair(pos, true)
			if ferr != nil {
				return nil, ferr
			}
			sb.WriteString("[]")
			i = chunk.IndexOf(end) + 1

		case c == '{':
			end, ferr := chunk.FindPair(pos, true)
			if ferr != nil {
				return nil, ferr
			}
			return closeBrace(chunk, i, end, sb.String(), scope)

		default:
			sb.WriteRune(c)
			i++
		}
	}
	return nil, zenerr.ErrComponentCreation
}

func isSpaceByte(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// closeBrace decides what a '{...}' pair means given the tokens
// accumulated before it.
func closeBrace(chunk *source.Chunk, braceIdx int, end source.Pos, s string, scope ScopeType) (Component, error) {
	endIdx := chunk.IndexOf(end)
	prefix := sliceIdx(chunk, 0, braceIdx)

	switch {
	case strings.Contains(s, "namespace"):
		children, err := parseBlockChildren(sliceIdx(chunk, braceIdx, endIdx+1), scope)
		if err != nil {
			return nil, err
		}
		full := sliceIdx(chunk, 0, endIdx+1)
		return newNamespace(full, prefix, children), nil

	case strings.Contains(s, "class"):
		closeIdx, perr := findTrailingSemicolon(chunk, endIdx)
		if perr != nil {
			return nil, perr
		}
		members, err := parseBlockChildren(sliceIdx(chunk, braceIdx, endIdx+1), Class)
		if err != nil {
			return nil, err
		}
		full := sliceIdx(chunk, 0, closeIdx+1)
		name := identAfter(prefix.String(), "class")
		return newClassDefinition(full, prefix, name, members), nil

	case strings.HasSuffix(s, "()") && controlKeywords[strings.TrimSuffix(s, "()")]:
		body, err := parseBlockChildren(sliceIdx(chunk, braceIdx, endIdx+1), Class)
		if err != nil {
			return nil, err
		}
		full := sliceIdx(chunk, 0, endIdx+1)
		return newControlBlock(full, prefix, body), nil

	case strings.HasSuffix(s, "()") && scope == Func && !strings.Contains(s, "[]"):
		return nil, zenerr.NewParsingError(chunk.Content.Path, chunk.Start.Line(),
			"function definition found within another function definition")

	case strings.HasSuffix(s, "()") && scope == Global:
		body, err := parseBlockChildren(sliceIdx(chunk, braceIdx, endIdx+1), Func)
		if err != nil {
			return nil, err
		}
		full := sliceIdx(chunk, 0, endIdx+1)
		name := extractCallableName(prefix.String())
		return newFunctionDef(full, prefix, name, body), nil

	case strings.HasSuffix(s, "()") && scope == Class:
		body, err := parseBlockChildren(sliceIdx(chunk, braceIdx, endIdx+1), Func)
		if err != nil {
			return nil, err
		}
		full := sliceIdx(chunk, 0, endIdx+1)
		name := extractCallableName(prefix.String())
		return newMemberFunctionDef(full, prefix, name, body), nil

	default:
		// Other occurrences of curly brackets are ignored: the brace
		// pair is skipped over without becoming (or containing) any
		// recognized component, and scanning resumes after it. A bare
		// "do { ... }" body (no parens before its brace) falls here
		// rather than becoming a ControlBlock.
		return Create(sliceIdx(chunk, endIdx+1, chunk.Len()), scope)
	}
}

// findTrailingSemicolon scans the non-whitespace text after a class
// body's closing brace for the mandatory terminating ';'. It returns
// the index of that ';' or a ParsingError.
func findTrailingSemicolon(chunk *source.Chunk, closeBraceIdx int) (int, error) {
	n := chunk.Len()
	for i := closeBraceIdx + 1; i < n; i++ {
		c, _ := chunk.At(i)
		if c == ';' {
			return i, nil
		}
		if !isSpaceByte(c) {
			return 0, zenerr.NewParsingError(chunk.Content.Path, chunk.PosAt(i).Line(),
				"class definition missing terminating ';'; found %q instead", c)
		}
	}
	return 0, zenerr.NewParsingError(chunk.Content.Path, chunk.PosAt(closeBraceIdx).Line(),
		"no ';' found after class definition")
}

// createPreprocessor consumes a '#' directive and its `\`-continued
// lines.
func createPreprocessor(chunk *source.Chunk, startIdx int) (Component, error) {
	startPos := chunk.PosAt(startIdx)
	content := chunk.Content
	li := startPos.Line()
	for {
		line := content.Lines[li]
		stripped := strings.TrimRight(line.Raw, "\n")
		if !strings.HasSuffix(stripped, "\\") {
			break
		}
		li++
		if li >= len(content.Lines) {
			return nil, zenerr.NewParsingError(content.Path, startPos.Line(),
				"no end found for preprocessor macro")
		}
	}
	endPos := content.LineEndPos(li, chunk.Form)
	full := source.MustNew(content, &startPos, &endPos, chunk.Form)
	return newPreprocessor(full), nil
}

// parseBlockChildren iterates Create over chunk (skipping a leading
// '{' and trailing '}' if present), advancing to the end of each
// emitted component, stopping cleanly on ErrComponentCreation and
// propagating any other error.
func parseBlockChildren(chunk *source.Chunk, scope ScopeType) ([]Component, error) {
	n := chunk.Len()
	startIdx, endIdx := 0, n
	if n > 0 {
		if c, _ := chunk.At(0); c == '{' {
			startIdx = 1
		}
	}
	if n > 0 {
		if c, _ := chunk.At(n - 1); c == '}' {
			endIdx = n - 1
		}
	}
	pos := chunk.BoundaryPos(startIdx)
	endPos := chunk.BoundaryPos(endIdx)

	var children []Component
	for {
		sub := source.MustNew(chunk.Content, &pos, &endPos, chunk.Form)
		comp, err := Create(sub, scope)
		if err != nil {
			if err == zenerr.ErrComponentCreation {
				return children, nil
			}
			return children, err
		}
		children = append(children, comp)
		next := comp.Chunk().End
		if next.Equal(endPos) {
			return children, nil
		}
		pos = next
	}
}

// NewRootBlock parses the whole of chunk as a Block under scope,
// typically Global for a file's top level.
func NewRootBlock(chunk *source.Chunk, scope ScopeType) (*Block, error) {
	children, err := parseBlockChildren(chunk, scope)
	if err != nil {
		return nil, err
	}
	b := &Block{base: base{kind: KindBlock, chunk: chunk, sig: chunk}, scope: scope, children: children}
	b.self = b
	return b, nil
}
