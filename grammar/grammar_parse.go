// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package grammar

import (
	"fmt"
	"strings"
)

type ProblemKind uint8

const (
	ProblemEmptyName ProblemKind = iota + 1
	ProblemNameCase
	ProblemNameWhitespace
	ProblemNameCharset
	ProblemUnknownType
	ProblemTypeArgument
	ProblemFlagValue
)

// Problem is a defect found while parsing an argument token. The compiler
// reports each one as a diagnostic.
type Problem struct {
	Kind ProblemKind
	// Subject is the name or type the problem refers to.
	Subject string
}

func (p *Problem) Error() string {
	switch p.Kind {
	case ProblemEmptyName:
		return "zero-length name"
	case ProblemNameCase:
		return fmt.Sprintf("name not lowercase: %q", p.Subject)
	case ProblemNameWhitespace:
		return fmt.Sprintf("name has whitespace: %q", p.Subject)
	case ProblemNameCharset:
		return fmt.Sprintf("name has invalid characters: %q", p.Subject)
	case ProblemUnknownType:
		return fmt.Sprintf("unknown type: %q", p.Subject)
	case ProblemTypeArgument:
		return fmt.Sprintf("type does not take argument: %q", p.Subject)
	case ProblemFlagValue:
		return fmt.Sprintf("flag %q has no value", p.Subject)
	default:
		return fmt.Sprintf("problem %d: %q", p.Kind, p.Subject)
	}
}

// ParseArgument parses one token of a message format.
//
// "<...>" is required, "[...]" optional and anchored left, "(...)" optional
// and anchored right. Anything else is a literal. Inside the brackets a
// trailing "," or "_" makes a comma or space separated list of the rest,
// "#name" is a channel, "name:type" a typed leaf and a bare name a str leaf.
func ParseArgument(token string) (*Argument, []*Problem) {
	var problems []*Problem
	open, inner := unpackBrackets(token)
	switch open {
	case '<':
		return parseInner(inner, &problems), problems
	case '[':
		return Optional(Left, parseInner(inner, &problems)), problems
	case '(':
		return Optional(Right, parseInner(inner, &problems)), problems
	default:
		return Literal(token), nil
	}
}

func unpackBrackets(token string) (byte, string) {
	if len(token) < 2 {
		return 0, token
	}
	for _, pair := range [...]string{"<>", "[]", "()"} {
		if token[0] == pair[0] && token[len(token)-1] == pair[1] {
			return pair[0], token[1 : len(token)-1]
		}
	}
	return 0, token
}

func parseInner(arg string, problems *[]*Problem) *Argument {
	if n := len(arg); n > 0 && (arg[n-1] == ',' || arg[n-1] == '_') {
		sep := Comma
		if arg[n-1] == '_' {
			sep = Space
		}
		element := parseInner(arg[:n-1], problems)
		name := element.Name
		element.Name = ""
		return List(name, sep, element)
	}

	var name, typeName string
	if rest, ok := strings.CutPrefix(arg, "#"); ok {
		name, typeName = rest, "channel"
	} else if n, t, ok := strings.Cut(arg, ":"); ok {
		name, typeName = n, t
	} else {
		name, typeName = arg, "str"
	}

	leaf := &Argument{Kind: KindLeaf}
	if open := strings.IndexByte(typeName, '('); open >= 0 && strings.HasSuffix(typeName, ")") {
		leaf.TypeArgument = typeName[open+1 : len(typeName)-1]
		leaf.HasTypeArgument = true
		typeName = typeName[:open]
	}

	t, ok := ParseLeafType(typeName)
	if !ok {
		*problems = append(*problems, &Problem{ProblemUnknownType, typeName})
	} else if leaf.HasTypeArgument && !t.TakesArgument() {
		*problems = append(*problems, &Problem{ProblemTypeArgument, typeName})
	}
	leaf.Type = t

	name = strings.TrimSpace(name)
	*problems = append(*problems, CheckName(name)...)
	leaf.Name = name

	if t == TypeFlag && leaf.TypeArgument == "" {
		*problems = append(*problems, &Problem{ProblemFlagValue, name})
	}
	return leaf
}

// CheckName validates a section, message or argument name: non-empty,
// lowercase, no whitespace, and only [a-z0-9-].
func CheckName(name string) []*Problem {
	if name == "" {
		return []*Problem{{ProblemEmptyName, name}}
	}
	var problems []*Problem
	if strings.ToLower(name) != name {
		problems = append(problems, &Problem{ProblemNameCase, name})
	}
	if len(strings.Fields(name)) > 1 {
		problems = append(problems, &Problem{ProblemNameWhitespace, name})
	}
	for _, c := range name {
		if !isNameChar(c) && !isSpace(c) {
			problems = append(problems, &Problem{ProblemNameCharset, name})
			break
		}
	}
	return problems
}

// ValidName reports whether CheckName would accept name.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '-'
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
