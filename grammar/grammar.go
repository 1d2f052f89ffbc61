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

// Package grammar holds the argument type model shared by the compiler and
// the message codec: literal, leaf, list and optional arguments, and the
// associativity algebra that decides which edge of the wire argument
// vector a message's optional arguments anchor to.
package grammar

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindLiteral Kind = iota
	KindLeaf
	KindList
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindLeaf:
		return "leaf"
	case KindList:
		return "list"
	case KindOptional:
		return "optional"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type LeafType uint8

const (
	TypeUnknown LeafType = iota
	TypeStr
	TypeInt
	TypeFlag
	TypeChannel
	TypeLiteral
)

var leafTypeNames = map[string]LeafType{
	"str":     TypeStr,
	"int":     TypeInt,
	"flag":    TypeFlag,
	"channel": TypeChannel,
	"literal": TypeLiteral,
}

func ParseLeafType(name string) (LeafType, bool) {
	t, ok := leafTypeNames[name]
	return t, ok
}

func (t LeafType) String() string {
	switch t {
	case TypeStr:
		return "str"
	case TypeInt:
		return "int"
	case TypeFlag:
		return "flag"
	case TypeChannel:
		return "channel"
	case TypeLiteral:
		return "literal"
	default:
		return fmt.Sprintf("LeafType(%d)", uint8(t))
	}
}

// TakesArgument reports whether the type accepts a parenthesized type
// argument, as in "flag(+i)".
func (t LeafType) TakesArgument() bool {
	return t == TypeFlag || t == TypeLiteral
}

type Separator uint8

const (
	Comma Separator = iota
	Space
)

func (s Separator) String() string {
	if s == Space {
		return "space"
	}
	return "comma"
}

// Marker is the trailing character that selects this separator in a
// format string.
func (s Separator) Marker() byte {
	if s == Space {
		return '_'
	}
	return ','
}

// Argument is one element of a message format.
//
// Which fields are meaningful depends on Kind:
//
//	KindLiteral:  Text
//	KindLeaf:     Name, Type, TypeArgument, HasTypeArgument
//	KindList:     Name, Separator, Inner (the element)
//	KindOptional: Side, Inner (a leaf or list)
//
// List elements are unnamed; the field name lives on the list.
type Argument struct {
	Kind Kind

	Name string
	Text string

	Type            LeafType
	TypeArgument    string
	HasTypeArgument bool

	Separator Separator
	Side      Side
	Inner     *Argument
}

func Literal(text string) *Argument {
	return &Argument{Kind: KindLiteral, Text: text}
}

func Leaf(name string, t LeafType) *Argument {
	return &Argument{Kind: KindLeaf, Name: name, Type: t}
}

// Flag returns a flag leaf whose wire form is value.
func Flag(name, value string) *Argument {
	return &Argument{
		Kind:            KindLeaf,
		Name:            name,
		Type:            TypeFlag,
		TypeArgument:    value,
		HasTypeArgument: true,
	}
}

func List(name string, sep Separator, element *Argument) *Argument {
	return &Argument{Kind: KindList, Name: name, Separator: sep, Inner: element}
}

func Optional(side Side, inner *Argument) *Argument {
	return &Argument{Kind: KindOptional, Side: side, Inner: inner}
}

// FieldName is the name of the field this argument decodes into, or "" for
// literals.
func (a *Argument) FieldName() string {
	switch a.Kind {
	case KindOptional:
		return a.Inner.FieldName()
	case KindLiteral:
		return ""
	default:
		return a.Name
	}
}

func (a *Argument) IsOptional() bool {
	return a.Kind == KindOptional
}

// Required strips an optional wrapper.
func (a *Argument) Required() *Argument {
	if a.Kind == KindOptional {
		return a.Inner
	}
	return a
}

// IsFlag reports whether the argument, ignoring optionality, is a flag leaf.
func (a *Argument) IsFlag() bool {
	r := a.Required()
	return r.Kind == KindLeaf && r.Type == TypeFlag
}

// Sides is the set of edges this argument may anchor to.
func (a *Argument) Sides() Sides {
	if a.Kind == KindOptional {
		return a.Side.Sides()
	}
	return SidesBoth
}

// String renders the argument back into format-string syntax.
func (a *Argument) String() string {
	switch a.Kind {
	case KindLiteral:
		return a.Text
	case KindOptional:
		if a.Side == Right {
			return "(" + renderInner(a.Inner, a.Inner.Name) + ")"
		}
		return "[" + renderInner(a.Inner, a.Inner.Name) + "]"
	default:
		return "<" + renderInner(a, a.Name) + ">"
	}
}

func renderInner(a *Argument, name string) string {
	switch a.Kind {
	case KindList:
		return renderInner(a.Inner, name) + string(a.Separator.Marker())
	case KindLeaf:
		var buf strings.Builder
		buf.WriteString(name)
		if a.Type != TypeStr || a.HasTypeArgument {
			buf.WriteByte(':')
			buf.WriteString(a.Type.String())
			if a.HasTypeArgument {
				buf.WriteByte('(')
				buf.WriteString(a.TypeArgument)
				buf.WriteByte(')')
			}
		}
		return buf.String()
	default:
		return a.String()
	}
}
