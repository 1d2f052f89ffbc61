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

package codec

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/edk0/earendil/line"
)

type ValueKind uint8

const (
	ValueUnset ValueKind = iota
	ValueText
	ValueInt
	ValueFlag
	ValueList
)

func (k ValueKind) String() string {
	switch k {
	case ValueUnset:
		return "unset"
	case ValueText:
		return "text"
	case ValueInt:
		return "int"
	case ValueFlag:
		return "flag"
	case ValueList:
		return "list"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a decoded field value. The zero Value is unset.
type Value struct {
	kind ValueKind
	text string
	num  int
	flag bool
	list []Value
}

func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

func Int(n int) Value {
	return Value{kind: ValueInt, num: n}
}

func Flag(set bool) Value {
	return Value{kind: ValueFlag, flag: set}
}

func List(elems ...Value) Value {
	return Value{kind: ValueList, list: elems}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsSet() bool {
	return v.kind != ValueUnset
}

func (v Value) Text() string {
	return v.text
}

func (v Value) Int() int {
	return v.num
}

func (v Value) Flag() bool {
	return v.flag
}

func (v Value) List() []Value {
	return v.list
}

func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return strconv.Quote(v.text)
	case ValueInt:
		return strconv.Itoa(v.num)
	case ValueFlag:
		return strconv.FormatBool(v.flag)
	case ValueList:
		elems := make([]string, len(v.list))
		for ii, elem := range v.list {
			elems[ii] = elem.String()
		}
		return "[" + strings.Join(elems, ", ") + "]"
	default:
		return "<unset>"
	}
}

// Equal reports whether v and other hold the same value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == other.text
	case ValueInt:
		return v.num == other.num
	case ValueFlag:
		return v.flag == other.flag
	case ValueList:
		if len(v.list) != len(other.list) {
			return false
		}
		for ii := range v.list {
			if !v.list[ii].Equal(other.list[ii]) {
				return false
			}
		}
	}
	return true
}

type field struct {
	name  string
	value Value
}

// Fields is an ordered mapping from field name to value. Decoded messages
// list their fields in declaration order.
type Fields struct {
	fields []field
}

func (f *Fields) Get(name string) (Value, bool) {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld.value, true
		}
	}
	return Value{}, false
}

// Set replaces the value of an existing field or appends a new one. Setting
// an unset Value removes the field.
func (f *Fields) Set(name string, v Value) {
	for ii, fld := range f.fields {
		if fld.name == name {
			if !v.IsSet() {
				f.fields = append(f.fields[:ii], f.fields[ii+1:]...)
				return
			}
			f.fields[ii].value = v
			return
		}
	}
	if v.IsSet() {
		f.fields = append(f.fields, field{name, v})
	}
}

func (f *Fields) Names() []string {
	names := make([]string, len(f.fields))
	for ii, fld := range f.fields {
		names[ii] = fld.name
	}
	return names
}

func (f *Fields) Len() int {
	return len(f.fields)
}

func (f *Fields) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, fld := range f.fields {
			if !yield(fld.name, fld.value) {
				return
			}
		}
	}
}

// Resolved is the result of [Codec.Resolve]: a *Message or an *Unknown.
type Resolved interface {
	Command() line.Command
	resolved()
}

// Message is a line decoded against one message of a description.
type Message struct {
	Name string

	// Source is the decoded line source. It is empty when the line had no
	// source or the source could not be decoded.
	Source string
	Fields Fields

	verb line.Command
}

func (m *Message) Command() line.Command { return m.verb }
func (*Message) resolved()               {}

// Unknown is a line no message of the description accepts.
type Unknown struct {
	Source    []byte
	Verb      line.Command
	Arguments [][]byte
}

func (u *Unknown) Command() line.Command { return u.Verb }
func (*Unknown) resolved()               {}

// Line rebuilds the line u was resolved from, without CTCP tags.
func (u *Unknown) Line() line.Line {
	return line.Line{
		Source:    u.Source,
		Command:   u.Verb,
		Arguments: u.Arguments,
	}
}

// Equal reports whether f and other hold the same fields in the same order.
func (f Fields) Equal(other Fields) bool {
	if len(f.fields) != len(other.fields) {
		return false
	}
	for ii, fld := range f.fields {
		if fld.name != other.fields[ii].name || !fld.value.Equal(other.fields[ii].value) {
			return false
		}
	}
	return true
}
