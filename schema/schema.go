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

// Package schema is the compiled form of a protocol description, and its
// persisted JSON and YAML artifacts.
//
// A Description is built once by the compiler (or loaded from an artifact)
// and is read-only afterwards. It may be shared between goroutines.
package schema

import (
	"fmt"

	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/line"
)

type Description struct {
	MajorVersion int
	MinorVersion int
	Sections     []*Section
	Messages     []*Message
}

type Section struct {
	Name  string
	Title string
	URL   string
}

type Kind uint8

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

func ParseKind(name string) (Kind, bool) {
	switch name {
	case "text":
		return KindText, true
	case "numeric":
		return KindNumeric, true
	}
	return KindText, false
}

type Message struct {
	Name    string
	Section string

	// Verb is the wire command. Numeric verbs have an empty Name.
	Verb   line.Command
	Format string

	Arguments     []*grammar.Argument
	Associativity grammar.Side

	// Related holds message names, not verbs.
	Related       []string
	Documentation string
}

func (m *Message) Kind() Kind {
	if m.Verb.IsNumeric() {
		return KindNumeric
	}
	return KindText
}

// Arity returns the inclusive range of wire argument counts the message
// accepts.
func (m *Message) Arity() (minArgs, maxArgs int) {
	return grammar.Arity(m.Arguments)
}

func (m *Message) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Verb)
}

func (d *Description) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (d *Description) Message(name string) *Message {
	for _, m := range d.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MessagesInSection returns the section's messages in description order.
func (d *Description) MessagesInSection(name string) []*Message {
	var out []*Message
	for _, m := range d.Messages {
		if m.Section == name {
			out = append(out, m)
		}
	}
	return out
}
