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

// Package codec decodes the argument vector of a wire line into the named,
// typed fields of a described message, and encodes fields back.
//
// A Codec interprets a [schema.Description] directly; no per-message code is
// generated. It is read-only after New and safe for concurrent use.
package codec

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/line"
	"github.com/edk0/earendil/schema"
)

type Option interface {
	apply(*Codec)
}

type option func(*Codec)

func (f option) apply(c *Codec) { f(c) }

// WithText selects the text codec for str and channel fields and line
// sources. The default is UTF8.
func WithText(tc TextCodec) Option {
	return option(func(c *Codec) {
		c.text = tc
	})
}

type Codec struct {
	description *schema.Description
	text        TextCodec
	byVerb      map[line.Command][]*schema.Message
	byName      map[string]*schema.Message
}

func New(description *schema.Description, opts ...Option) *Codec {
	c := &Codec{
		description: description,
		text:        UTF8,
		byVerb:      make(map[line.Command][]*schema.Message),
		byName:      make(map[string]*schema.Message, len(description.Messages)),
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	for _, msg := range description.Messages {
		c.byVerb[msg.Verb] = append(c.byVerb[msg.Verb], msg)
		c.byName[msg.Name] = msg
	}
	return c
}

func (c *Codec) Description() *schema.Description {
	return c.description
}

// Resolve decodes l against the first message that accepts it. Lines no
// message accepts resolve to an *Unknown.
func (c *Codec) Resolve(l line.Line) Resolved {
	for _, msg := range c.byVerb[l.Command] {
		if m, err := c.Decode(msg, l); err == nil {
			return m
		}
	}
	return &Unknown{
		Source:    l.Source,
		Verb:      l.Command,
		Arguments: l.Arguments,
	}
}

// Decode decodes the arguments of l as an instance of msg.
//
// Arguments are consumed from the edge given by the message's
// associativity. A required argument always consumes one wire argument; an
// optional argument consumes one only while more wire arguments remain than
// the arguments still owed, so optionals nearer the anchor fill first.
func (c *Codec) Decode(msg *schema.Message, l line.Line) (*Message, error) {
	if l.Command != msg.Verb {
		return nil, &VerbMismatchError{Message: msg.Name, Want: msg.Verb, Got: l.Command}
	}
	n := len(l.Arguments)
	minArgs, maxArgs := msg.Arity()
	if n < minArgs || n > maxArgs {
		return nil, &ArityError{Message: msg.Name, Min: minArgs, Max: maxArgs, Got: n}
	}

	values := make([]Value, len(msg.Arguments))
	pos, step := 0, 1
	first, last, dir := 0, len(msg.Arguments)-1, 1
	if msg.Associativity == grammar.Right {
		pos, step = n-1, -1
		first, last, dir = last, first, -1
	}
	threshold := minArgs
	for ii := first; ii != last+dir; ii += dir {
		arg := msg.Arguments[ii]
		if arg.IsOptional() {
			take := n > threshold
			threshold++
			if !take {
				if arg.IsFlag() {
					values[ii] = Flag(false)
				}
				continue
			}
		}
		v, err := c.decodeArgument(arg.Required(), arg.FieldName(), l.Arguments[pos])
		if err != nil {
			return nil, err
		}
		values[ii] = v
		pos += step
	}
	if (step > 0 && pos != n) || (step < 0 && pos != -1) {
		panic(fmt.Sprintf("codec: decoding %s left wire arguments unconsumed", msg.Name))
	}

	m := &Message{Name: msg.Name, verb: msg.Verb}
	if l.Source != nil {
		if source, err := c.text.Decode(l.Source); err == nil {
			m.Source = source
		}
	}
	for ii, arg := range msg.Arguments {
		if name := arg.FieldName(); name != "" {
			m.Fields.Set(name, values[ii])
		}
	}
	return m, nil
}

func (c *Codec) decodeArgument(arg *grammar.Argument, name string, raw []byte) (Value, error) {
	switch arg.Kind {
	case grammar.KindLiteral:
		return Value{}, nil
	case grammar.KindList:
		var parts [][]byte
		if arg.Separator == grammar.Space {
			parts = splitSpace(raw)
		} else {
			parts = bytes.Split(raw, []byte{','})
		}
		elems := make([]Value, 0, len(parts))
		for _, part := range parts {
			elem, err := c.decodeArgument(arg.Inner, name, part)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, elem)
		}
		return List(elems...), nil
	}

	switch arg.Type {
	case grammar.TypeStr, grammar.TypeChannel:
		text, err := c.text.Decode(raw)
		if err != nil {
			return Value{}, &LeafError{Field: name, Err: err}
		}
		return Text(text), nil
	case grammar.TypeInt:
		num, err := strconv.Atoi(string(raw))
		if err != nil {
			return Value{}, &LeafError{Field: name, Err: err}
		}
		return Int(num), nil
	case grammar.TypeFlag:
		return Flag(true), nil
	case grammar.TypeLiteral:
		return Text(arg.TypeArgument), nil
	}
	return Value{}, &LeafError{Field: name, Err: fmt.Errorf("unsupported type %s", arg.Type)}
}

// Encode builds the wire line for m. Literals and flags emit their fixed
// text; unset optional fields and false optional flags emit nothing.
func (c *Codec) Encode(m *Message) (line.Line, error) {
	msg, ok := c.byName[m.Name]
	if !ok {
		return line.Line{}, &UnknownMessageError{Name: m.Name}
	}
	l := line.Line{Command: msg.Verb}
	if m.Source != "" {
		source, err := c.text.Encode(m.Source)
		if err != nil {
			return line.Line{}, &LeafError{Field: "source", Err: err}
		}
		l.Source = source
	}

	for _, arg := range msg.Arguments {
		if arg.Kind == grammar.KindLiteral {
			l.Arguments = append(l.Arguments, []byte(arg.Text))
			continue
		}
		name := arg.FieldName()
		v, ok := m.Fields.Get(name)
		inner := arg.Required()
		if arg.IsOptional() {
			if !ok || (inner.Kind == grammar.KindLeaf && inner.Type == grammar.TypeFlag && !v.Flag()) {
				continue
			}
		} else if !ok && !hasFixedText(inner) {
			return line.Line{}, &MissingFieldError{Message: msg.Name, Field: name}
		}
		raw, err := c.encodeArgument(inner, name, v)
		if err != nil {
			return line.Line{}, err
		}
		l.Arguments = append(l.Arguments, raw)
	}
	return l, nil
}

// hasFixedText reports whether a leaf encodes to its type argument whatever
// its value.
func hasFixedText(arg *grammar.Argument) bool {
	return arg.Kind == grammar.KindLeaf && (arg.Type == grammar.TypeFlag || arg.Type == grammar.TypeLiteral)
}

func (c *Codec) encodeArgument(arg *grammar.Argument, name string, v Value) ([]byte, error) {
	if hasFixedText(arg) {
		return []byte(arg.TypeArgument), nil
	}
	if arg.Kind == grammar.KindList {
		if v.Kind() != ValueList {
			return nil, &LeafError{Field: name, Err: &kindError{"list", v.Kind()}}
		}
		sep := []byte{','}
		if arg.Separator == grammar.Space {
			sep = []byte{' '}
		}
		parts := make([][]byte, 0, len(v.List()))
		for _, elem := range v.List() {
			part, err := c.encodeArgument(arg.Inner, name, elem)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return bytes.Join(parts, sep), nil
	}

	switch arg.Type {
	case grammar.TypeStr, grammar.TypeChannel:
		if v.Kind() != ValueText {
			return nil, &LeafError{Field: name, Err: &kindError{"text", v.Kind()}}
		}
		raw, err := c.text.Encode(v.Text())
		if err != nil {
			return nil, &LeafError{Field: name, Err: err}
		}
		return raw, nil
	case grammar.TypeInt:
		if v.Kind() != ValueInt {
			return nil, &LeafError{Field: name, Err: &kindError{"int", v.Kind()}}
		}
		return []byte(strconv.Itoa(v.Int())), nil
	}
	return nil, &LeafError{Field: name, Err: fmt.Errorf("unsupported type %s", arg.Type)}
}

// Messages returns the messages with the given verb.
func (c *Codec) Messages(verb line.Command) []*schema.Message {
	return c.byVerb[verb]
}

// NewMessage returns an empty message for the described message name.
func (c *Codec) NewMessage(name string) (*Message, error) {
	msg, ok := c.byName[name]
	if !ok {
		return nil, &UnknownMessageError{Name: name}
	}
	return &Message{Name: name, verb: msg.Verb}, nil
}

// splitSpace splits on runs of ASCII whitespace only; bytes in a
// non-ASCII text encoding are never separators.
func splitSpace(raw []byte) [][]byte {
	return bytes.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
}
