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
	"bytes"

	json "github.com/goccy/go-json"
)

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueInt:
		return json.Marshal(v.num)
	case ValueFlag:
		return json.Marshal(v.flag)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON writes the fields as an object, keeping their order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for ii, fld := range f.fields {
		if ii > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(fld.name)
		if err != nil {
			return nil, err
		}
		value, err := fld.value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type messageJSON struct {
	Message string  `json:"message"`
	Verb    string  `json:"verb"`
	Source  *string `json:"source,omitempty"`
	Fields  Fields  `json:"fields"`
}

func (m *Message) MarshalJSON() ([]byte, error) {
	doc := messageJSON{
		Message: m.Name,
		Verb:    m.verb.String(),
		Fields:  m.Fields,
	}
	if m.Source != "" {
		doc.Source = &m.Source
	}
	return json.Marshal(doc)
}

type unknownJSON struct {
	Unknown   bool     `json:"unknown"`
	Verb      string   `json:"verb"`
	Source    *string  `json:"source,omitempty"`
	Arguments []string `json:"arguments"`
}

// MarshalJSON writes the raw source and arguments as strings; bytes that
// are not UTF-8 are replaced.
func (u *Unknown) MarshalJSON() ([]byte, error) {
	doc := unknownJSON{
		Unknown:   true,
		Verb:      u.Verb.String(),
		Arguments: make([]string, len(u.Arguments)),
	}
	if u.Source != nil {
		source := string(bytes.ToValidUTF8(u.Source, []byte("�")))
		doc.Source = &source
	}
	for ii, arg := range u.Arguments {
		doc.Arguments[ii] = string(bytes.ToValidUTF8(arg, []byte("�")))
	}
	return json.Marshal(doc)
}
