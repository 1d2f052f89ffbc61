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

// Package syntax scans protocol description files into records.
//
// A description is a sequence of blank-line separated records. Each record
// starts with a header line, "Version: 0.1", "Section: Title" or
// "Message: FORMAT", followed by "key: value" field lines. Lines whose first
// non-space character is '#' are comments.
//
// Parse only fails outright on input that is not text. Every other defect is
// recorded in [File.Errors] and scanning continues, so one pass reports all
// of them.
package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxSrcLen = 16 << 20

type RecordKind uint8

const (
	RecordVersion RecordKind = iota + 1
	RecordSection
	RecordMessage
)

func (k RecordKind) String() string {
	switch k {
	case RecordVersion:
		return "Version"
	case RecordSection:
		return "Section"
	case RecordMessage:
		return "Message"
	default:
		return "RecordKind(?)"
	}
}

var headerKinds = map[string]RecordKind{
	"Version": RecordVersion,
	"Section": RecordSection,
	"Message": RecordMessage,
}

var recordFields = map[RecordKind][]string{
	RecordVersion: nil,
	RecordSection: {"name", "url"},
	RecordMessage: {"name", "related", "documentation"},
}

// Span locates text in a source file. Lines and columns count from 1;
// columns and lengths are in bytes.
type Span struct {
	line uint32
	col  uint32
	len  uint32
}

func NewSpan(line, col, len uint32) Span {
	return Span{line, col, len}
}

func (s Span) Line() uint32 {
	return s.line
}

func (s Span) Col() uint32 {
	return s.col
}

func (s Span) Len() uint32 {
	return s.len
}

// Sub returns the span of text starting off bytes into s.
func (s Span) Sub(off, n int) Span {
	return Span{s.line, s.col + uint32(off), uint32(n)}
}

type File struct {
	Records []*Record
	Errors  []*Error
}

type Record struct {
	Kind  RecordKind
	Title string

	// Span covers the header line, TitleSpan only its value.
	Span      Span
	TitleSpan Span

	Fields []*Field
}

// Field returns the field with the given key.
func (r *Record) Field(key string) (*Field, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return nil, false
}

type Field struct {
	Key   string
	Value string

	Span      Span
	ValueSpan Span
}

// AllowsField reports whether key may appear in a record of kind k.
func (k RecordKind) AllowsField(key string) bool {
	for _, field := range recordFields[k] {
		if field == key {
			return true
		}
	}
	return false
}

func Parse(src []byte) (*File, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}

	s := scanner{file: &File{}, roomForHeader: true}
	for ii, text := range strings.Split(string(src), "\n") {
		s.scanLine(uint32(ii+1), strings.TrimSuffix(text, "\r"))
	}
	s.emit()
	return s.file, nil
}

type scanner struct {
	file          *File
	current       *Record
	roomForHeader bool
}

func (s *scanner) scanLine(lineno uint32, text string) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "#") {
		return
	}
	if trimmed == "" {
		s.roomForHeader = true
		return
	}

	indent := strings.Index(text, trimmed)
	lineSpan := NewSpan(lineno, uint32(indent+1), uint32(len(trimmed)))

	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		s.error(errMissingColon(lineSpan))
		return
	}

	key := strings.TrimSpace(text[:colon])
	rawValue := text[colon+1:]
	value := strings.TrimSpace(rawValue)
	valueOff := colon + 1 + len(rawValue) - len(strings.TrimLeftFunc(rawValue, unicode.IsSpace))
	keySpan := NewSpan(lineno, uint32(indent+1), uint32(len(key)))
	valueSpan := NewSpan(lineno, uint32(valueOff+1), uint32(len(value)))

	if kind, ok := headerKinds[key]; ok {
		s.emit()
		s.current = &Record{
			Kind:      kind,
			Title:     value,
			Span:      lineSpan,
			TitleSpan: valueSpan,
		}
		if !s.roomForHeader {
			s.error(errHeaderNeedsBlankLine(key, keySpan))
		}
	} else if s.current != nil && s.current.Kind.AllowsField(key) {
		if prev, dup := s.current.Field(key); dup {
			s.error(errFieldConflict(key, prev.Span, keySpan))
		} else {
			s.current.Fields = append(s.current.Fields, &Field{
				Key:       key,
				Value:     value,
				Span:      keySpan,
				ValueSpan: valueSpan,
			})
		}
	} else {
		s.error(errInvalidKey(key, keySpan))
	}
	s.roomForHeader = false
}

func (s *scanner) emit() {
	if s.current != nil {
		s.file.Records = append(s.file.Records, s.current)
		s.current = nil
	}
}

func (s *scanner) error(err *Error) {
	s.file.Errors = append(s.file.Errors, err)
}
