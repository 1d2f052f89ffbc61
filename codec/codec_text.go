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
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextCodec converts between wire bytes and text for str and channel
// fields and line sources.
type TextCodec interface {
	Name() string
	Decode(b []byte) (string, error)
	Encode(s string) ([]byte, error)
}

var ErrInvalidUTF8 = errors.New("invalid UTF-8")

var (
	UTF8         TextCodec = utf8Codec{}
	Latin1       TextCodec = latin1Codec{}
	UTF8OrLatin1 TextCodec = fallbackCodec{}
)

// ParseTextCodec looks up a text codec by name.
func ParseTextCodec(name string) (TextCodec, error) {
	for _, tc := range []TextCodec{UTF8, Latin1, UTF8OrLatin1} {
		if tc.Name() == name {
			return tc, nil
		}
	}
	return nil, fmt.Errorf("unknown text encoding %q", name)
}

type utf8Codec struct{}

func (utf8Codec) Name() string { return "utf-8" }

func (utf8Codec) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func (utf8Codec) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	return []byte(s), nil
}

type latin1Codec struct{}

func (latin1Codec) Name() string { return "latin-1" }

func (latin1Codec) Decode(b []byte) (string, error) {
	return charmap.ISO8859_1.NewDecoder().String(string(b))
}

func (latin1Codec) Encode(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}

// fallbackCodec decodes UTF-8 when possible and Latin-1 otherwise, and
// always encodes UTF-8.
type fallbackCodec struct{}

func (fallbackCodec) Name() string { return "utf-8+latin-1" }

func (fallbackCodec) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	return Latin1.Decode(b)
}

func (fallbackCodec) Encode(s string) ([]byte, error) {
	return UTF8.Encode(s)
}
