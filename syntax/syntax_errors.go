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

package syntax

import (
	"fmt"
	"math"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

func errSourceTooLong(srcLen int) *Error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{1, 1, lenUint32},
	}
}

func errMissingColon(span Span) *Error {
	return &Error{
		code:    1001,
		message: "No `:` found",
		span:    span,
	}
}

func errHeaderNeedsBlankLine(key string, span Span) *Error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Header '%s' must follow a blank line", key),
		span:    span,
	}
}

func errInvalidKey(key string, span Span) *Error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Invalid key in this location: '%s'", key),
		span:    span,
	}
}

func errFieldConflict(key string, prev, span Span) *Error {
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Field '%s' already set on line %d",
			key, prev.Line(),
		),
		span: span,
	}
}

func errInvalidUtf8(src []byte) *Error {
	line, col := uint32(1), uint32(1)
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if r == '\n' {
			line, col = line+1, 1
		} else {
			col += uint32(size)
		}
		src = src[size:]
	}
	return &Error{
		code:    1005,
		message: "Source file contains invalid UTF-8",
		span:    Span{line, col, 1},
	}
}
