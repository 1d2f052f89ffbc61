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

package line

import "errors"

var (
	ErrBadTerminator        = errors.New("line: missing \\r\\n terminator")
	ErrNoSegments           = errors.New("line: need at least one segment")
	ErrDelimiterInSegment   = errors.New("line: CTCP delimiter in segment")
	ErrUnbalancedTags       = errors.New("line: unbalanced CTCP delimiters")
	ErrEmptyInput           = errors.New("line: empty line")
	ErrWhitespaceInArgument = errors.New("line: whitespace in non-final argument")
	ErrEmptyArgument        = errors.New("line: empty non-final argument")
	ErrColonArgument        = errors.New("line: non-final argument starts with ':'")
	ErrInvalidVerb          = errors.New("line: invalid verb")
	ErrInvalidSource        = errors.New("line: invalid source")
	ErrNumericRange         = errors.New("line: numeric verb out of range")
)
