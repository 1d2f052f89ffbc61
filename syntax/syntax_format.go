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

import "unicode"

// Token is one element of a tokenized message format. Start is the byte
// offset of the token within the format string.
type Token struct {
	Text  string
	Start int
}

var closers = map[rune]rune{
	'(': ')',
	'[': ']',
	'<': '>',
	'{': '}',
}

// TokenizeFormat splits a message format into its verb and argument
// tokens.
//
// Whitespace separates tokens except inside brackets. The first ':' outside
// any bracket is dropped and ends splitting, so the rest of the line becomes
// one token. Unclosed lists the closing brackets still expected at the end
// of the format, innermost last; it is empty when brackets balance.
func TokenizeFormat(format string) (tokens []Token, unclosed string) {
	var expect []rune
	var gather []rune
	start := 0
	splitOnSpace := true

	flush := func() {
		if len(gather) > 0 {
			tokens = append(tokens, Token{string(gather), start})
		}
		gather = gather[:0]
	}

	for off, c := range format {
		if closer, ok := closers[c]; ok {
			expect = append(expect, closer)
		} else if len(expect) > 0 && c == expect[len(expect)-1] {
			expect = expect[:len(expect)-1]
		}
		if c == ':' && splitOnSpace && len(expect) == 0 {
			flush()
			splitOnSpace = false
			continue
		}
		if splitOnSpace && len(expect) == 0 && unicode.IsSpace(c) {
			flush()
			continue
		}
		if len(gather) == 0 {
			start = off
		}
		gather = append(gather, c)
	}
	flush()
	return tokens, string(expect)
}
