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

// Quoter escapes a set of bytes with a single quote byte followed by a
// one-byte code. The quote byte itself is escaped by doubling it.
type Quoter struct {
	quote   byte
	escape  [256]byte
	escaped [256]bool
	codes   map[byte]byte
}

// NewQuoter returns a Quoter for quote; codes maps each escape code to the
// raw byte it stands for.
func NewQuoter(quote byte, codes map[byte]byte) *Quoter {
	q := &Quoter{
		quote: quote,
		codes: make(map[byte]byte, len(codes)),
	}
	for code, raw := range codes {
		q.codes[code] = raw
		q.escape[raw] = code
		q.escaped[raw] = true
	}
	return q
}

func (q *Quoter) Encode(unquoted []byte) ([]byte, error) {
	out := make([]byte, 0, len(unquoted))
	for _, c := range unquoted {
		switch {
		case c == q.quote:
			out = append(out, q.quote, q.quote)
		case q.escaped[c]:
			out = append(out, q.quote, q.escape[c])
		default:
			out = append(out, c)
		}
	}
	return out, nil
}

// Decode never fails. An escape code with no mapping decodes to the code
// byte itself, and a trailing quote byte with nothing after it is kept.
func (q *Quoter) Decode(quoted []byte) ([]byte, error) {
	out := make([]byte, 0, len(quoted))
	for ii := 0; ii < len(quoted); ii++ {
		c := quoted[ii]
		if c != q.quote || ii+1 == len(quoted) {
			out = append(out, c)
			continue
		}
		ii++
		code := quoted[ii]
		if raw, ok := q.codes[code]; ok {
			out = append(out, raw)
		} else {
			out = append(out, code)
		}
	}
	return out, nil
}

// LowLevel is the low-level (M-QUOTE) quoting of NUL, LF and CR.
var LowLevel Stage[[]byte, []byte] = NewQuoter(0x10, map[byte]byte{
	'0': 0x00,
	'n': '\n',
	'r': '\r',
})

// CTCPLevel is the CTCP-level (X-QUOTE) quoting of the tag delimiter.
var CTCPLevel Stage[[]byte, []byte] = NewQuoter('\\', map[byte]byte{
	'a': 0x01,
})
