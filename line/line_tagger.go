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

import (
	"bytes"
)

const ctcpDelim = 0x01

// Tagger splits a line into its base text and the CTCP tags embedded in it.
// Segment 0 is the base; every following segment is one tag.
type Tagger struct {
	// Strict rejects lines with an unterminated delimiter instead of
	// keeping the remainder in the base text.
	Strict bool
}

var (
	Tags       Stage[[][]byte, []byte] = Tagger{}
	StrictTags Stage[[][]byte, []byte] = Tagger{Strict: true}
)

func (t Tagger) Encode(segments [][]byte) ([]byte, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	size := 0
	for _, segment := range segments {
		if bytes.IndexByte(segment, ctcpDelim) >= 0 {
			return nil, ErrDelimiterInSegment
		}
		size += len(segment) + 2
	}
	out := make([]byte, 0, size)
	out = append(out, segments[0]...)
	for _, tag := range segments[1:] {
		out = append(out, ctcpDelim)
		out = append(out, tag...)
		out = append(out, ctcpDelim)
	}
	return out, nil
}

func (t Tagger) Decode(tagged []byte) ([][]byte, error) {
	base := make([]byte, 0, len(tagged))
	var tags [][]byte
	rest := tagged
	for len(rest) > 0 {
		open := bytes.IndexByte(rest, ctcpDelim)
		if open < 0 {
			base = append(base, rest...)
			break
		}
		base = append(base, rest[:open]...)
		closeIdx := bytes.IndexByte(rest[open+1:], ctcpDelim)
		if closeIdx < 0 {
			if t.Strict {
				return nil, ErrUnbalancedTags
			}
			base = append(base, rest[open:]...)
			break
		}
		tag := rest[open+1 : open+1+closeIdx]
		tags = append(tags, bytes.Clone(tag))
		rest = rest[open+2+closeIdx:]
	}
	return append([][]byte{base}, tags...), nil
}
