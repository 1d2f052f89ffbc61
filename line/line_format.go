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
	"fmt"
)

// Format converts between a Line and its tag list. Segment 0 of the tag
// list is the formatted `[:source ]VERB args` text and the remaining
// segments are the line's CTCP tags.
var Format Stage[Line, [][]byte] = formatter{}

type formatter struct{}

func (formatter) Encode(l Line) ([][]byte, error) {
	var buf bytes.Buffer
	if l.Source != nil {
		if len(l.Source) == 0 || hasSpace(l.Source) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSource, l.Source)
		}
		buf.WriteByte(':')
		buf.Write(l.Source)
		buf.WriteByte(' ')
	}

	verb, err := formatCommand(l.Command)
	if err != nil {
		return nil, err
	}
	buf.WriteString(verb)

	if n := len(l.Arguments); n > 0 {
		for ii, arg := range l.Arguments[:n-1] {
			if len(arg) == 0 {
				return nil, fmt.Errorf("%w (argument %d)", ErrEmptyArgument, ii)
			}
			if hasSpace(arg) {
				return nil, fmt.Errorf("%w (argument %d)", ErrWhitespaceInArgument, ii)
			}
			if arg[0] == ':' {
				return nil, fmt.Errorf("%w (argument %d)", ErrColonArgument, ii)
			}
			buf.WriteByte(' ')
			buf.Write(arg)
		}
		last := l.Arguments[n-1]
		if len(last) == 0 || hasSpace(last) || last[0] == ':' {
			buf.WriteString(" :")
		} else {
			buf.WriteByte(' ')
		}
		buf.Write(last)
	}

	segments := make([][]byte, 0, 1+len(l.CTCP))
	segments = append(segments, buf.Bytes())
	return append(segments, l.CTCP...), nil
}

func formatCommand(cmd Command) (string, error) {
	if cmd.IsNumeric() {
		if cmd.Code < 0 || cmd.Code > 999 {
			return "", fmt.Errorf("%w: %d", ErrNumericRange, cmd.Code)
		}
		return fmt.Sprintf("%03d", cmd.Code), nil
	}
	verb := []byte(cmd.Name)
	if hasSpace(verb) || verb[0] == ':' || isDigits(verb) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVerb, cmd.Name)
	}
	return string(asciiUpper(verb)), nil
}

func (formatter) Decode(segments [][]byte) (Line, error) {
	if len(segments) == 0 {
		return Line{}, ErrNoSegments
	}
	rest := trimLeftSpace(segments[0])

	var source []byte
	if len(rest) > 0 && rest[0] == ':' {
		end := indexSpace(rest)
		if end < 0 {
			return Line{}, ErrEmptyInput
		}
		source = bytes.Clone(rest[1:end])
		rest = trimLeftSpace(rest[end:])
	}

	var last []byte
	haveLast := false
	if idx := indexTrailing(rest); idx >= 0 {
		last = bytes.Clone(rest[idx+2:])
		rest = rest[:idx]
		haveLast = true
	}
	rest = trimRightSpace(rest)
	if len(rest) == 0 {
		return Line{}, ErrEmptyInput
	}

	fields := splitSpace(rest)
	args := make([][]byte, 0, len(fields))
	for _, field := range fields[1:] {
		args = append(args, bytes.Clone(field))
	}
	if haveLast {
		args = append(args, last)
	}

	var ctcp [][]byte
	if len(segments) > 1 {
		ctcp = segments[1:]
	}
	return Line{
		Source:    source,
		Command:   parseCommand(fields[0]),
		Arguments: args,
		CTCP:      ctcp,
	}, nil
}

// indexTrailing finds the first " :" or "\t:" marker, which starts the
// verbatim final argument.
func indexTrailing(b []byte) int {
	for ii := 0; ii+1 < len(b); ii++ {
		if (b[ii] == ' ' || b[ii] == '\t') && b[ii+1] == ':' {
			return ii
		}
	}
	return -1
}

func trimLeftSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	return b
}

func trimRightSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

func splitSpace(b []byte) [][]byte {
	return bytes.FieldsFunc(b, func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	})
}
