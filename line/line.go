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

// Package line implements the byte-level framing of protocol lines: line
// termination, control-character quoting, CTCP tag segmentation and the
// `[:source ]VERB args` message format.
//
// Each layer is a [Stage]; [Stack] composes all of them so that
//
//	l, err := line.Parse([]byte(":nick!user@host PRIVMSG #chan :hello\r\n"))
//
// yields the source, command, argument vector and CTCP tags of one line.
package line

import (
	"bytes"
	"fmt"
	"strconv"
)

// Line is one protocol line in its structured form.
//
// A nil Source means the line has no source prefix. Arguments is the wire
// argument vector, the last element of which may contain whitespace. CTCP
// holds the tags embedded in the line, in order of appearance.
type Line struct {
	Source    []byte
	Command   Command
	Arguments [][]byte
	CTCP      [][]byte
}

// Command is the verb of a line: either a text verb such as "PRIVMSG" or a
// numeric reply code. The zero Name marks a numeric command.
type Command struct {
	Name string
	Code int
}

func Text(name string) Command {
	return Command{Name: name}
}

func Numeric(code int) Command {
	return Command{Code: code}
}

func (c Command) IsNumeric() bool {
	return c.Name == ""
}

func (c Command) String() string {
	if c.IsNumeric() {
		return fmt.Sprintf("%03d", c.Code)
	}
	return c.Name
}

// Parse decodes a complete wire line, including its "\r\n" terminator.
func Parse(raw []byte) (Line, error) {
	return Stack.Decode(raw)
}

// Unparse encodes l into a complete wire line, including its terminator.
func Unparse(l Line) ([]byte, error) {
	return Stack.Encode(l)
}

func parseCommand(verb []byte) Command {
	if isDigits(verb) {
		if code, err := strconv.Atoi(string(verb)); err == nil {
			return Numeric(code)
		}
	}
	return Text(string(asciiUpper(verb)))
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func asciiUpper(b []byte) []byte {
	out := bytes.Clone(b)
	for ii, c := range out {
		if c >= 'a' && c <= 'z' {
			out[ii] = c - ('a' - 'A')
		}
	}
	return out
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func hasSpace(b []byte) bool {
	return indexSpace(b) >= 0
}

func indexSpace(b []byte) int {
	for ii, c := range b {
		if isSpace(c) {
			return ii
		}
	}
	return -1
}
