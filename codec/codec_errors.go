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
	"fmt"

	"github.com/edk0/earendil/line"
)

// VerbMismatchError is returned when decoding a line against a message with
// a different verb.
type VerbMismatchError struct {
	Message string
	Want    line.Command
	Got     line.Command
}

func (err *VerbMismatchError) Error() string {
	return fmt.Sprintf("codec: message %s wants verb %s, line has %s", err.Message, err.Want, err.Got)
}

// ArityError is returned when a line's argument count is outside the
// message's accepted range.
type ArityError struct {
	Message string
	Min     int
	Max     int
	Got     int
}

func (err *ArityError) Error() string {
	if err.Min == err.Max {
		return fmt.Sprintf("codec: message %s takes %d arguments, got %d", err.Message, err.Min, err.Got)
	}
	return fmt.Sprintf("codec: message %s takes %d to %d arguments, got %d", err.Message, err.Min, err.Max, err.Got)
}

// LeafError reports a field value that could not be decoded or encoded.
type LeafError struct {
	Field string
	Err   error
}

func (err *LeafError) Error() string {
	return fmt.Sprintf("codec: field %s: %v", err.Field, err.Err)
}

func (err *LeafError) Unwrap() error {
	return err.Err
}

type MissingFieldError struct {
	Message string
	Field   string
}

func (err *MissingFieldError) Error() string {
	return fmt.Sprintf("codec: message %s: missing required field %s", err.Message, err.Field)
}

type UnknownMessageError struct {
	Name string
}

func (err *UnknownMessageError) Error() string {
	return fmt.Sprintf("codec: unknown message %q", err.Name)
}

type kindError struct {
	want string
	got  ValueKind
}

func (err *kindError) Error() string {
	return fmt.Sprintf("want %s value, got %s", err.want, err.got)
}
