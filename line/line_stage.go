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

// Stage is one reversible layer of the line codec. Decode(Encode(x)) == x
// holds for every x that Encode accepts.
type Stage[A, B any] interface {
	Encode(A) (B, error)
	Decode(B) (A, error)
}

type funcStage[A, B any] struct {
	encode func(A) (B, error)
	decode func(B) (A, error)
}

func (s funcStage[A, B]) Encode(a A) (B, error) { return s.encode(a) }
func (s funcStage[A, B]) Decode(b B) (A, error) { return s.decode(b) }

// NewStage builds a Stage from a pair of functions.
func NewStage[A, B any](
	encode func(A) (B, error),
	decode func(B) (A, error),
) Stage[A, B] {
	return funcStage[A, B]{encode, decode}
}

// Compose returns the stage that encodes through first and then second, and
// decodes in the opposite order.
func Compose[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return NewStage(
		func(a A) (C, error) {
			b, err := first.Encode(a)
			if err != nil {
				var zero C
				return zero, err
			}
			return second.Encode(b)
		},
		func(c C) (A, error) {
			b, err := second.Decode(c)
			if err != nil {
				var zero A
				return zero, err
			}
			return first.Decode(b)
		},
	)
}

// MapSegments lifts a byte stage to a stage over every segment of a tag
// list.
func MapSegments(inner Stage[[]byte, []byte]) Stage[[][]byte, [][]byte] {
	apply := func(segments [][]byte, fn func([]byte) ([]byte, error)) ([][]byte, error) {
		out := make([][]byte, 0, len(segments))
		for _, segment := range segments {
			mapped, err := fn(segment)
			if err != nil {
				return nil, err
			}
			out = append(out, mapped)
		}
		return out, nil
	}
	return NewStage(
		func(segments [][]byte) ([][]byte, error) {
			return apply(segments, inner.Encode)
		},
		func(segments [][]byte) ([][]byte, error) {
			return apply(segments, inner.Decode)
		},
	)
}

// Stack is the complete line codec, from a structured Line to the
// terminated wire bytes.
var Stack = Compose(
	Compose(
		Compose(
			Compose(Format, MapSegments(CTCPLevel)),
			Tags,
		),
		LowLevel,
	),
	Terminator,
)

// Terminator appends and strips the "\r\n" line terminator.
var Terminator Stage[[]byte, []byte] = NewStage(
	func(unlined []byte) ([]byte, error) {
		out := make([]byte, 0, len(unlined)+2)
		out = append(out, unlined...)
		return append(out, '\r', '\n'), nil
	},
	func(lined []byte) ([]byte, error) {
		n := len(lined)
		if n < 2 || lined[n-2] != '\r' || lined[n-1] != '\n' {
			return nil, ErrBadTerminator
		}
		return lined[:n-2], nil
	},
)
