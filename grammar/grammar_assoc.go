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

package grammar

type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

func ParseSide(name string) (Side, bool) {
	switch name {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Left, false
}

func (s Side) Sides() Sides {
	if s == Right {
		return SidesRight
	}
	return SidesLeft
}

// Sides is a set of anchor edges.
type Sides uint8

const (
	SidesNone  Sides = 0
	SidesLeft  Sides = 1 << 0
	SidesRight Sides = 1 << 1
	SidesBoth        = SidesLeft | SidesRight
)

func (s Sides) Intersect(other Sides) Sides {
	return s & other
}

// Resolve picks one side from the set, preferring Left. It returns false if
// the set is empty.
func (s Sides) Resolve() (Side, bool) {
	switch {
	case s&SidesLeft != 0:
		return Left, true
	case s&SidesRight != 0:
		return Right, true
	}
	return Left, false
}

// Associate computes the associativity of an argument list: the
// intersection of every argument's sides, resolved to one side. It returns
// false for mixed associativities.
func Associate(args []*Argument) (Side, bool) {
	sides := SidesBoth
	for _, arg := range args {
		sides = sides.Intersect(arg.Sides())
	}
	return sides.Resolve()
}

// Arity returns the minimum and maximum number of wire arguments an
// argument list accepts.
func Arity(args []*Argument) (minArgs, maxArgs int) {
	for _, arg := range args {
		maxArgs++
		if !arg.IsOptional() {
			minArgs++
		}
	}
	return minArgs, maxArgs
}

// AdjacentLiterals returns the index of the first literal that directly
// follows another literal, or -1.
func AdjacentLiterals(args []*Argument) int {
	for ii := 1; ii < len(args); ii++ {
		if args[ii].Kind == KindLiteral && args[ii-1].Kind == KindLiteral {
			return ii
		}
	}
	return -1
}
