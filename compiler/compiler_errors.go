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

package compiler

import (
	"fmt"

	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/line"
	"github.com/edk0/earendil/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
	verb    string
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

func (err *Error) Span() syntax.Span {
	return err.span
}

// Verb is the verb of the message the error belongs to, or "".
func (err *Error) Verb() string {
	return err.verb
}

func errSyntax(err *syntax.Error) *Error {
	return &Error{
		code:    err.Code(),
		message: err.Message(),
		span:    err.Span(),
	}
}

func errInvalidVersion(version string, span syntax.Span) *Error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Invalid version format %q", version),
		span:    span,
	}
}

func errVersionConflict(span syntax.Span) *Error {
	return &Error{
		code:    3001,
		message: "Only one version allowed",
		span:    span,
	}
}

func errNoVersion() *Error {
	return &Error{
		code:    3002,
		message: "No version found",
		span:    syntax.NewSpan(1, 1, 0),
	}
}

func errRequiredField(key string, span syntax.Span) *Error {
	return &Error{
		code:    3003,
		message: fmt.Sprintf("Required field `%s` missing", key),
		span:    span,
	}
}

func errName(problem *grammar.Problem, span syntax.Span) *Error {
	code := uint32(3004)
	switch problem.Kind {
	case grammar.ProblemNameCase:
		code = 3005
	case grammar.ProblemNameWhitespace:
		code = 3006
	case grammar.ProblemNameCharset:
		code = 3007
	}
	return &Error{
		code:    code,
		message: capitalize(problem.Error()),
		span:    span,
	}
}

func errSectionNameConflict(name string, span syntax.Span) *Error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("Non-unique section name '%s'", name),
		span:    span,
	}
}

func errMessageNoSection(span syntax.Span) *Error {
	return &Error{
		code:    3009,
		message: "Message has no section",
		span:    span,
	}
}

func errMessageNameConflict(name string, span syntax.Span) *Error {
	return &Error{
		code:    3010,
		message: fmt.Sprintf("Non-unique message name '%s'", name),
		span:    span,
	}
}

func errVerbConflict(verb line.Command, prev string, span syntax.Span) *Error {
	return &Error{
		code: 3011,
		message: fmt.Sprintf(
			"Non-unique verb %s (already used by message '%s')",
			verb, prev,
		),
		span: span,
	}
}

func errVerbCase(verb string, span syntax.Span) *Error {
	return &Error{
		code:    3012,
		message: fmt.Sprintf("Verb not upper case: %s", verb),
		span:    span,
	}
}

func errNumericFormat(verb string, span syntax.Span) *Error {
	return &Error{
		code:    3013,
		message: fmt.Sprintf("Invalid numeric format %q (want three digits)", verb),
		span:    span,
	}
}

func errNumericRange(verb string, span syntax.Span) *Error {
	return &Error{
		code:    3014,
		message: fmt.Sprintf("Invalid numeric code %s (want 001 to 999)", verb),
		span:    span,
	}
}

func errUnbalancedBrackets(expecting string, span syntax.Span) *Error {
	return &Error{
		code:    3015,
		message: fmt.Sprintf("Unbalanced brackets, expecting %q", expecting),
		span:    span,
	}
}

func errNoVerb(span syntax.Span) *Error {
	return &Error{
		code:    3016,
		message: "No verb found",
		span:    span,
	}
}

func errArgument(problem *grammar.Problem, span syntax.Span) *Error {
	code := uint32(3017)
	if problem.Kind == grammar.ProblemTypeArgument {
		code = 3018
	}
	return &Error{
		code:    code,
		message: capitalize(problem.Error()),
		span:    span,
	}
}

func errArgumentNameConflict(name string, span syntax.Span) *Error {
	return &Error{
		code:    3019,
		message: fmt.Sprintf("Non-unique argument name '%s'", name),
		span:    span,
	}
}

func errMixedAssociativity(span syntax.Span) *Error {
	return &Error{
		code:    3020,
		message: "Mixed associativities: both [left] and (right) optional arguments",
		span:    span,
	}
}

func errNumericTarget(span syntax.Span) *Error {
	return &Error{
		code:    3021,
		message: "Numerics need a leading <target> argument",
		span:    span,
	}
}

func errAdjacentLiterals(span syntax.Span) *Error {
	return &Error{
		code:    3022,
		message: "Two successive literals, you need a :",
		span:    span,
	}
}

func errUnknownRelated(rel line.Command, span syntax.Span) *Error {
	return &Error{
		code:    3023,
		message: fmt.Sprintf("Unknown related verb: %s", rel),
		span:    span,
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}
