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

package syntax_test

import (
	"testing"

	"github.com/edk0/earendil/internal/testutil"
	"github.com/edk0/earendil/syntax"
)

const sample = `# sample description
Version: 0.1

Section: Connection Registration
name: registration
url: https://tools.ietf.org/html/rfc2812#section-3.1

Message: PASS <password>
name: password
documentation: Sets a connection password.

Message: NICK <nickname>
name: nick
related: USER, PASS
`

func TestParse(t *testing.T) {
	file, err := syntax.Parse([]byte(sample))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(file.Errors))
	if len(file.Records) != 4 {
		t.Fatalf("Expected 4 records, got: %d", len(file.Records))
	}

	version := file.Records[0]
	testutil.ExpectEq(t, syntax.RecordVersion, version.Kind)
	testutil.ExpectEq(t, "0.1", version.Title)
	testutil.ExpectEq(t, syntax.NewSpan(2, 1, 12), version.Span)
	testutil.ExpectEq(t, syntax.NewSpan(2, 10, 3), version.TitleSpan)

	section := file.Records[1]
	testutil.ExpectEq(t, syntax.RecordSection, section.Kind)
	testutil.ExpectEq(t, "Connection Registration", section.Title)
	name, ok := section.Field("name")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "registration", name.Value)
	testutil.ExpectEq(t, syntax.NewSpan(5, 1, 4), name.Span)
	testutil.ExpectEq(t, syntax.NewSpan(5, 7, 12), name.ValueSpan)
	url, ok := section.Field("url")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "https://tools.ietf.org/html/rfc2812#section-3.1", url.Value)

	pass := file.Records[2]
	testutil.ExpectEq(t, syntax.RecordMessage, pass.Kind)
	testutil.ExpectEq(t, "PASS <password>", pass.Title)
	doc, ok := pass.Field("documentation")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "Sets a connection password.", doc.Value)

	nick := file.Records[3]
	related, ok := nick.Field("related")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "USER, PASS", related.Value)
	_, ok = nick.Field("documentation")
	testutil.ExpectFalse(t, ok)
}

func TestParseCRLF(t *testing.T) {
	file, err := syntax.Parse([]byte("Version: 1.2\r\n\r\nSection: Misc\r\nname: misc\r\n"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(file.Errors))
	testutil.ExpectEq(t, 2, len(file.Records))
	testutil.ExpectEq(t, "1.2", file.Records[0].Title)
	testutil.ExpectEq(t, "misc", file.Records[1].Fields[0].Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code uint32
		span syntax.Span
	}{
		{"missing colon", "Version: 0.1\nbogus line\n", 1001, syntax.NewSpan(2, 1, 10)},
		{"header without blank", "Version: 0.1\nSection: Misc\n", 1002, syntax.NewSpan(2, 1, 7)},
		{"invalid key", "Section: Misc\nnome: misc\n", 1003, syntax.NewSpan(2, 1, 4)},
		{"field before header", "name: misc\n", 1003, syntax.NewSpan(1, 1, 4)},
		{"version field", "Version: 0.1\nname: v\n", 1003, syntax.NewSpan(2, 1, 4)},
		{"field twice", "Section: Misc\nname: a\n  name: b\n", 1004, syntax.NewSpan(3, 3, 4)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			file, err := syntax.Parse([]byte(test.src))
			testutil.AssertNoError(t, err)
			if len(file.Errors) != 1 {
				t.Fatalf("Expected 1 error, got: %v", file.Errors)
			}
			testutil.ExpectEq(t, test.code, file.Errors[0].Code())
			testutil.ExpectEq(t, test.span, file.Errors[0].Span())
		})
	}
}

func TestParseContinuesAfterErrors(t *testing.T) {
	src := "Version: 0.1\nwhat\nSection: Misc\nname: misc\nname: again\n"
	file, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)

	var codes []uint32
	for _, err := range file.Errors {
		codes = append(codes, err.Code())
	}
	testutil.ExpectSliceEq(t, []uint32{1001, 1002, 1004}, codes)
	testutil.ExpectEq(t, 2, len(file.Records))
	testutil.ExpectEq(t, "misc", file.Records[1].Fields[0].Value)
}

func TestParseComments(t *testing.T) {
	src := "Version: 0.1\n  # a comment\n\nSection: Misc\n# name: commented\nname: misc\n"
	file, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(file.Errors))
	testutil.ExpectEq(t, 1, len(file.Records[1].Fields))
}

func TestParseInvalidUtf8(t *testing.T) {
	_, err := syntax.Parse([]byte("Version: 0.1\nSection: \xff\n"))
	testutil.AssertError(t, err)
	parseErr := err.(*syntax.Error)
	testutil.ExpectEq(t, uint32(1005), parseErr.Code())
	testutil.ExpectEq(t, syntax.NewSpan(2, 10, 1), parseErr.Span())
	testutil.ExpectEq(t, "E1005: Source file contains invalid UTF-8", parseErr.Error())
}

func TestTokenizeFormat(t *testing.T) {
	tests := []struct {
		format   string
		tokens   []string
		unclosed string
	}{
		{"PING", []string{"PING"}, ""},
		{"PRIVMSG <target:str> <text:str>", []string{"PRIVMSG", "<target:str>", "<text:str>"}, ""},
		{"PRIVMSG <msgtarget,> :<text>", []string{"PRIVMSG", "<msgtarget,>", "<text>"}, ""},
		{"KICK <#channel,> <user,> :[comment]", []string{"KICK", "<#channel,>", "<user,>", "[comment]"}, ""},
		{"MODE <nick> [<a b>]", []string{"MODE", "<nick>", "[<a b>]"}, ""},
		{"A [a b] <c\td>", []string{"A", "[a b]", "<c\td>"}, ""},
		{"AWAY :rest of the line", []string{"AWAY", "rest of the line"}, ""},
		{"TOPIC {x y} <t>", []string{"TOPIC", "{x y}", "<t>"}, ""},
		{"X <a:int", []string{"X", "<a:int"}, ">"},
		{"X [<a b", []string{"X", "[<a b"}, "]>"},
		{"   ", nil, ""},
	}
	for _, test := range tests {
		t.Run(test.format, func(t *testing.T) {
			tokens, unclosed := syntax.TokenizeFormat(test.format)
			var got []string
			for _, token := range tokens {
				got = append(got, token.Text)
			}
			testutil.ExpectSliceEq(t, test.tokens, got)
			testutil.ExpectEq(t, test.unclosed, unclosed)
		})
	}
}

func TestTokenizeFormatOffsets(t *testing.T) {
	tokens, _ := syntax.TokenizeFormat("NOTICE  <target> :<text>")
	var starts []int
	for _, token := range tokens {
		starts = append(starts, token.Start)
	}
	testutil.ExpectSliceEq(t, []int{0, 8, 18}, starts)
}
