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

package line_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/edk0/earendil/internal/testutil"
	"github.com/edk0/earendil/line"
)

func roundTrip[A, B any](t *testing.T, stage line.Stage[A, B], friendly A, encoded B) {
	t.Helper()
	gotEncoded, err := stage.Encode(friendly)
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, encoded, gotEncoded)

	gotFriendly, err := stage.Decode(encoded)
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, friendly, gotFriendly)
}

func bs(ss ...string) [][]byte {
	out := make([][]byte, 0, len(ss))
	for _, s := range ss {
		out = append(out, []byte(s))
	}
	return out
}

func TestTerminator(t *testing.T) {
	t.Parallel()
	roundTrip(t, line.Terminator, []byte("blah"), []byte("blah\r\n"))

	for _, bad := range []string{"plain \r", "plain ", "plain\n", ""} {
		_, err := line.Terminator.Decode([]byte(bad))
		if !errors.Is(err, line.ErrBadTerminator) {
			t.Errorf("Decode(%q): expected ErrBadTerminator, got %v", bad, err)
		}
	}
}

func TestLowLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     string
		escaped string
	}{
		{"plain", "plain \t\010", "plain \t\010"},
		{"quote", "this\020", "this\020\020"},
		{"many", "a\020b\n\r", "a\020\020b\020n\020r"},
		{"nul", "\000x", "\0200x"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roundTrip(t, line.LowLevel, []byte(test.raw), []byte(test.escaped))
		})
	}
}

func TestLowLevelUnknownEscape(t *testing.T) {
	t.Parallel()
	got, err := line.LowLevel.Decode([]byte("\020a"))
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte("a"), got)

	got, err = line.LowLevel.Decode([]byte("end\020"))
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte("end\020"), got)
}

func TestTagger(t *testing.T) {
	t.Parallel()
	roundTrip(t, line.Tags, bs("plain"), []byte("plain"))
	roundTrip(t, line.Tags, bs("one", "two", "three"), []byte("one\001two\001\001three\001"))
}

func TestTaggerMixed(t *testing.T) {
	t.Parallel()
	got, err := line.Tags.Decode([]byte("on\001two\001e"))
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, bs("one", "two"), got)
}

func TestTaggerUnterminated(t *testing.T) {
	t.Parallel()
	got, err := line.Tags.Decode([]byte("base\001one\001rest\001open"))
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, bs("baserest\001open", "one"), got)

	_, err = line.StrictTags.Decode([]byte("base\001open"))
	if !errors.Is(err, line.ErrUnbalancedTags) {
		t.Errorf("expected ErrUnbalancedTags, got %v", err)
	}
}

func TestTaggerInvalid(t *testing.T) {
	t.Parallel()
	_, err := line.Tags.Encode(bs("one", "tw\001o"))
	if !errors.Is(err, line.ErrDelimiterInSegment) {
		t.Errorf("expected ErrDelimiterInSegment, got %v", err)
	}
	_, err = line.Tags.Encode(nil)
	if !errors.Is(err, line.ErrNoSegments) {
		t.Errorf("expected ErrNoSegments, got %v", err)
	}
}

func TestCTCPLevel(t *testing.T) {
	t.Parallel()
	roundTrip(t, line.CTCPLevel, []byte("plain"), []byte("plain"))
	roundTrip(t, line.CTCPLevel, []byte("plain\\"), []byte("plain\\\\"))
	roundTrip(t, line.CTCPLevel, []byte("a\001b\\"), []byte("a\\ab\\\\"))
}

func TestFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line line.Line
		want [][]byte
	}{
		{
			name: "noarg-nosrc",
			line: line.Line{Command: line.Text("PING")},
			want: bs("PING"),
		},
		{
			name: "arg-nosrc",
			line: line.Line{Command: line.Text("PING"), Arguments: bs("arg1", "arg2")},
			want: bs("PING arg1 arg2"),
		},
		{
			name: "arg-src",
			line: line.Line{Source: []byte("src"), Command: line.Text("PING"), Arguments: bs("arg1")},
			want: bs(":src PING arg1"),
		},
		{
			name: "last-arg",
			line: line.Line{Command: line.Text("PRIVMSG"), Arguments: bs("nick", "message here")},
			want: bs("PRIVMSG nick :message here"),
		},
		{
			name: "colon",
			line: line.Line{Command: line.Text("PRIVMSG"), Arguments: bs("nick", "message : this")},
			want: bs("PRIVMSG nick :message : this"),
		},
		{
			name: "leading-colon",
			line: line.Line{Command: line.Text("PRIVMSG"), Arguments: bs("nick", ":)")},
			want: bs("PRIVMSG nick ::)"),
		},
		{
			name: "tags",
			line: line.Line{Command: line.Text("PING"), Arguments: bs("arg"), CTCP: bs("tag1", "tag2")},
			want: bs("PING arg", "tag1", "tag2"),
		},
		{
			name: "empty",
			line: line.Line{Command: line.Text("PING"), Arguments: bs("")},
			want: bs("PING :"),
		},
		{
			name: "numeric",
			line: line.Line{Command: line.Numeric(56), Arguments: bs("arg1")},
			want: bs("056 arg1"),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roundTrip(t, line.Format, test.line, test.want)
		})
	}
}

func TestFormatInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line line.Line
		want error
	}{
		{"middle-whitespace", line.Line{Command: line.Text("PRIVMSG"), Arguments: bs("nick name", "b")}, line.ErrWhitespaceInArgument},
		{"middle-empty", line.Line{Command: line.Text("PRIVMSG"), Arguments: bs("", "b")}, line.ErrEmptyArgument},
		{"middle-colon", line.Line{Command: line.Text("PRIVMSG"), Arguments: bs(":a", "b")}, line.ErrColonArgument},
		{"numeric-range", line.Line{Command: line.Numeric(1000)}, line.ErrNumericRange},
		{"digit-verb", line.Line{Command: line.Text("123")}, line.ErrInvalidVerb},
		{"space-verb", line.Line{Command: line.Text("PI NG")}, line.ErrInvalidVerb},
		{"empty-source", line.Line{Source: []byte{}, Command: line.Text("PING")}, line.ErrInvalidSource},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := line.Format.Encode(test.line)
			if !errors.Is(err, test.want) {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestFormatDecodeInvalid(t *testing.T) {
	t.Parallel()
	_, err := line.Format.Decode(nil)
	if !errors.Is(err, line.ErrNoSegments) {
		t.Errorf("expected ErrNoSegments, got %v", err)
	}
	for _, src := range []string{"   ", "", ":src", "  :src  "} {
		_, err := line.Format.Decode(bs(src))
		if !errors.Is(err, line.ErrEmptyInput) {
			t.Errorf("Decode(%q): expected ErrEmptyInput, got %v", src, err)
		}
	}
}

func TestFormatWhitespace(t *testing.T) {
	t.Parallel()
	got, err := line.Format.Decode(bs("  :src\tPING\t  \t:arg  "))
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, line.Line{
		Source:    []byte("src"),
		Command:   line.Text("PING"),
		Arguments: bs("arg  "),
	}, got)
}

func TestFormatLowercaseVerb(t *testing.T) {
	t.Parallel()
	got, err := line.Format.Decode(bs("privmsg a b"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, line.Text("PRIVMSG"), got.Command)

	encoded, err := line.Format.Encode(line.Line{Command: line.Text("notice")})
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, bs("NOTICE"), encoded)
}

func TestStack(t *testing.T) {
	t.Parallel()
	// Examples from the CTCP specification.
	tests := []struct {
		name string
		line line.Line
		wire string
	}{
		{
			name: "ping",
			line: line.Line{Command: line.Text("PING")},
			wire: "PING\r\n",
		},
		{
			name: "numeric",
			line: line.Line{Command: line.Numeric(56), Arguments: bs("arg1")},
			wire: "056 arg1\r\n",
		},
		{
			name: "quoted-text",
			line: line.Line{
				Source:    []byte("actor"),
				Command:   line.Text("PRIVMSG"),
				Arguments: bs("victim", "Hi there!\nHow are you? \\K?"),
			},
			wire: ":actor PRIVMSG victim :Hi there!\020nHow are you? \\\\K?\r\n",
		},
		{
			name: "quoted-tag",
			line: line.Line{
				Source:    []byte("actor"),
				Command:   line.Text("PRIVMSG"),
				Arguments: bs("victim", ""),
				CTCP:      bs("SED \n\t\big\020\001\000\\:"),
			},
			wire: ":actor PRIVMSG victim :\001SED \020n\t\big\020\020\\a\0200\\\\:\001\r\n",
		},
		{
			name: "text-and-tag",
			line: line.Line{
				Source:    []byte("actor"),
				Command:   line.Text("PRIVMSG"),
				Arguments: bs("victim", "Say hi to Ron\n\t/actor"),
				CTCP:      bs("USERINFO"),
			},
			wire: ":actor PRIVMSG victim :Say hi to Ron\020n\t/actor\001USERINFO\001\r\n",
		},
		{
			name: "reply",
			line: line.Line{
				Source:    []byte("victim"),
				Command:   line.Text("NOTICE"),
				Arguments: bs("actor", ""),
				CTCP:      bs("USERINFO :CS student\n\001test\001"),
			},
			wire: ":victim NOTICE actor :\001USERINFO :CS student\020n\\atest\\a\001\r\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roundTrip(t, line.Stack, test.line, []byte(test.wire))

			parsed, err := line.Parse([]byte(test.wire))
			testutil.AssertNoError(t, err)
			testutil.ExpectDeepEq(t, test.line, parsed)

			unparsed, err := line.Unparse(test.line)
			testutil.AssertNoError(t, err)
			testutil.ExpectBytesEq(t, []byte(test.wire), unparsed)
		})
	}
}

func TestStackErrors(t *testing.T) {
	t.Parallel()
	_, err := line.Parse([]byte("PING"))
	if !errors.Is(err, line.ErrBadTerminator) {
		t.Errorf("expected ErrBadTerminator, got %v", err)
	}
	_, err = line.Parse([]byte("  \r\n"))
	if !errors.Is(err, line.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

var (
	letters  = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	wordByte = rapid.ByteRange('!', '~')
)

func genMiddle() *rapid.Generator[[]byte] {
	return rapid.Custom(func(t *rapid.T) []byte {
		arg := rapid.SliceOfN(wordByte, 1, 12).Draw(t, "middle")
		if arg[0] == ':' {
			arg[0] = 'x'
		}
		return arg
	})
}

func genLine() *rapid.Generator[line.Line] {
	return rapid.Custom(func(t *rapid.T) line.Line {
		var l line.Line
		if rapid.Bool().Draw(t, "hasSource") {
			l.Source = rapid.SliceOfN(wordByte, 1, 16).Draw(t, "source")
		}
		if rapid.Bool().Draw(t, "numeric") {
			l.Command = line.Numeric(rapid.IntRange(0, 999).Draw(t, "code"))
		} else {
			verb := rapid.SliceOfN(rapid.SampledFrom(letters), 1, 10).Draw(t, "verb")
			l.Command = line.Text(string(verb))
		}
		l.Arguments = rapid.SliceOfN(genMiddle(), 0, 5).Draw(t, "arguments")
		if rapid.Bool().Draw(t, "hasLast") {
			l.Arguments = append(l.Arguments, rapid.SliceOf(rapid.Byte()).Draw(t, "last"))
		}
		l.CTCP = rapid.SliceOfN(rapid.SliceOf(rapid.Byte()), 0, 3).Draw(t, "ctcp")
		return l
	})
}

func TestStackRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := genLine().Draw(t, "line")
		wire, err := line.Unparse(l)
		if err != nil {
			t.Fatalf("Unparse(%#v): %v", l, err)
		}
		got, err := line.Parse(wire)
		if err != nil {
			t.Fatalf("Parse(%q): %v", wire, err)
		}
		if diff := testutil.Diff(l, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestQuoterRoundTripProperty(t *testing.T) {
	stages := map[string]line.Stage[[]byte, []byte]{
		"low-level":  line.LowLevel,
		"ctcp-level": line.CTCPLevel,
		"terminator": line.Terminator,
	}
	for name, stage := range stages {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				raw := rapid.SliceOf(rapid.Byte()).Draw(t, "raw")
				encoded, err := stage.Encode(raw)
				if err != nil {
					t.Fatal(err)
				}
				decoded, err := stage.Decode(encoded)
				if err != nil {
					t.Fatal(err)
				}
				if diff := testutil.Diff(raw, decoded); diff != "" {
					t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		})
	}
}
