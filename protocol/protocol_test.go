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

package protocol_test

import (
	"testing"

	"github.com/edk0/earendil/codec"
	"github.com/edk0/earendil/compiler"
	"github.com/edk0/earendil/grammar"
	"github.com/edk0/earendil/internal/testutil"
	"github.com/edk0/earendil/line"
	"github.com/edk0/earendil/protocol"
	"github.com/edk0/earendil/schema"
	"github.com/edk0/earendil/syntax"
)

func compileSource(t *testing.T, src []byte) compiler.CompileResult {
	t.Helper()
	file, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)
	return compiler.Compile(file)
}

func TestCompiles(t *testing.T) {
	t.Parallel()
	result := compileSource(t, protocol.Source())
	testutil.ExpectEq(t, 0, len(result.Errors))
	for _, w := range result.Warnings {
		t.Errorf("unexpected warning: %v", w)
	}
	testutil.AssertNoError(t, result.Err())

	desc := protocol.Description()
	testutil.ExpectEq(t, 1, desc.MajorVersion)
	testutil.ExpectTrue(t, desc.Message("privmsg") != nil)
	testutil.ExpectTrue(t, desc.Message("rpl-welcome") != nil)
	for _, sec := range desc.Sections {
		testutil.ExpectTrue(t, len(desc.MessagesInSection(sec.Name)) > 0)
	}
}

func TestArityLaw(t *testing.T) {
	t.Parallel()
	for _, msg := range protocol.Description().Messages {
		var required, optional int
		for _, arg := range msg.Arguments {
			if arg.IsOptional() {
				optional++
			} else {
				required++
			}
		}
		minArgs, maxArgs := msg.Arity()
		if minArgs != required || maxArgs != required+optional {
			t.Errorf("%s: Arity() = (%d, %d), want (%d, %d)",
				msg.Name, minArgs, maxArgs, required, required+optional)
		}
	}
}

func TestLiteralAdjacency(t *testing.T) {
	t.Parallel()
	for _, msg := range protocol.Description().Messages {
		for ii := 1; ii < len(msg.Arguments); ii++ {
			if msg.Arguments[ii-1].Kind == grammar.KindLiteral && msg.Arguments[ii].Kind == grammar.KindLiteral {
				t.Errorf("%s: adjacent literals at %d", msg.Name, ii)
			}
		}
	}
}

func TestNumericsLeadWithTarget(t *testing.T) {
	t.Parallel()
	for _, msg := range protocol.Description().Messages {
		if msg.Kind() != schema.KindNumeric {
			continue
		}
		testutil.ExpectEq(t, "target", msg.Arguments[0].Name)
	}
}

func TestArtifactRecompile(t *testing.T) {
	t.Parallel()
	desc := protocol.Description()
	for _, format := range []schema.Format{schema.FormatJSON, schema.FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := schema.Encode(desc, format)
			testutil.AssertNoError(t, err)
			got, err := schema.Decode(data, format)
			testutil.AssertNoError(t, err)
			testutil.ExpectDeepEq(t, desc, got)

			again, err := schema.Encode(got, format)
			testutil.AssertNoError(t, err)
			testutil.ExpectNoDiff(t, string(data), string(again))
		})
	}

	// Compiling twice yields identical IR.
	result := compileSource(t, protocol.Source())
	testutil.ExpectDeepEq(t, desc, result.Description())
}

func TestDecodeLines(t *testing.T) {
	t.Parallel()
	c := protocol.Codec()
	tests := []struct {
		raw    string
		name   string
		fields map[string]codec.Value
	}{
		{":irc.example.net 001 alice :Welcome to the network, alice\r\n", "rpl-welcome", map[string]codec.Value{
			"target": codec.Text("alice"),
			"text":   codec.Text("Welcome to the network, alice"),
		}},
		{":alice!a@host JOIN #chan\r\n", "join", map[string]codec.Value{
			"channels": codec.List(codec.Text("#chan")),
		}},
		{"PRIVMSG #a,bob :hi there\r\n", "privmsg", map[string]codec.Value{
			"targets": codec.List(codec.Text("#a"), codec.Text("bob")),
			"text":    codec.Text("hi there"),
		}},
		{":srv 353 alice = #chan :@bob alice\r\n", "rpl-namreply", map[string]codec.Value{
			"target":    codec.Text("alice"),
			"symbol":    codec.Text("="),
			"channel":   codec.Text("#chan"),
			"nicknames": codec.List(codec.Text("@bob"), codec.Text("alice")),
		}},
		{"MODE #chan +o bob\r\n", "mode", map[string]codec.Value{
			"target":     codec.Text("#chan"),
			"modestring": codec.Text("+o"),
			"arguments":  codec.List(codec.Text("bob")),
		}},
		{"USER guest 8 * :Guest User\r\n", "user", map[string]codec.Value{
			"user":     codec.Text("guest"),
			"mode":     codec.Int(8),
			"realname": codec.Text("Guest User"),
		}},
		{"WHOIS irc.example.net alice,bob\r\n", "whois", map[string]codec.Value{
			"target": codec.Text("irc.example.net"),
			"masks":  codec.List(codec.Text("alice"), codec.Text("bob")),
		}},
		{"WHOIS alice\r\n", "whois", map[string]codec.Value{
			"masks": codec.List(codec.Text("alice")),
		}},
		{"WHO *.fi o\r\n", "who", map[string]codec.Value{
			"mask":      codec.Text("*.fi"),
			"operators": codec.Flag(true),
		}},
		{"REHASH\r\n", "rehash", map[string]codec.Value{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := line.Parse([]byte(test.raw))
			testutil.AssertNoError(t, err)
			m, ok := c.Resolve(l).(*codec.Message)
			if !ok {
				t.Fatalf("%q did not resolve", test.raw)
			}
			testutil.ExpectEq(t, test.name, m.Name)
			testutil.ExpectEq(t, len(test.fields), m.Fields.Len())
			for name, want := range test.fields {
				got, _ := m.Fields.Get(name)
				if !got.Equal(want) {
					t.Errorf("field %s: want %v, got %v", name, want, got)
				}
			}

			encoded, err := c.Encode(m)
			testutil.AssertNoError(t, err)
			again, ok := c.Resolve(encoded).(*codec.Message)
			if !ok || !again.Fields.Equal(m.Fields) {
				t.Errorf("re-encoding %q did not round trip", test.raw)
			}
		})
	}
}

func TestUnknownVerb(t *testing.T) {
	t.Parallel()
	l, err := line.Parse([]byte("CAP LS 302\r\n"))
	testutil.AssertNoError(t, err)
	_, ok := protocol.Codec().Resolve(l).(*codec.Unknown)
	testutil.ExpectTrue(t, ok)
}
