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

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/edk0/earendil/codec"
	"github.com/edk0/earendil/line"
	"github.com/edk0/earendil/protocol"
	"github.com/edk0/earendil/schema"
)

type cmdDecode struct {
	g *globals

	irPath string
	text   string
}

func (*cmdDecode) help() *commandHelp {
	return &commandHelp{
		usage:   "decode [INPUT]",
		summary: "Decode protocol lines into JSON, one object per line",
	}
}

func (cmd *cmdDecode) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.irPath, "ir", "", "IR artifact or description (default: bundled IRC description)")
	flags.StringVar(&cmd.text, "text", "", "text encoding: utf-8, latin-1 or utf-8+latin-1")
}

func (cmd *cmdDecode) run(ctx context.Context, argv []string) int {
	if len(argv) > 1 {
		fmt.Fprintln(os.Stderr, "usage: earendil decode [--ir FILE] [INPUT]")
		return 1
	}

	tc := cmd.g.config.Text
	if cmd.text != "" {
		var err error
		if tc, err = codec.ParseTextCodec(cmd.text); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	var desc *schema.Description
	if cmd.irPath == "" {
		desc = protocol.Description()
	} else {
		var err error
		if desc, err = loadDescription(cmd.irPath, cmd.g.config.AllowWarnings); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	in := io.Reader(os.Stdin)
	inPath := "<stdin>"
	if len(argv) == 1 {
		fp, err := os.Open(argv[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer fp.Close()
		in, inPath = fp, argv[0]
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	bad, err := decodeLines(codec.New(desc, codec.WithText(tc)), in, out, func(lineno int, err error) {
		fmt.Fprintf(os.Stderr, "%s:%d: %v\n", inPath, lineno, err)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if bad > 0 {
		cmd.g.log.Warn().Str("input", inPath).Int("rejected", bad).Msg("some lines could not be parsed")
		return 1
	}
	return 0
}

// decodeLines resolves every "\r\n"-terminated line of in and writes one
// JSON object per line to out. Lines the framing stack rejects are passed
// to report and counted.
func decodeLines(c *codec.Codec, in io.Reader, out io.Writer, report func(int, error)) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	scanner.Split(scanCRLF)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	bad := 0
	for lineno := 1; scanner.Scan(); lineno++ {
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		l, err := line.Parse(raw)
		if err != nil {
			report(lineno, err)
			bad++
			continue
		}
		if err := enc.Encode(c.Resolve(l)); err != nil {
			return bad, err
		}
	}
	return bad, scanner.Err()
}

// scanCRLF splits input after each "\n", keeping the terminator. A final
// line without one is returned as is, and the framing stack rejects it.
func scanCRLF(data []byte, atEOF bool) (int, []byte, error) {
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		return idx + 1, data[:idx+1], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
