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
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/edk0/earendil/schema"
)

type cmdCompile struct {
	g *globals

	outPath       string
	format        string
	allowWarnings bool
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile INPUT",
		summary: "Validate a protocol description and write its IR artifact",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default stdout)")
	flags.StringVarP(&cmd.format, "format", "f", "", "artifact format: json or yaml")
	flags.BoolVar(&cmd.allowWarnings, "allow-warnings", false, "write IR even if there are warnings")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(os.Stderr, "usage: earendil compile INPUT [-o OUTPUT] [-f json|yaml]")
		return 1
	}
	srcPath := argv[0]
	cfg := cmd.g.config

	format := artifactFormat(cmd.outPath, cfg.Format)
	if cmd.format != "" {
		f, err := schema.ParseFormat(cmd.format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unsupported output format %q\n", cmd.format)
			return 1
		}
		format = f
	}

	result, err := compileFile(srcPath, cmd.allowWarnings || cfg.AllowWarnings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printDiagnostics(os.Stderr, srcPath, &result)
	if result.Err() != nil {
		cmd.g.log.Debug().
			Str("input", srcPath).
			Int("errors", len(result.Errors)).
			Int("warnings", len(result.Warnings)).
			Msg("compilation failed")
		return 1
	}

	output, err := schema.Encode(result.Description(), format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := writeOutput(cmd.outPath, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cmd.g.log.Debug().
		Str("input", srcPath).
		Str("format", format.String()).
		Int("messages", len(result.Description().Messages)).
		Msg("wrote IR artifact")
	return 0
}
