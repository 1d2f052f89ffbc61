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
	"golang.org/x/sync/errgroup"

	"github.com/edk0/earendil/compiler"
)

type cmdLint struct {
	g *globals

	allowWarnings bool
	jobs          int
}

func (*cmdLint) help() *commandHelp {
	return &commandHelp{
		usage:   "lint INPUT...",
		summary: "Check protocol descriptions for errors",
	}
}

func (cmd *cmdLint) flags(flags *pflag.FlagSet) {
	flags.BoolVar(&cmd.allowWarnings, "allow-warnings", false, "pass files that have only warnings")
	flags.IntVarP(&cmd.jobs, "jobs", "j", 0, "files checked at once (default unlimited)")
}

func (cmd *cmdLint) run(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "usage: earendil lint INPUT...")
		return 1
	}
	allowWarnings := cmd.allowWarnings || cmd.g.config.AllowWarnings

	results := make([]compiler.CompileResult, len(argv))
	readErrs := make([]error, len(argv))
	group, _ := errgroup.WithContext(ctx)
	if cmd.jobs > 0 {
		group.SetLimit(cmd.jobs)
	}
	for ii, path := range argv {
		group.Go(func() error {
			results[ii], readErrs[ii] = compileFile(path, allowWarnings)
			return nil
		})
	}
	_ = group.Wait()

	failed := 0
	for ii, path := range argv {
		if readErrs[ii] != nil {
			fmt.Fprintln(os.Stderr, readErrs[ii])
			failed++
			continue
		}
		printDiagnostics(os.Stderr, path, &results[ii])
		if results[ii].Err() != nil {
			failed++
		}
	}
	cmd.g.log.Debug().Int("files", len(argv)).Int("failed", failed).Msg("lint finished")
	if failed > 0 {
		return 1
	}
	return 0
}
