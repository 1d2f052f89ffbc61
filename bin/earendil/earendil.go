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
	stdflag "flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/edk0/earendil/internal/config"
	"github.com/edk0/earendil/internal/logging"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

// globals holds state shared by every command, filled in before the
// command runs.
type globals struct {
	configPath string
	logLevel   string

	config config.Config
	log    zerolog.Logger
}

func (g *globals) load(flags *pflag.FlagSet) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if flags.Changed("log-level") {
		level, err := zerolog.ParseLevel(g.logLevel)
		if err != nil {
			return fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	g.config = cfg
	g.log = logging.New("earendil", cfg.LogLevel, os.Stderr)
	return nil
}

func main() {
	ctx := context.Background()
	g := &globals{}

	earendilCmd := &cobra.Command{
		Use: "earendil [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	earendilCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, earendilCmd.UsageString())
		os.Exit(1)
		return nil
	}
	earendilCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return g.load(cmd.Flags())
	}
	persistent := earendilCmd.PersistentFlags()
	persistent.StringVar(&g.configPath, "config", "", "config file (default $"+config.EnvPath+")")
	persistent.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	commands := []command{
		&cmdCompile{g: g},
		&cmdLint{g: g},
		&cmdDecode{g: g},
		&cmdRender{g: g},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				os.Exit(cmd.run(ctx, args))
				return nil
			},
		}
		earendilCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	earendilCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	earendilCmd.ParseFlags(nil)
	if _, err := earendilCmd.ExecuteC(); err != nil {
		os.Exit(1)
	}
}
