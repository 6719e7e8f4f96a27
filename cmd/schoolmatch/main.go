// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "schoolmatch",
		Usage: "Place applicants in schools by score and preference",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "specify the config file (yaml)",
				EnvVars: []string{"SCHOOLMATCH_CONFIG"},
			},
			&cli.IntFlag{
				Name:  "v",
				Usage: "specify the log verbosity (2 default, 3 verbose, 4 debug, 5 trace)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "use the human readable log format",
			},
		},
		Commands: []*cli.Command{
			assignCmd,
			scoreCmd,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		stop()
		os.Exit(1)
	}
}

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "dir",
		Usage: "specify the directory holding person*.xlsx and schools.xlsx",
	},
	&cli.StringFlag{
		Name:  "input",
		Usage: "specify a JSON input file instead of the xlsx directory",
	},
	&cli.IntFlag{
		Name:  "workers",
		Usage: "specify the number of concurrent scoring workers (0 = all CPUs)",
	},
}

var assignCmd = &cli.Command{
	Name:    "assign",
	Usage:   "Assign applicants to schools",
	Aliases: []string{"a"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "specify the output file (.xlsx or .json)",
		},
		&cli.StringFlag{
			Name:  "metrics",
			Usage: "specify the prometheus textfile to write",
		},
		&cli.StringFlag{
			Name:  "tie-break",
			Usage: "specify how equal scores are ordered (enumeration, agent_id)",
		},
	}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if ctx.IsSet("out") {
			cfg.Output.File = ctx.String("out")
		}
		if ctx.IsSet("metrics") {
			cfg.Output.MetricsFile = ctx.String("metrics")
		}
		if ctx.IsSet("tie-break") {
			cfg.Allocation.TieBreak = ctx.String("tie-break")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return doAssign(ctx.Context, cfg)
	},
}

var scoreCmd = &cli.Command{
	Name:    "score",
	Usage:   "Print every applicant's score without assigning",
	Aliases: []string{"s"},
	Flags:   inputFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return doScore(ctx.Context, cfg)
	},
}
