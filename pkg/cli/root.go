/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/logging"
)

const (
	name           = "kmodep"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Shared flags used across subcommands.
var (
	rootFlag = &cli.StringFlag{
		Name:    "root",
		Usage:   "Filesystem root to scan for kernel module trees",
		Sources: cli.EnvVars("KMODEP_ROOT"),
		Value:   "/",
	}

	kernelFlag = &cli.StringFlag{
		Name:    "kernel",
		Aliases: []string{"k"},
		Usage:   "Kernel version (defaults to the newest installed kernel)",
		Sources: cli.EnvVars("KMODEP_KERNEL"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (defaults to stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format (json, yaml, table)",
		Value: "json",
	}
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Usage:   "Inspect Linux kernel module dependencies",
		Description: `kmodep reads the modules.dep index of installed kernels and answers
dependency questions about their modules:

  kernels - list installed kernel module trees
  modules - list modules available on disk for a kernel
  deps    - compute transitive dependency closures
  loaded  - show the live module table
  graph   - render dependency closures as Graphviz DOT`,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			kernelsCmd(),
			modulesCmd(),
			depsCmd(),
			loadedCmd(),
			graphCmd(),
		},
	}
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
