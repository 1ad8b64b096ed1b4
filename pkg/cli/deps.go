/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kmodep/pkg/header"
	"github.com/NVIDIA/kmodep/pkg/modtree"
)

// DepsReport is the output document of the deps command.
type DepsReport struct {
	Header *header.Header      `json:"header" yaml:"header"`
	Kernel string              `json:"kernel" yaml:"kernel"`
	Deps   map[string][]string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Merged []string            `json:"merged,omitempty" yaml:"merged,omitempty"`
}

func depsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deps",
		EnableShellCompletion: true,
		Usage:                 "Compute transitive dependency closures for modules",
		ArgsUsage:             "[module...]",
		Description: `Resolve the given module names against a kernel's dependency index
and report the full transitive dependency closure of each.

Module names are fuzzy: bare names (ext4), underscore or dash variants
(dm_mod, dm-mod), and full index paths are all accepted. With --loaded,
or when no modules are given, the currently loaded modules are used.`,
		Flags: []cli.Flag{
			rootFlag,
			kernelFlag,
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Flatten all closures into one sorted, deduplicated list",
			},
			&cli.BoolFlag{
				Name:  "loaded",
				Usage: "Use the currently loaded modules instead of arguments",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			modules := cmd.Args().Slice()
			if cmd.Bool("loaded") && len(modules) > 0 {
				return fmt.Errorf("--loaded cannot be combined with module arguments")
			}

			k, err := openKernel(ctx, cmd)
			if err != nil {
				return err
			}
			svc := modtree.New(k)

			report := DepsReport{
				Header: newReportHeader(header.KindDependencyReport),
				Kernel: k.Version,
			}

			if cmd.Bool("merge") {
				report.Merged, err = svc.MergeDepsFor(ctx, modules)
			} else {
				report.Deps, err = svc.DepsFor(ctx, modules)
			}
			if err != nil {
				return err
			}

			return writeReport(ctx, cmd, report)
		},
	}
}
